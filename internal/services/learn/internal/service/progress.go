package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/progress"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/store"
)

type progressStore interface {
	GetLesson(ctx context.Context, id string) (model.Lesson, error)
	InsertProgress(ctx context.Context, p model.UserProgress) error
	UpdateUserProgress(ctx context.Context, r store.UpdateUserProgressRequest) error
}

// ProgressService records lesson completions and applies the XP and streak rules
type ProgressService struct {
	store progressStore
	now   func() time.Time
}

func NewProgressService(store progressStore, now func() time.Time) *ProgressService {
	if now == nil {
		now = time.Now
	}

	return &ProgressService{store: store, now: now}
}

type CompleteLessonRequest struct {
	User     model.User
	LessonID string
	Score    int
}

type CompleteLessonResponse struct {
	XPGained int
}

// CompleteLesson appends a progress record and credits the user. Completions are not
// deduplicated, and a lesson missing from the catalog is worth progress.FallbackXPReward.
// The user is read by the caller, so concurrent completions for one user may lose a
// streak update; the XP increment itself is atomic in the store.
func (s *ProgressService) CompleteLesson(ctx context.Context, r CompleteLessonRequest) (CompleteLessonResponse, error) {
	var lesson *model.Lesson
	l, err := s.store.GetLesson(ctx, r.LessonID)
	switch {
	case err == nil:
		lesson = &l
	case errors.Is(err, store.ErrNotFound):
		slog.Warn("completing unknown lesson", "lesson_id", r.LessonID, "user_id", r.User.ID)
	default:
		return CompleteLessonResponse{}, fmt.Errorf("get lesson: %w", err)
	}

	now := s.now().UTC()
	upd := progress.Complete(r.User, progress.Reward(lesson), now)

	err = s.store.InsertProgress(ctx, model.UserProgress{
		ID:          uuid.NewString(),
		UserID:      r.User.ID,
		LessonID:    r.LessonID,
		Completed:   true,
		Score:       r.Score,
		Attempts:    1,
		CompletedAt: &now,
		Mistakes:    []string{},
	})
	if err != nil {
		return CompleteLessonResponse{}, fmt.Errorf("insert progress: %w", err)
	}

	req := store.UpdateUserProgressRequest{
		UserID:  r.User.ID,
		XPDelta: upd.XPGained,
	}
	if upd.Streak != nil {
		req.Streak = &store.StreakUpdate{
			Current:        upd.Streak.Current,
			Longest:        upd.Streak.Longest,
			LastLessonDate: upd.Streak.LastLessonDate,
		}
	}

	if err := s.store.UpdateUserProgress(ctx, req); err != nil {
		return CompleteLessonResponse{}, fmt.Errorf("update user progress: %w", err)
	}

	slog.Debug("lesson completed",
		"user_id", r.User.ID,
		"lesson_id", r.LessonID,
		"xp_gained", upd.XPGained,
		"streak", upd.Outcome)

	return CompleteLessonResponse{XPGained: upd.XPGained}, nil
}
