package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/serr"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/store"
)

// DefaultLanguages is the catalog every deployment starts with, in seeding order.
var DefaultLanguages = []model.Language{
	{Name: "Hindi", Code: "hi", NativeName: "हिन्दी", Flag: "🇮🇳"},
	{Name: "Tamil", Code: "ta", NativeName: "தமிழ்", Flag: "🇮🇳"},
	{Name: "Telugu", Code: "te", NativeName: "తెలుగు", Flag: "🇮🇳"},
	{Name: "Bengali", Code: "bn", NativeName: "বাংলা", Flag: "🇮🇳"},
	{Name: "Kannada", Code: "kn", NativeName: "ಕನ್ನಡ", Flag: "🇮🇳"},
	{Name: "Marathi", Code: "mr", NativeName: "मराठी", Flag: "🇮🇳"},
	{Name: "Sanskrit", Code: "sa", NativeName: "संस्कृत", Flag: "🇮🇳"},
	{Name: "English", Code: "en", NativeName: "English", Flag: "🇬🇧"},
	{Name: "Gujarati", Code: "gu", NativeName: "ગુજરાતી", Flag: "🇮🇳"},
	{Name: "Punjabi", Code: "pa", NativeName: "ਪੰਜਾਬੀ", Flag: "🇮🇳"},
}

type catalogStore interface {
	EnsureLanguage(ctx context.Context, l model.Language) (bool, error)
	ListLanguages(ctx context.Context) ([]model.Language, error)
	GetLesson(ctx context.Context, id string) (model.Lesson, error)
	ListLessons(ctx context.Context, r store.ListLessonsRequest) ([]model.Lesson, error)
	ListExercises(ctx context.Context, r store.ListExercisesRequest) ([]model.Exercise, error)
	ListProgress(ctx context.Context, r store.ListProgressRequest) ([]model.UserProgress, error)
}

// CatalogService serves the read-only language, lesson and exercise catalog
type CatalogService struct {
	store catalogStore
}

func NewCatalogService(store catalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// SeedLanguages inserts every language of langs whose code is not yet stored.
// Existing records are left untouched. It returns the number of languages inserted.
func (s *CatalogService) SeedLanguages(ctx context.Context, langs []model.Language) (int, error) {
	inserted := 0
	for _, l := range langs {
		l.ID = uuid.NewString()
		if l.DifficultyLevel == "" {
			l.DifficultyLevel = model.DefaultDifficultyLevel
		}

		ok, err := s.store.EnsureLanguage(ctx, l)
		if err != nil {
			return inserted, fmt.Errorf("seed language %s: %w", l.Code, err)
		}
		if ok {
			inserted++
			slog.Debug("language seeded", "code", l.Code)
		}
	}

	return inserted, nil
}

func (s *CatalogService) Languages(ctx context.Context) ([]model.Language, error) {
	langs, err := s.store.ListLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}

	return langs, nil
}

type LessonsRequest struct {
	LanguageID string
	UserID     string
}

// LessonStatus is a lesson as seen by one learner.
type LessonStatus struct {
	model.Lesson
	Completed bool
}

// Lessons lists the lessons of a language and marks those the user has completed
// at least once. An unknown language yields an empty list.
func (s *CatalogService) Lessons(ctx context.Context, r LessonsRequest) ([]LessonStatus, error) {
	lessons, err := s.store.ListLessons(ctx, store.ListLessonsRequest{LanguageID: r.LanguageID})
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	out := make([]LessonStatus, 0, len(lessons))
	if len(lessons) == 0 {
		return out, nil
	}

	done := map[string]bool{}
	if r.UserID != "" {
		records, err := s.store.ListProgress(ctx, store.ListProgressRequest{UserID: r.UserID})
		if err != nil {
			return nil, fmt.Errorf("list progress: %w", err)
		}
		for _, p := range records {
			if p.Completed {
				done[p.LessonID] = true
			}
		}
	}

	for _, l := range lessons {
		out = append(out, LessonStatus{Lesson: l, Completed: done[l.ID]})
	}

	return out, nil
}

// Exercises lists the exercises of a lesson in the order the lesson declares them.
// Exercises the lesson does not reference follow in store order.
func (s *CatalogService) Exercises(ctx context.Context, lessonID string) ([]model.Exercise, error) {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			se := serr.NewServiceError(err, http.StatusNotFound, msgLessonNotFound)
			se.Env["lesson_id"] = lessonID
			return nil, se
		}

		return nil, fmt.Errorf("get lesson: %w", err)
	}

	exercises, err := s.store.ListExercises(ctx, store.ListExercisesRequest{LessonID: lessonID})
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	return orderExercises(exercises, lesson.Exercises), nil
}

func orderExercises(exercises []model.Exercise, order []string) []model.Exercise {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}

	pos := func(e model.Exercise) int {
		if r, ok := rank[e.ID]; ok {
			return r
		}
		return len(order)
	}

	out := slices.Clone(exercises)
	slices.SortStableFunc(out, func(a, b model.Exercise) int {
		return cmp.Compare(pos(a), pos(b))
	})

	return out
}
