package store

import "time"

// GetUserRequest looks a user up by exactly one of its unique keys.
type GetUserRequest struct {
	ID       string
	Username string
}

type UserExistsRequest struct {
	Username string
	Email    string
}

// StreakUpdate replaces the streak fields of a user.
type StreakUpdate struct {
	Current        int
	Longest        int
	LastLessonDate time.Time
}

// UpdateUserProgressRequest increments total XP and, when Streak is set, overwrites
// the streak fields in the same write.
type UpdateUserProgressRequest struct {
	UserID  string
	XPDelta int
	Streak  *StreakUpdate
}

// RefillHeartsRequest sets hearts to Hearts and spends Cost gems. The write fails with
// ErrPrecondition when the user holds fewer than Cost gems.
type RefillHeartsRequest struct {
	UserID string
	Cost   int
	Hearts int
}

type ListProgressRequest struct {
	UserID   string
	LessonID string
}

type ListLessonsRequest struct {
	LanguageID string
}

type ListExercisesRequest struct {
	LessonID string
}

// CancelSubscriptionRequest marks the user's subscription cancelled at At. Only a
// subscription that is neither expired nor already cancelled at At matches.
type CancelSubscriptionRequest struct {
	UserID string
	At     time.Time
}
