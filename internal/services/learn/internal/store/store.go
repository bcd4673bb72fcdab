package store

import (
	"context"
	"errors"

	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrExists       = errors.New("already exists")
	ErrPrecondition = errors.New("precondition failed")
)

// Store is the persistence boundary for users, the catalog, progress records and subscriptions.
// Implementations must report duplicate usernames, emails and language codes as ErrExists.
// ListLanguages returns languages in the order they were first stored.
type Store interface {
	CreateUser(ctx context.Context, u model.User) error
	GetUser(ctx context.Context, r GetUserRequest) (model.User, error)
	UserExists(ctx context.Context, r UserExistsRequest) (bool, error)
	UpdateUserProgress(ctx context.Context, r UpdateUserProgressRequest) error
	RefillHearts(ctx context.Context, r RefillHeartsRequest) error

	InsertProgress(ctx context.Context, p model.UserProgress) error
	ListProgress(ctx context.Context, r ListProgressRequest) ([]model.UserProgress, error)

	EnsureLanguage(ctx context.Context, l model.Language) (bool, error)
	ListLanguages(ctx context.Context) ([]model.Language, error)
	GetLesson(ctx context.Context, id string) (model.Lesson, error)
	ListLessons(ctx context.Context, r ListLessonsRequest) ([]model.Lesson, error)
	InsertLesson(ctx context.Context, l model.Lesson) error
	ListExercises(ctx context.Context, r ListExercisesRequest) ([]model.Exercise, error)
	InsertExercise(ctx context.Context, e model.Exercise) error

	GetSubscription(ctx context.Context, userID string) (model.Subscription, error)
	PutSubscription(ctx context.Context, sub model.Subscription) error
	CancelSubscription(ctx context.Context, r CancelSubscriptionRequest) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ Store = (*MongoStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
