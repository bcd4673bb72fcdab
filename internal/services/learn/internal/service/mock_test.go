package service

import (
	"context"

	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/store"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/token"
)

type mockStore struct {
	createUserFunc         func(ctx context.Context, u model.User) error
	getUserFunc            func(ctx context.Context, r store.GetUserRequest) (model.User, error)
	userExistsFunc         func(ctx context.Context, r store.UserExistsRequest) (bool, error)
	updateUserProgressFunc func(ctx context.Context, r store.UpdateUserProgressRequest) error
	refillHeartsFunc       func(ctx context.Context, r store.RefillHeartsRequest) error
	insertProgressFunc     func(ctx context.Context, p model.UserProgress) error
	listProgressFunc       func(ctx context.Context, r store.ListProgressRequest) ([]model.UserProgress, error)
	ensureLanguageFunc     func(ctx context.Context, l model.Language) (bool, error)
	listLanguagesFunc      func(ctx context.Context) ([]model.Language, error)
	getLessonFunc          func(ctx context.Context, id string) (model.Lesson, error)
	listLessonsFunc        func(ctx context.Context, r store.ListLessonsRequest) ([]model.Lesson, error)
	listExercisesFunc      func(ctx context.Context, r store.ListExercisesRequest) ([]model.Exercise, error)
	getSubscriptionFunc    func(ctx context.Context, userID string) (model.Subscription, error)
	putSubscriptionFunc    func(ctx context.Context, sub model.Subscription) error
	cancelSubscriptionFunc func(ctx context.Context, r store.CancelSubscriptionRequest) error
}

func (m *mockStore) CreateUser(ctx context.Context, u model.User) error {
	return m.createUserFunc(ctx, u)
}

func (m *mockStore) GetUser(ctx context.Context, r store.GetUserRequest) (model.User, error) {
	return m.getUserFunc(ctx, r)
}

func (m *mockStore) UserExists(ctx context.Context, r store.UserExistsRequest) (bool, error) {
	return m.userExistsFunc(ctx, r)
}

func (m *mockStore) UpdateUserProgress(ctx context.Context, r store.UpdateUserProgressRequest) error {
	return m.updateUserProgressFunc(ctx, r)
}

func (m *mockStore) RefillHearts(ctx context.Context, r store.RefillHeartsRequest) error {
	return m.refillHeartsFunc(ctx, r)
}

func (m *mockStore) InsertProgress(ctx context.Context, p model.UserProgress) error {
	return m.insertProgressFunc(ctx, p)
}

func (m *mockStore) ListProgress(ctx context.Context, r store.ListProgressRequest) ([]model.UserProgress, error) {
	return m.listProgressFunc(ctx, r)
}

func (m *mockStore) EnsureLanguage(ctx context.Context, l model.Language) (bool, error) {
	return m.ensureLanguageFunc(ctx, l)
}

func (m *mockStore) ListLanguages(ctx context.Context) ([]model.Language, error) {
	return m.listLanguagesFunc(ctx)
}

func (m *mockStore) GetLesson(ctx context.Context, id string) (model.Lesson, error) {
	return m.getLessonFunc(ctx, id)
}

func (m *mockStore) ListLessons(ctx context.Context, r store.ListLessonsRequest) ([]model.Lesson, error) {
	return m.listLessonsFunc(ctx, r)
}

func (m *mockStore) ListExercises(ctx context.Context, r store.ListExercisesRequest) ([]model.Exercise, error) {
	return m.listExercisesFunc(ctx, r)
}

func (m *mockStore) GetSubscription(ctx context.Context, userID string) (model.Subscription, error) {
	return m.getSubscriptionFunc(ctx, userID)
}

func (m *mockStore) PutSubscription(ctx context.Context, sub model.Subscription) error {
	return m.putSubscriptionFunc(ctx, sub)
}

func (m *mockStore) CancelSubscription(ctx context.Context, r store.CancelSubscriptionRequest) error {
	return m.cancelSubscriptionFunc(ctx, r)
}

type mockHasher struct {
	hashFunc   func(password string) (string, error)
	verifyFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	return m.hashFunc(password)
}

func (m *mockHasher) Verify(hash, password string) error {
	return m.verifyFunc(hash, password)
}

type mockTokenIssuer struct {
	issueFunc    func(subject string) (string, error)
	validateFunc func(raw string) (token.Claims, error)
}

func (m *mockTokenIssuer) Issue(subject string) (string, error) {
	return m.issueFunc(subject)
}

func (m *mockTokenIssuer) Validate(raw string) (token.Claims, error) {
	return m.validateFunc(raw)
}
