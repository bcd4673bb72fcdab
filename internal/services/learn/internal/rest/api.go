package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/middleware"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/service"
)

type authService interface {
	Register(ctx context.Context, r service.RegisterRequest) (service.Token, error)
	Login(ctx context.Context, r service.LoginRequest) (service.Token, error)
	Authenticate(ctx context.Context, raw string) (model.User, error)
}

type catalogService interface {
	Languages(ctx context.Context) ([]model.Language, error)
	Lessons(ctx context.Context, r service.LessonsRequest) ([]service.LessonStatus, error)
	Exercises(ctx context.Context, lessonID string) ([]model.Exercise, error)
}

type progressService interface {
	CompleteLesson(ctx context.Context, r service.CompleteLessonRequest) (service.CompleteLessonResponse, error)
}

type profileService interface {
	RefillHearts(ctx context.Context, u model.User) (model.User, error)
}

type subscriptionService interface {
	Plans() []model.Plan
	Current(ctx context.Context, u model.User) (service.CurrentSubscription, error)
	Subscribe(ctx context.Context, u model.User, planID string) (service.CurrentSubscription, error)
	Cancel(ctx context.Context, u model.User) error
}

// API serves the public HTTP interface. Paths are relative to the mount point.
type API struct {
	auth     authService
	catalog  catalogService
	progress progressService
	profile  profileService
	subs     subscriptionService
	validate *validator.Validate
	now      func() time.Time
	mux      http.ServeMux
}

func NewAPI(auth authService, catalog catalogService, progress progressService, profile profileService, subs subscriptionService) *API {
	api := &API{
		auth:     auth,
		catalog:  catalog,
		progress: progress,
		profile:  profile,
		subs:     subs,
		validate: newValidator(),
		now:      time.Now,
		mux:      *http.NewServeMux(),
	}

	api.mount()
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.mux.ServeHTTP(w, r)
}

func (api *API) mount() {
	api.mux.HandleFunc("GET /health", api.handleHealth)

	api.mux.HandleFunc("POST /auth/register", api.handleRegister)
	api.mux.HandleFunc("POST /auth/login", api.handleLogin)

	api.mux.Handle("GET /user/profile", api.protect(api.handleProfile))
	api.mux.Handle("POST /user/hearts/refill", api.protect(api.handleRefillHearts))

	api.mux.HandleFunc("GET /languages", api.handleLanguages)
	api.mux.Handle("GET /lessons/{language_id}", api.protect(api.handleLessons))
	api.mux.Handle("GET /lessons/{lesson_id}/exercises", api.protect(api.handleExercises))
	api.mux.Handle("POST /lessons/{lesson_id}/complete", api.protect(api.handleCompleteLesson))

	api.mux.HandleFunc("GET /subscription/plans", api.handlePlans)
	api.mux.Handle("GET /subscription/current", api.protect(api.handleCurrentSubscription))
	api.mux.Handle("POST /subscription/subscribe", api.protect(api.handleSubscribe))
	api.mux.Handle("POST /subscription/cancel", api.protect(api.handleCancelSubscription))
}

func (api *API) protect(h http.HandlerFunc) http.Handler {
	return middleware.Auth[model.User](api.auth)(h)
}

func currentUser(r *http.Request) model.User {
	u, _ := middleware.PrincipalFromContext[model.User](r.Context())
	return u
}
