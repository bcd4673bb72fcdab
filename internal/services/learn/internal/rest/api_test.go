package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/httpx"
	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/serr"
	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/testutil"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/service"
)

type mockAuthService struct {
	registerFunc     func(ctx context.Context, r service.RegisterRequest) (service.Token, error)
	loginFunc        func(ctx context.Context, r service.LoginRequest) (service.Token, error)
	authenticateFunc func(ctx context.Context, raw string) (model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, r service.RegisterRequest) (service.Token, error) {
	return m.registerFunc(ctx, r)
}

func (m *mockAuthService) Login(ctx context.Context, r service.LoginRequest) (service.Token, error) {
	return m.loginFunc(ctx, r)
}

func (m *mockAuthService) Authenticate(ctx context.Context, raw string) (model.User, error) {
	return m.authenticateFunc(ctx, raw)
}

type mockCatalogService struct {
	languagesFunc func(ctx context.Context) ([]model.Language, error)
	lessonsFunc   func(ctx context.Context, r service.LessonsRequest) ([]service.LessonStatus, error)
	exercisesFunc func(ctx context.Context, lessonID string) ([]model.Exercise, error)
}

func (m *mockCatalogService) Languages(ctx context.Context) ([]model.Language, error) {
	return m.languagesFunc(ctx)
}

func (m *mockCatalogService) Lessons(ctx context.Context, r service.LessonsRequest) ([]service.LessonStatus, error) {
	return m.lessonsFunc(ctx, r)
}

func (m *mockCatalogService) Exercises(ctx context.Context, lessonID string) ([]model.Exercise, error) {
	return m.exercisesFunc(ctx, lessonID)
}

type mockProgressService struct {
	completeLessonFunc func(ctx context.Context, r service.CompleteLessonRequest) (service.CompleteLessonResponse, error)
}

func (m *mockProgressService) CompleteLesson(ctx context.Context, r service.CompleteLessonRequest) (service.CompleteLessonResponse, error) {
	return m.completeLessonFunc(ctx, r)
}

type mockProfileService struct {
	refillHeartsFunc func(ctx context.Context, u model.User) (model.User, error)
}

func (m *mockProfileService) RefillHearts(ctx context.Context, u model.User) (model.User, error) {
	return m.refillHeartsFunc(ctx, u)
}

type mockSubscriptionService struct {
	plansFunc     func() []model.Plan
	currentFunc   func(ctx context.Context, u model.User) (service.CurrentSubscription, error)
	subscribeFunc func(ctx context.Context, u model.User, planID string) (service.CurrentSubscription, error)
	cancelFunc    func(ctx context.Context, u model.User) error
}

func (m *mockSubscriptionService) Plans() []model.Plan {
	return m.plansFunc()
}

func (m *mockSubscriptionService) Current(ctx context.Context, u model.User) (service.CurrentSubscription, error) {
	return m.currentFunc(ctx, u)
}

func (m *mockSubscriptionService) Subscribe(ctx context.Context, u model.User, planID string) (service.CurrentSubscription, error) {
	return m.subscribeFunc(ctx, u, planID)
}

func (m *mockSubscriptionService) Cancel(ctx context.Context, u model.User) error {
	return m.cancelFunc(ctx, u)
}

var asha = model.User{
	ID:               "u1",
	Username:         "asha",
	Email:            "asha@example.com",
	PasswordHash:     "secret-hash",
	NativeLanguage:   "en",
	LearningLanguage: "hi",
	CreatedAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	Level:            1,
	Hearts:           5,
}

func tokenAuth() *mockAuthService {
	return &mockAuthService{
		authenticateFunc: func(ctx context.Context, raw string) (model.User, error) {
			if raw != "good" {
				se := serr.NewServiceError(nil, http.StatusUnauthorized, "Could not validate credentials")
				se.Header["WWW-Authenticate"] = "Bearer"
				return model.User{}, se
			}
			return asha, nil
		},
	}
}

type apiDeps struct {
	auth     *mockAuthService
	catalog  *mockCatalogService
	progress *mockProgressService
	profile  *mockProfileService
	subs     *mockSubscriptionService
}

func newTestAPI(d apiDeps) *API {
	if d.auth == nil {
		d.auth = tokenAuth()
	}
	if d.catalog == nil {
		d.catalog = &mockCatalogService{}
	}
	if d.progress == nil {
		d.progress = &mockProgressService{}
	}
	if d.profile == nil {
		d.profile = &mockProfileService{}
	}
	if d.subs == nil {
		d.subs = &mockSubscriptionService{}
	}

	return NewAPI(d.auth, d.catalog, d.progress, d.profile, d.subs)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(apiDeps{})
	api.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	rec := testutil.SendRequest(t, api, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[map[string]string](t, rec)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "2024-05-01T12:00:00Z", resp["timestamp"])
}

func TestRegister(t *testing.T) {
	var got service.RegisterRequest
	api := newTestAPI(apiDeps{
		auth: &mockAuthService{
			registerFunc: func(ctx context.Context, r service.RegisterRequest) (service.Token, error) {
				got = r
				return service.Token{AccessToken: "tok", TokenType: "bearer"}, nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodPost, "/auth/register", map[string]string{
		"username":          "asha",
		"email":             "asha@example.com",
		"password":          "secret",
		"native_language":   "en",
		"learning_language": "hi",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[tokenResponse](t, rec)
	assert.Equal(t, tokenResponse{AccessToken: "tok", TokenType: "bearer"}, resp)
	assert.Equal(t, service.RegisterRequest{
		Username:         "asha",
		Email:            "asha@example.com",
		Password:         "secret",
		NativeLanguage:   "en",
		LearningLanguage: "hi",
	}, got)
}

func TestRegister_Invalid(t *testing.T) {
	valid := map[string]string{
		"username":          "asha",
		"email":             "asha@example.com",
		"password":          "secret",
		"native_language":   "en",
		"learning_language": "hi",
	}
	with := func(key, val string) map[string]string {
		out := map[string]string{}
		for k, v := range valid {
			out[k] = v
		}
		out[key] = val
		return out
	}

	tests := []struct {
		name   string
		body   any
		detail string
	}{
		{"not json", "just a string", "invalid request body"},
		{"missing username", with("username", ""), "username is required"},
		{"bad email", with("email", "not-an-email"), "email is not a valid email address"},
		{"missing learning language", with("learning_language", ""), "learning_language is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(apiDeps{
				auth: &mockAuthService{
					registerFunc: func(ctx context.Context, r service.RegisterRequest) (service.Token, error) {
						t.Fatal("register must not be called")
						return service.Token{}, nil
					},
				},
			})

			rec := testutil.SendRequest(t, api, http.MethodPost, "/auth/register", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, tt.detail, testutil.ParseResponse[httpx.ErrorResponse](t, rec).Detail)
		})
	}
}

func TestRegister_Conflict(t *testing.T) {
	api := newTestAPI(apiDeps{
		auth: &mockAuthService{
			registerFunc: func(ctx context.Context, r service.RegisterRequest) (service.Token, error) {
				return service.Token{}, serr.NewServiceError(nil, http.StatusBadRequest, "Username or email already registered")
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodPost, "/auth/register", map[string]string{
		"username":          "asha",
		"email":             "asha@example.com",
		"password":          "secret",
		"native_language":   "en",
		"learning_language": "hi",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username or email already registered", testutil.ParseResponse[httpx.ErrorResponse](t, rec).Detail)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(apiDeps{
		auth: &mockAuthService{
			loginFunc: func(ctx context.Context, r service.LoginRequest) (service.Token, error) {
				if r.Username == "asha" && r.Password == "secret" {
					return service.Token{AccessToken: "tok", TokenType: "bearer"}, nil
				}
				se := serr.NewServiceError(nil, http.StatusUnauthorized, "Incorrect username or password")
				se.Header["WWW-Authenticate"] = "Bearer"
				return service.Token{}, se
			},
		},
	})

	rec := testutil.SendForm(t, api, http.MethodPost, "/auth/login", url.Values{
		"username": {"asha"},
		"password": {"secret"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", testutil.ParseResponse[tokenResponse](t, rec).AccessToken)

	rec = testutil.SendForm(t, api, http.MethodPost, "/auth/login", url.Values{
		"username": {"asha"},
		"password": {"wrong"},
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Incorrect username or password", testutil.ParseResponse[httpx.ErrorResponse](t, rec).Detail)
}

func TestLogin_MissingField(t *testing.T) {
	api := newTestAPI(apiDeps{})

	rec := testutil.SendForm(t, api, http.MethodPost, "/auth/login", url.Values{"username": {"asha"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "password is required", testutil.ParseResponse[httpx.ErrorResponse](t, rec).Detail)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	api := newTestAPI(apiDeps{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/user/profile"},
		{http.MethodPost, "/user/hearts/refill"},
		{http.MethodGet, "/lessons/hi"},
		{http.MethodGet, "/lessons/l1/exercises"},
		{http.MethodPost, "/lessons/l1/complete?score=10"},
		{http.MethodGet, "/subscription/current"},
		{http.MethodPost, "/subscription/subscribe?plan_id=plus"},
		{http.MethodPost, "/subscription/cancel"},
	}

	for _, rt := range routes {
		rec := testutil.SendRequest(t, api, rt.method, rt.path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, rt.path)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"), rt.path)

		rec = testutil.SendRequest(t, api, rt.method, rt.path, nil, testutil.WithBearer("bad"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, rt.path)
		assert.Equal(t, "Could not validate credentials", testutil.ParseResponse[httpx.ErrorResponse](t, rec).Detail, rt.path)
	}
}

func TestProfile(t *testing.T) {
	api := newTestAPI(apiDeps{})

	rec := testutil.SendRequest(t, api, http.MethodGet, "/user/profile", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[map[string]any](t, rec)
	assert.Equal(t, "asha", resp["username"])
	assert.Equal(t, "hi", resp["learning_language"])
	assert.Equal(t, float64(5), resp["hearts"])
	assert.Nil(t, resp["last_lesson_date"])
	assert.Equal(t, []any{}, resp["friends"])
	assert.NotContains(t, resp, "password")
	assert.NotContains(t, resp, "password_hash")
}

func TestRefillHearts(t *testing.T) {
	api := newTestAPI(apiDeps{
		profile: &mockProfileService{
			refillHeartsFunc: func(ctx context.Context, u model.User) (model.User, error) {
				assert.Equal(t, "u1", u.ID)
				u.Hearts = 5
				u.Gems = 50
				return u, nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodPost, "/user/hearts/refill", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[userResponse](t, rec)
	assert.Equal(t, 50, resp.Gems)
	assert.Equal(t, 5, resp.Hearts)
}

func TestLanguages(t *testing.T) {
	api := newTestAPI(apiDeps{
		catalog: &mockCatalogService{
			languagesFunc: func(ctx context.Context) ([]model.Language, error) {
				return []model.Language{
					{ID: "l1", Name: "Hindi", Code: "hi", NativeName: "हिन्दी", Flag: "🇮🇳", DifficultyLevel: "beginner"},
				}, nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodGet, "/languages", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[[]languageResponse](t, rec)
	require.Len(t, resp, 1)
	assert.Equal(t, languageResponse{
		ID:              "l1",
		Name:            "Hindi",
		Code:            "hi",
		NativeName:      "हिन्दी",
		Flag:            "🇮🇳",
		DifficultyLevel: "beginner",
	}, resp[0])
}

func TestLanguages_Failure(t *testing.T) {
	api := newTestAPI(apiDeps{
		catalog: &mockCatalogService{
			languagesFunc: func(ctx context.Context) ([]model.Language, error) {
				return nil, errors.New("db down")
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodGet, "/languages", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", testutil.ParseResponse[httpx.ErrorResponse](t, rec).Detail)
}

func TestLessons(t *testing.T) {
	api := newTestAPI(apiDeps{
		catalog: &mockCatalogService{
			lessonsFunc: func(ctx context.Context, r service.LessonsRequest) ([]service.LessonStatus, error) {
				assert.Equal(t, "u1", r.UserID)
				if r.LanguageID != "hi" {
					return nil, nil
				}
				reward := 15
				return []service.LessonStatus{
					{Lesson: model.Lesson{ID: "l1", LanguageID: "hi", Type: model.Reading, XPReward: &reward, IsLocked: true}, Completed: true},
				}, nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodGet, "/lessons/hi", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[[]lessonResponse](t, rec)
	require.Len(t, resp, 1)
	assert.Equal(t, "reading", resp[0].Type)
	require.NotNil(t, resp[0].XPReward)
	assert.Equal(t, 15, *resp[0].XPReward)
	assert.True(t, resp[0].IsLocked)
	assert.True(t, resp[0].Completed)
	assert.Equal(t, []string{}, resp[0].Exercises)

	rec = testutil.SendRequest(t, api, http.MethodGet, "/lessons/xx", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestLessons_XPReward(t *testing.T) {
	zero := 0
	api := newTestAPI(apiDeps{
		catalog: &mockCatalogService{
			lessonsFunc: func(ctx context.Context, r service.LessonsRequest) ([]service.LessonStatus, error) {
				return []service.LessonStatus{
					{Lesson: model.Lesson{ID: "zero", XPReward: &zero}},
					{Lesson: model.Lesson{ID: "unset"}},
				}, nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodGet, "/lessons/hi", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[[]map[string]any](t, rec)
	require.Len(t, resp, 2)
	assert.Equal(t, float64(0), resp[0]["xp_reward"])
	assert.NotContains(t, resp[1], "xp_reward")
	assert.Equal(t, false, resp[1]["completed"])
}

func TestExercises(t *testing.T) {
	api := newTestAPI(apiDeps{
		catalog: &mockCatalogService{
			exercisesFunc: func(ctx context.Context, lessonID string) ([]model.Exercise, error) {
				if lessonID != "l1" {
					return nil, serr.NewServiceError(nil, http.StatusNotFound, "lesson not found")
				}
				return []model.Exercise{{ID: "e1", LessonID: "l1", Type: model.MultipleChoice, Options: []string{"a", "b"}}}, nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodGet, "/lessons/l1/exercises", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[[]exerciseResponse](t, rec)
	require.Len(t, resp, 1)
	assert.Equal(t, "multiple_choice", resp[0].Type)
	assert.Equal(t, []string{"a", "b"}, resp[0].Options)

	rec = testutil.SendRequest(t, api, http.MethodGet, "/lessons/nope/exercises", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteLesson(t *testing.T) {
	var got service.CompleteLessonRequest
	api := newTestAPI(apiDeps{
		progress: &mockProgressService{
			completeLessonFunc: func(ctx context.Context, r service.CompleteLessonRequest) (service.CompleteLessonResponse, error) {
				got = r
				return service.CompleteLessonResponse{XPGained: 20}, nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodPost, "/lessons/l1/complete?score=85", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[completeLessonResponse](t, rec)
	assert.Equal(t, completeLessonResponse{Message: "Lesson completed successfully", XPGained: 20}, resp)
	assert.Equal(t, "u1", got.User.ID)
	assert.Equal(t, "l1", got.LessonID)
	assert.Equal(t, 85, got.Score)
}

func TestCompleteLesson_BadScore(t *testing.T) {
	api := newTestAPI(apiDeps{
		progress: &mockProgressService{
			completeLessonFunc: func(ctx context.Context, r service.CompleteLessonRequest) (service.CompleteLessonResponse, error) {
				t.Fatal("completion must not be recorded")
				return service.CompleteLessonResponse{}, nil
			},
		},
	})

	tests := []struct {
		path   string
		detail string
	}{
		{"/lessons/l1/complete", "score is required"},
		{"/lessons/l1/complete?score=ninety", "score must be an integer"},
		{"/lessons/l1/complete?score=1.5", "score must be an integer"},
	}

	for _, tt := range tests {
		rec := testutil.SendRequest(t, api, http.MethodPost, tt.path, nil, testutil.WithBearer("good"))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, tt.path)
		assert.Equal(t, tt.detail, testutil.ParseResponse[httpx.ErrorResponse](t, rec).Detail, tt.path)
	}
}

func TestPlans(t *testing.T) {
	api := newTestAPI(apiDeps{
		subs: &mockSubscriptionService{
			plansFunc: func() []model.Plan {
				return service.Plans
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodGet, "/subscription/plans", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[[]map[string]any](t, rec)
	require.Len(t, resp, 3)
	assert.Equal(t, "free", resp[0]["id"])
	assert.Equal(t, "Free", resp[0]["name"])
	assert.Equal(t, float64(0), resp[0]["price"])
	assert.Equal(t, float64(5), resp[0]["max_hearts"])
	assert.Equal(t, false, resp[0]["unlimited_hearts"])
	assert.Equal(t, "IndianDuo Plus", resp[1]["name"])
	assert.Equal(t, true, resp[1]["unlimited_hearts"])
	assert.Equal(t, true, resp[1]["ads_free"])
	assert.Equal(t, true, resp[1]["offline_lessons"])
	assert.Equal(t, true, resp[1]["priority_support"])
	assert.NotEmpty(t, resp[1]["features"])
	assert.Equal(t, "Family Plan", resp[2]["name"])
}

func TestCurrentSubscription_Free(t *testing.T) {
	api := newTestAPI(apiDeps{
		subs: &mockSubscriptionService{
			currentFunc: func(ctx context.Context, u model.User) (service.CurrentSubscription, error) {
				assert.Equal(t, "u1", u.ID)
				return service.CurrentSubscription{Status: "free", Plan: service.Plans[0]}, nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodGet, "/subscription/current", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[map[string]any](t, rec)
	assert.Equal(t, "free", resp["status"])
	assert.Nil(t, resp["subscription"])
	assert.Equal(t, "Free", resp["plan"].(map[string]any)["name"])
}

func TestSubscribe(t *testing.T) {
	expires := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	var planID string
	api := newTestAPI(apiDeps{
		subs: &mockSubscriptionService{
			subscribeFunc: func(ctx context.Context, u model.User, id string) (service.CurrentSubscription, error) {
				planID = id
				return service.CurrentSubscription{
					Status: "premium",
					Plan:   service.Plans[1],
					Subscription: &model.Subscription{
						ID:        "s1",
						UserID:    u.ID,
						PlanID:    id,
						StartedAt: expires.AddDate(0, 0, -30),
						ExpiresAt: expires,
					},
				}, nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodPost, "/subscription/subscribe?plan_id=plus", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "plus", planID)

	resp := testutil.ParseResponse[currentSubscriptionResponse](t, rec)
	assert.Equal(t, "premium", resp.Status)
	assert.Equal(t, "IndianDuo Plus", resp.Plan.Name)
	require.NotNil(t, resp.Subscription)
	assert.True(t, expires.Equal(resp.Subscription.ExpiresAt))
	assert.True(t, resp.Subscription.AutoRenew)
}

func TestSubscribe_Errors(t *testing.T) {
	api := newTestAPI(apiDeps{
		subs: &mockSubscriptionService{
			subscribeFunc: func(ctx context.Context, u model.User, id string) (service.CurrentSubscription, error) {
				return service.CurrentSubscription{}, serr.NewServiceError(nil, http.StatusNotFound, "plan not found")
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodPost, "/subscription/subscribe", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "plan_id is required", testutil.ParseResponse[httpx.ErrorResponse](t, rec).Detail)

	rec = testutil.SendRequest(t, api, http.MethodPost, "/subscription/subscribe?plan_id=gold", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "plan not found", testutil.ParseResponse[httpx.ErrorResponse](t, rec).Detail)
}

func TestCancelSubscription(t *testing.T) {
	calls := 0
	api := newTestAPI(apiDeps{
		subs: &mockSubscriptionService{
			cancelFunc: func(ctx context.Context, u model.User) error {
				calls++
				if calls > 1 {
					return serr.NewServiceError(nil, http.StatusNotFound, "no active subscription")
				}
				return nil
			},
		},
	})

	rec := testutil.SendRequest(t, api, http.MethodPost, "/subscription/cancel", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Subscription cancelled", testutil.ParseResponse[messageResponse](t, rec).Message)

	rec = testutil.SendRequest(t, api, http.MethodPost, "/subscription/cancel", nil, testutil.WithBearer("good"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
