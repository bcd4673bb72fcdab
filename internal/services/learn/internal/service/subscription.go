package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/serr"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/store"
)

// SubscriptionPeriod is how long one payment keeps a plan active.
const SubscriptionPeriod = 30 * 24 * time.Hour

const (
	FreePlanID   = "free"
	PlusPlanID   = "plus"
	FamilyPlanID = "family"

	StatusFree    = "free"
	StatusPremium = "premium"
	StatusFamily  = "family"
)

// Plans is the fixed plan catalog, cheapest first.
var Plans = []model.Plan{
	{
		ID:     FreePlanID,
		Name:   "Free",
		Status: StatusFree,
		Price:  0,
		Features: []string{
			"Access to all languages",
			"5 hearts per day",
			"Daily streaks and XP",
		},
		MaxHearts: model.DefaultHearts,
	},
	{
		ID:     PlusPlanID,
		Name:   "IndianDuo Plus",
		Status: StatusPremium,
		Price:  9.99,
		Features: []string{
			"Unlimited hearts",
			"No ads",
			"Offline lessons",
			"Priority support",
		},
		UnlimitedHearts: true,
		AdsFree:         true,
		OfflineLessons:  true,
		PrioritySupport: true,
	},
	{
		ID:     FamilyPlanID,
		Name:   "Family Plan",
		Status: StatusFamily,
		Price:  14.99,
		Features: []string{
			"Everything in IndianDuo Plus",
			"Up to 6 family members",
			"Separate profiles and progress",
		},
		UnlimitedHearts: true,
		AdsFree:         true,
		OfflineLessons:  true,
		PrioritySupport: true,
	},
}

type subscriptionStore interface {
	GetSubscription(ctx context.Context, userID string) (model.Subscription, error)
	PutSubscription(ctx context.Context, sub model.Subscription) error
	CancelSubscription(ctx context.Context, r store.CancelSubscriptionRequest) error
}

// SubscriptionService manages the paid plan of a user. Payment is out of scope;
// subscribing activates the plan for one SubscriptionPeriod.
type SubscriptionService struct {
	store subscriptionStore
	now   func() time.Time
}

func NewSubscriptionService(store subscriptionStore, now func() time.Time) *SubscriptionService {
	if now == nil {
		now = time.Now
	}

	return &SubscriptionService{store: store, now: now}
}

// CurrentSubscription is the plan a user holds right now. Subscription is nil on
// the free plan.
type CurrentSubscription struct {
	Status       string
	Plan         model.Plan
	Subscription *model.Subscription
}

func (s *SubscriptionService) Plans() []model.Plan {
	return Plans
}

func (s *SubscriptionService) Current(ctx context.Context, u model.User) (CurrentSubscription, error) {
	sub, err := s.store.GetSubscription(ctx, u.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return freeSubscription(), nil
		}

		return CurrentSubscription{}, fmt.Errorf("get subscription: %w", err)
	}

	plan, ok := findPlan(sub.PlanID)
	if !ok || !sub.ActiveAt(s.now().UTC()) {
		return freeSubscription(), nil
	}

	return CurrentSubscription{Status: plan.Status, Plan: plan, Subscription: &sub}, nil
}

// Subscribe starts a paid plan for the user, replacing whatever plan they held.
func (s *SubscriptionService) Subscribe(ctx context.Context, u model.User, planID string) (CurrentSubscription, error) {
	plan, ok := findPlan(planID)
	if !ok {
		se := serr.NewServiceError(nil, http.StatusNotFound, msgPlanNotFound)
		se.Env["plan_id"] = planID
		return CurrentSubscription{}, se
	}
	if plan.Price == 0 {
		se := serr.NewServiceError(nil, http.StatusBadRequest, msgFreePlan)
		se.Env["plan_id"] = planID
		return CurrentSubscription{}, se
	}

	now := s.now().UTC()
	sub := model.Subscription{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		PlanID:    plan.ID,
		StartedAt: now,
		ExpiresAt: now.Add(SubscriptionPeriod),
	}
	if err := s.store.PutSubscription(ctx, sub); err != nil {
		return CurrentSubscription{}, fmt.Errorf("put subscription: %w", err)
	}

	slog.Info("subscription started", "user_id", u.ID, "plan_id", plan.ID, "expires_at", sub.ExpiresAt)
	return CurrentSubscription{Status: plan.Status, Plan: plan, Subscription: &sub}, nil
}

// Cancel stops renewal of the user's subscription. The plan stays active until it expires.
func (s *SubscriptionService) Cancel(ctx context.Context, u model.User) error {
	err := s.store.CancelSubscription(ctx, store.CancelSubscriptionRequest{
		UserID: u.ID,
		At:     s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			se := serr.NewServiceError(err, http.StatusNotFound, msgNoSubscription)
			se.Env["user_id"] = u.ID
			return se
		}

		return fmt.Errorf("cancel subscription: %w", err)
	}

	slog.Info("subscription cancelled", "user_id", u.ID)
	return nil
}

func freeSubscription() CurrentSubscription {
	plan, _ := findPlan(FreePlanID)
	return CurrentSubscription{Status: StatusFree, Plan: plan}
}

func findPlan(id string) (model.Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}

	return model.Plan{}, false
}
