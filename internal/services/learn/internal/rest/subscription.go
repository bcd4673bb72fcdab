package rest

import (
	"net/http"
	"time"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/httpx"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/service"
)

type planResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	Features        []string `json:"features"`
	UnlimitedHearts bool     `json:"unlimited_hearts"`
	MaxHearts       int      `json:"max_hearts"`
	AdsFree         bool     `json:"ads_free"`
	OfflineLessons  bool     `json:"offline_lessons"`
	PrioritySupport bool     `json:"priority_support"`
}

type subscriptionResponse struct {
	ID          string     `json:"id"`
	PlanID      string     `json:"plan_id"`
	StartedAt   time.Time  `json:"started_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	AutoRenew   bool       `json:"auto_renew"`
}

type currentSubscriptionResponse struct {
	Status       string                `json:"status"`
	Plan         planResponse          `json:"plan"`
	Subscription *subscriptionResponse `json:"subscription"`
}

type subscribeRequest struct {
	PlanID string `form:"plan_id" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func newPlanResponse(p model.Plan) planResponse {
	return planResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		Features:        nonNil(p.Features),
		UnlimitedHearts: p.UnlimitedHearts,
		MaxHearts:       p.MaxHearts,
		AdsFree:         p.AdsFree,
		OfflineLessons:  p.OfflineLessons,
		PrioritySupport: p.PrioritySupport,
	}
}

func newCurrentSubscriptionResponse(cur service.CurrentSubscription) currentSubscriptionResponse {
	resp := currentSubscriptionResponse{
		Status: cur.Status,
		Plan:   newPlanResponse(cur.Plan),
	}
	if sub := cur.Subscription; sub != nil {
		resp.Subscription = &subscriptionResponse{
			ID:          sub.ID,
			PlanID:      sub.PlanID,
			StartedAt:   sub.StartedAt,
			ExpiresAt:   sub.ExpiresAt,
			CancelledAt: sub.CancelledAt,
			AutoRenew:   sub.CancelledAt == nil,
		}
	}

	return resp
}

func (api *API) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans := api.subs.Plans()

	resp := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, newPlanResponse(p))
	}

	err := httpx.WriteJSON(w, http.StatusOK, resp)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleCurrentSubscription(w http.ResponseWriter, r *http.Request) {
	cur, err := api.subs.Current(r.Context(), currentUser(r))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, newCurrentSubscriptionResponse(cur))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	req := subscribeRequest{PlanID: r.URL.Query().Get("plan_id")}
	if err := api.check(req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	cur, err := api.subs.Subscribe(r.Context(), currentUser(r), req.PlanID)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, newCurrentSubscriptionResponse(cur))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	if err := api.subs.Cancel(r.Context(), currentUser(r)); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err := httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Subscription cancelled"})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}
