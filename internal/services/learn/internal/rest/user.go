package rest

import (
	"net/http"
	"time"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/httpx"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
)

// userResponse is a user as clients see it; the password hash is never included.
type userResponse struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	NativeLanguage   string     `json:"native_language"`
	LearningLanguage string     `json:"learning_language"`
	TotalXP          int        `json:"total_xp"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastLessonDate   *time.Time `json:"last_lesson_date"`
	CreatedAt        time.Time  `json:"created_at"`
	Level            int        `json:"level"`
	Hearts           int        `json:"hearts"`
	Gems             int        `json:"gems"`
	Friends          []string   `json:"friends"`
	Achievements     []string   `json:"achievements"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		TotalXP:          u.TotalXP,
		CurrentStreak:    u.CurrentStreak,
		LongestStreak:    u.LongestStreak,
		LastLessonDate:   u.LastLessonDate,
		CreatedAt:        u.CreatedAt,
		Level:            u.Level,
		Hearts:           u.Hearts,
		Gems:             u.Gems,
		Friends:          nonNil(u.Friends),
		Achievements:     nonNil(u.Achievements),
	}
}

func (api *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	err := httpx.WriteJSON(w, http.StatusOK, newUserResponse(currentUser(r)))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleRefillHearts(w http.ResponseWriter, r *http.Request) {
	u, err := api.profile.RefillHearts(r.Context(), currentUser(r))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, newUserResponse(u))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
