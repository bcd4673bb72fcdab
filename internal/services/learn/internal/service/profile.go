package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/serr"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/store"
)

const HeartsRefillCost = 350

type profileStore interface {
	GetUser(ctx context.Context, r store.GetUserRequest) (model.User, error)
	RefillHearts(ctx context.Context, r store.RefillHeartsRequest) error
}

// ProfileService changes the spendable parts of a user profile
type ProfileService struct {
	store profileStore
}

func NewProfileService(store profileStore) *ProfileService {
	return &ProfileService{store: store}
}

// RefillHearts trades HeartsRefillCost gems for a full set of hearts and returns the
// updated user. It fails with a 400 when the user cannot afford it.
func (s *ProfileService) RefillHearts(ctx context.Context, u model.User) (model.User, error) {
	if u.Gems < HeartsRefillCost {
		return model.User{}, notEnoughGems(nil, u)
	}

	err := s.store.RefillHearts(ctx, store.RefillHeartsRequest{
		UserID: u.ID,
		Cost:   HeartsRefillCost,
		Hearts: model.DefaultHearts,
	})
	if err != nil {
		if errors.Is(err, store.ErrPrecondition) {
			return model.User{}, notEnoughGems(err, u)
		}

		return model.User{}, fmt.Errorf("refill hearts: %w", err)
	}

	updated, err := s.store.GetUser(ctx, store.GetUserRequest{ID: u.ID})
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return updated, nil
}

func notEnoughGems(err error, u model.User) *serr.ServiceError {
	se := serr.NewServiceError(err, http.StatusBadRequest, msgNotEnoughGems)
	se.Env["user_id"] = u.ID
	se.Env["gems"] = strconv.Itoa(u.Gems)
	return se
}
