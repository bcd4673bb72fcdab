package service

import (
	"net/http"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/serr"
)

const (
	msgBadCredentials     = "Incorrect username or password"
	msgInvalidCredentials = "Could not validate credentials"
	msgAlreadyRegistered  = "Username or email already registered"
	msgNotEnoughGems      = "not enough gems"
	msgLessonNotFound     = "lesson not found"
	msgPlanNotFound       = "plan not found"
	msgFreePlan           = "the free plan needs no subscription"
	msgNoSubscription     = "no active subscription"
)

// unauthorized builds a 401 that asks the client for a bearer token.
func unauthorized(err error, msg string) *serr.ServiceError {
	se := serr.NewServiceError(err, http.StatusUnauthorized, "%s", msg)
	se.Header["WWW-Authenticate"] = "Bearer"
	return se
}
