package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/httpx"
	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/router"
	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/serr"
)

// Authenticator resolves a raw bearer token into the principal it identifies.
type Authenticator[P any] interface {
	Authenticate(ctx context.Context, token string) (P, error)
}

type ctxKey struct{}

var principalKey ctxKey

var errMissingToken = errors.New("missing bearer token")

// Auth rejects requests without a valid "Authorization: Bearer <token>" header and
// stores the authenticated principal in the request context.
func Auth[P any](a Authenticator[P]) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				httpx.HandleErr(w, r, unauthorized(errMissingToken))
				return
			}

			p, err := a.Authenticate(r.Context(), raw)
			if err != nil {
				httpx.HandleErr(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// PrincipalFromContext returns the principal stored by Auth.
func PrincipalFromContext[P any](ctx context.Context) (P, bool) {
	p, ok := ctx.Value(principalKey).(P)
	return p, ok
}

func unauthorized(err error) *serr.ServiceError {
	se := serr.NewServiceError(err, http.StatusUnauthorized, "Not authenticated")
	se.Header["WWW-Authenticate"] = "Bearer"
	return se
}
