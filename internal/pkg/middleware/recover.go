package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/httpx"
	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/router"
)

func Recover() router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					slog.Error("internal server error",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"remote_addr", r.RemoteAddr,
						"stack_trace", string(debug.Stack()),
					)

					_ = httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{Detail: "Internal Server Error"})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
