package middleware

import (
	"net/http"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/router"
	"github.com/rs/cors"
)

// CORS allows browser clients from the given origins. "*" allows any origin.
func CORS(origins []string) router.Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler
}
