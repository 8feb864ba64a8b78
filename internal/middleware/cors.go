package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS applies the configured cross-origin policy. An empty origin list
// falls back to the wildcard, which suits same-host deployments and is
// overridden through CORS_ORIGINS everywhere else.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         3600,
	}).Handler
}
