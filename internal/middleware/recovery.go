package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"sistema-tareas/internal/model"
)

// Recovery turns a handler panic into a logged 500 instead of a dropped
// connection. The request line is logged next to the stack so the panic can
// be matched with its entry in the request log.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("panic recovered",
					"panic", fmt.Sprintf("%v", recovered),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = jsonEncode(w, model.APIResponse{
					Success: false,
					Error: &model.APIError{
						Code:    "INTERNAL_ERROR",
						Message: "error interno inesperado",
					},
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
