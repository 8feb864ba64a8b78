package middleware

import (
	"net/http"
	"time"
)

// Timeout caps how long a handler may run. The canned body mirrors the API
// error envelope so a timed-out client can parse the failure like any other.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		d = 30 * time.Second
	}

	const body = `{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"la solicitud excedió el tiempo máximo"}}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, body)
	}
}
