package middleware

import (
	"encoding/json"
	"net/http"
)

// jsonEncode writes v as JSON. Middlewares answer before the handler layer
// exists, so they carry their own tiny encoder instead of importing it.
func jsonEncode(w http.ResponseWriter, v any) error {
	return json.NewEncoder(w).Encode(v)
}
