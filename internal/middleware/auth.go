package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"sistema-tareas/internal/model"
)

type tokenVerifier interface {
	Verify(tokenString string, expectedType string) (model.TokenClaims, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid Bearer access token and puts
// the verified claims into the request context. The client always gets the
// same generic 401; the concrete cause only shows up in the debug log.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeDenied(w, "UNAUTHORIZED", "falta el encabezado de autorización")
			return
		}

		token := strings.TrimSpace(header[7:])
		claims, err := m.verifier.Verify(token, model.TokenTypeAccess)
		if err != nil {
			slog.Debug("token de acceso rechazado", "path", r.URL.Path, "cause", err)
			writeDenied(w, "UNAUTHORIZED", "token inválido o expirado")
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin composes after RequireAuth: without claims in context it
// answers 401, with a non-admin role 403.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeDenied(w, "UNAUTHORIZED", "se requiere autenticación")
			return
		}

		if claims.Rol != model.RolAdmin {
			writeDenied(w, "FORBIDDEN", "se requieren privilegios de administrador")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ClaimsFromContext(ctx context.Context) (model.TokenClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(model.TokenClaims)
	return claims, ok
}

func writeDenied(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code == "FORBIDDEN" {
		w.WriteHeader(http.StatusForbidden)
	} else {
		w.WriteHeader(http.StatusUnauthorized)
	}

	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
