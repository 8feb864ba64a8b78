package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sistema-tareas/internal/middleware"
	"sistema-tareas/internal/model"
	"sistema-tareas/internal/service"
	"sistema-tareas/pkg/apierror"
)

type AuthHandler struct {
	gestor *service.GestorSistema
	tokens *service.TokenService
}

func NewAuthHandler(gestor *service.GestorSistema, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{gestor: gestor, tokens: tokens}
}

// Login authenticates and returns a fresh token pair. A pending account
// surfaces as 401 with code SIN_PASSWORD (via writeError), which tells the
// client to offer the set-initial-password flow.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	usuario, err := h.gestor.AutenticarUsuario(payload.Nombre, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.tokens.Pair(usuario)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, pair, nil)
}

func (h *AuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.EstablecerPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	if err := h.gestor.EstablecerPasswordInicial(payload.Nombre, payload.Password); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "contraseña establecida exitosamente")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("se requiere autenticación", ""))
		return
	}

	var payload model.CambiarPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	if err := h.gestor.CambiarPassword(claims.Nombre, payload.PasswordActual, payload.PasswordNueva); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "contraseña cambiada exitosamente")
}

// ResetPassword clears another user's password. The route is admin-gated;
// the gestor re-checks the actor against the stored collection anyway.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("se requiere autenticación", ""))
		return
	}

	var payload model.ResetearPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	if err := h.gestor.ResetearPasswordUsuario(claims.Nombre, payload.NombreUsuario); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "contraseña reseteada exitosamente")
}

// Refresh exchanges a valid refresh token for a brand-new pair. The subject
// must still exist; tokens of deleted users die here even before expiry.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	payload.RefreshToken = strings.TrimSpace(payload.RefreshToken)
	if payload.RefreshToken == "" {
		writeError(w, apierror.Validation("refresh_token es obligatorio", "refresh_token"))
		return
	}

	claims, err := h.tokens.Verify(payload.RefreshToken, model.TokenTypeRefresh)
	if err != nil {
		writeError(w, err)
		return
	}

	usuario, err := h.gestor.ObtenerUsuario(claims.Nombre)
	if err != nil {
		if errors.Is(err, model.ErrUsuarioNoEncontrado) {
			writeError(w, apierror.Unauthorized("el usuario del token ya no existe", ""))
			return
		}
		writeError(w, err)
		return
	}

	pair, err := h.tokens.Pair(usuario)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, pair, nil)
}

// Logout confirms the end of a session. Tokens are stateless and there is
// no denylist, so nothing is revoked server-side; the client discards its
// pair and the tokens die at expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("se requiere autenticación", ""))
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf("sesión de '%s' cerrada exitosamente", claims.Nombre))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("se requiere autenticación", ""))
		return
	}

	usuario, err := h.gestor.ObtenerUsuario(claims.Nombre)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, usuario.Publico(), nil)
}
