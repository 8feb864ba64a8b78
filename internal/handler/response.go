package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sistema-tareas/internal/model"
	"sistema-tareas/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Message: message,
	})
}

// writeError translates service failures into the API error envelope. The
// business sentinels carry their own user-facing Spanish messages, so the
// response reuses err.Error() and only the unclassified rest collapses into
// a generic 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    apierror.CodeInternal,
		Message: "error interno inesperado",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if code, mappedStatus, ok := clasificarError(err); ok {
		status = mappedStatus
		body.Code = code
		body.Message = err.Error()
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

func clasificarError(err error) (string, int, bool) {
	switch {
	case errors.Is(err, model.ErrUsuarioNoEncontrado),
		errors.Is(err, model.ErrTareaNoEncontrada):
		return apierror.CodeNotFound, http.StatusNotFound, true

	case errors.Is(err, model.ErrUsuarioYaExiste),
		errors.Is(err, model.ErrTareaYaExiste),
		errors.Is(err, model.ErrPasswordYaEstablecido),
		errors.Is(err, model.ErrTareaYaFinalizada),
		errors.Is(err, model.ErrTareaNoFinalizada),
		errors.Is(err, model.ErrUsuarioYaAsignado),
		errors.Is(err, model.ErrUsuarioNoAsignado):
		return apierror.CodeConflict, http.StatusConflict, true

	case errors.Is(err, model.ErrEliminarAdmin),
		errors.Is(err, model.ErrResetearAdmin),
		errors.Is(err, model.ErrSoloAdmin):
		return apierror.CodeForbidden, http.StatusForbidden, true

	// A pending account keeps its own 401 code so clients can route the
	// user to the set-initial-password flow instead of showing "bad
	// credentials".
	case errors.Is(err, model.ErrSinPassword):
		return apierror.CodeSinPassword, http.StatusUnauthorized, true

	case errors.Is(err, model.ErrPasswordIncorrecto),
		errors.Is(err, model.ErrTokenExpirado),
		errors.Is(err, model.ErrTokenFirmaInvalida),
		errors.Is(err, model.ErrTokenTipoIncorrecto),
		errors.Is(err, model.ErrTokenEmisorInvalido),
		errors.Is(err, model.ErrTokenClaimFaltante):
		return apierror.CodeUnauthorized, http.StatusUnauthorized, true

	case errors.Is(err, model.ErrValidacion):
		return apierror.CodeValidation, http.StatusBadRequest, true
	}

	return "", 0, false
}
