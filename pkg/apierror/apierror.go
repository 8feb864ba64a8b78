package apierror

import (
	"fmt"
	"net/http"
)

// Error codes shared by every front-end. They follow the business failure
// taxonomy: lookups that miss, name collisions and invalid state changes,
// role violations, credential/token rejections and input validation.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeForbidden    = "FORBIDDEN"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeSinPassword  = "SIN_PASSWORD"
	CodeValidation   = "VALIDATION"
	CodeInternal     = "INTERNAL_ERROR"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

func NotFound(message string, details string) *APIError {
	return New(CodeNotFound, message, details, http.StatusNotFound)
}

func Conflict(message string, details string) *APIError {
	return New(CodeConflict, message, details, http.StatusConflict)
}

func Forbidden(message string, details string) *APIError {
	return New(CodeForbidden, message, details, http.StatusForbidden)
}

func Unauthorized(message string, details string) *APIError {
	return New(CodeUnauthorized, message, details, http.StatusUnauthorized)
}

func Validation(message string, details string) *APIError {
	return New(CodeValidation, message, details, http.StatusBadRequest)
}

func Internal(message string, details string) *APIError {
	return New(CodeInternal, message, details, http.StatusInternalServerError)
}
