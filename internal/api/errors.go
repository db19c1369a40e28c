package api

import (
	"errors"
	"net/http"

	"github.com/tuesdayhq/tuesday-api/internal/api/shared"
	"github.com/tuesdayhq/tuesday-api/internal/domain"
	"github.com/tuesdayhq/tuesday-api/internal/service/auth"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrUnknownUser),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors (a task owned by someone else is deliberately
	// indistinguishable from a missing one)
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Store unavailable
	case store.IsUnavailable(err):
		return http.StatusServiceUnavailable

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrEndBeforeStart),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly detail string for
// the error. Internal error chains never reach the client.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "missing token"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "invalid token"
	case errors.Is(err, auth.ErrUnknownUser):
		return "user not found"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, store.ErrEmailExists):
		return "email already in use"
	case errors.Is(err, store.ErrNotFound):
		return "not found"
	case store.IsUnavailable(err):
		return "database unavailable"
	case errors.Is(err, domain.ErrInvalidEmail):
		return "invalid email format"
	case errors.Is(err, domain.ErrEndBeforeStart):
		return "end_at must be after start_at"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid task status"
	case errors.Is(err, domain.ErrInvalidPriority):
		return "invalid task priority"
	case errors.Is(err, domain.ErrEmptyName):
		return "name cannot be empty"
	case errors.Is(err, domain.ErrEmptyTitle):
		return "title cannot be empty"
	case errors.Is(err, domain.ErrValidation):
		return "invalid request"
	default:
		return "internal server error"
	}
}

// RespondWithMappedError translates an internal error into its HTTP status
// and safe detail string, then writes the standard error body.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
}
