package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tuesdayhq/tuesday-api/internal/domain"
	"github.com/tuesdayhq/tuesday-api/internal/service/auth"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrMissingToken, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrExpiredToken, http.StatusUnauthorized},
		{auth.ErrUnknownUser, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{store.ErrTaskNotFound, http.StatusNotFound},
		{store.ErrUserNotFound, http.StatusNotFound},
		{store.ErrEmailExists, http.StatusConflict},
		{store.ErrUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: cause", store.ErrUnavailable), http.StatusServiceUnavailable},
		{domain.ErrInvalidEmail, http.StatusBadRequest},
		{domain.ErrEmptyName, http.StatusBadRequest},
		{domain.ErrEmptyTitle, http.StatusBadRequest},
		{domain.ErrEndBeforeStart, http.StatusBadRequest},
		{domain.ErrInvalidStatus, http.StatusBadRequest},
		{domain.ErrInvalidPriority, http.StatusBadRequest},
		{domain.ErrInvalidID, http.StatusBadRequest},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err), "error: %v", tt.err)
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{auth.ErrMissingToken, "missing token"},
		{auth.ErrInvalidToken, "invalid token"},
		{auth.ErrExpiredToken, "invalid token"},
		{auth.ErrUnknownUser, "user not found"},
		{auth.ErrInvalidCredentials, "invalid credentials"},
		{store.ErrEmailExists, "email already in use"},
		{store.ErrTaskNotFound, "not found"},
		{store.ErrUnavailable, "database unavailable"},
		{domain.ErrInvalidEmail, "invalid email format"},
		{domain.ErrEndBeforeStart, "end_at must be after start_at"},
		{errors.New("internal details: password=hunter2"), "internal server error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err), "error: %v", tt.err)
	}
}

func TestSafeMessagesNeverLeakInternals(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("%w: dial tcp 10.0.0.5:5432 refused", store.ErrUnavailable)
	msg := GetSafeErrorMessage(wrapped)
	assert.NotContains(t, msg, "10.0.0.5")
	assert.Equal(t, "database unavailable", msg)
}
