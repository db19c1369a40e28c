package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tuesdayhq/tuesday-api/internal/api/shared"
	"github.com/tuesdayhq/tuesday-api/internal/domain"
	"github.com/tuesdayhq/tuesday-api/internal/platform/logger"
	"github.com/tuesdayhq/tuesday-api/internal/service/auth"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// AuthMiddleware resolves the bearer token of an inbound request to the
// owning user record. Token claims alone are not trusted for existence: the
// subject is re-fetched from the store, so a deleted account is rejected
// even with a structurally valid token.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate validates the bearer token from the Authorization header,
// loads the owning user, and stores it in the request context. The three
// failure kinds (missing token, invalid/expired token, unknown user) all map
// to 401 but are logged distinctly for diagnostics; a store outage during
// the user lookup maps to 503.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		token, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			log.Debug("authentication failed: missing bearer token")
			shared.RespondWithError(w, r, http.StatusUnauthorized, "missing token")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			log.Debug("authentication failed: token rejected",
				"error", err.Error())
			shared.RespondWithError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				// Structurally valid token for an account that no longer
				// exists; auth.ErrUnknownUser internally, still a plain 401.
				log.Debug("authentication failed: unknown user",
					"error", auth.ErrUnknownUser.Error(),
					"user_id", claims.UserID)
				shared.RespondWithError(w, r, http.StatusUnauthorized, "user not found")
				return
			}
			if store.IsUnavailable(err) {
				shared.RespondWithError(w, r, http.StatusServiceUnavailable, "database unavailable")
				return
			}
			log.Error("authentication failed: user lookup error", "error", err.Error())
			shared.RespondWithError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken pulls the token out of an "Authorization: Bearer <token>"
// header value. A missing header or any other scheme is reported as
// auth.ErrMissingToken.
func extractBearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", auth.ErrMissingToken
	}
	return header[len(prefix):], nil
}

// CurrentUser extracts the authenticated user from the request context.
// Returns the user and a boolean indicating if it was found.
func CurrentUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(shared.UserContextKey).(*domain.User)
	return user, ok && user != nil
}
