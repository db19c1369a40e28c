package middleware

import (
	"context"
	"net/http"

	"github.com/tuesdayhq/tuesday-api/internal/api/shared"
	"github.com/tuesdayhq/tuesday-api/internal/platform/logger"
)

// SchemaEnsurer is the subset of the schema guard this middleware needs.
type SchemaEnsurer interface {
	// Ensure makes sure the required tables exist on the current engine.
	Ensure(ctx context.Context) error
}

// DatabaseMiddleware gates requests on the backing store: it makes sure the
// schema exists on the current engine before any handler touches it. A cold
// start racing the store, or a store that is down entirely, degrades to a
// uniform 503 here instead of surfacing per-handler failures.
type DatabaseMiddleware struct {
	schema SchemaEnsurer
}

// NewDatabaseMiddleware creates a new DatabaseMiddleware with the given
// schema guard.
func NewDatabaseMiddleware(schema SchemaEnsurer) *DatabaseMiddleware {
	return &DatabaseMiddleware{schema: schema}
}

// EnsureSchema verifies the required tables exist before passing the request
// on. Failures surface as a 503 with the uniform unavailable detail string.
func (m *DatabaseMiddleware) EnsureSchema(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.schema.Ensure(r.Context()); err != nil {
			logger.FromContext(r.Context()).Warn("schema guard rejected request",
				"error", err.Error())
			shared.RespondWithError(w, r, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		next.ServeHTTP(w, r)
	})
}
