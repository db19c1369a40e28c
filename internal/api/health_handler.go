package api

import (
	"context"
	"net/http"

	"github.com/tuesdayhq/tuesday-api/internal/api/shared"
)

// EngineStatus reports the state of the database layer for health checks.
type EngineStatus interface {
	// Probe verifies that a live database connection can be acquired.
	Probe(ctx context.Context) error
	// Host returns the database host currently in use, or "" if none.
	Host() string
}

// HealthHandler handles GET /health. The endpoint always answers 200 so
// load balancers keep routing; degraded database state shows up in the
// response body instead.
type HealthHandler struct {
	engines EngineStatus
}

// NewHealthHandler creates a new HealthHandler with the given dependencies.
func NewHealthHandler(engines EngineStatus) *HealthHandler {
	return &HealthHandler{engines: engines}
}

// Check reports service status and the active database host.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Service: "api",
		DBHost:  h.engines.Host(),
	}
	if err := h.engines.Probe(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.DBHost = h.engines.Host()
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
