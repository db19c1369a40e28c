package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tuesdayhq/tuesday-api/internal/domain"
)

// timestampLayout is the naive ISO-8601 form used on the wire: no timezone
// offset, matching the reference behavior of the service.
const timestampLayout = "2006-01-02T15:04:05"

// timestampParseLayouts are the accepted input forms, tried in order.
var timestampParseLayouts = []string{
	timestampLayout,
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
}

// Timestamp is a time.Time that marshals as a naive ISO-8601 string and
// accepts both naive and RFC 3339 input.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: timestamp must be a string", domain.ErrValidation)
	}
	for _, layout := range timestampParseLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("%w: invalid timestamp %q", domain.ErrValidation, s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(timestampLayout))
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// AccessToken is the signed session token used for API authorization
	AccessToken string `json:"accessToken"`
}

// CreateTaskRequest defines the payload for task creation. Status and
// priority are optional and fall back to their defaults (todo, medium).
type CreateTaskRequest struct {
	Title       string     `json:"title"    validate:"required"`
	Description *string    `json:"description"`
	StartAt     *Timestamp `json:"start_at" validate:"required"`
	EndAt       *Timestamp `json:"end_at"   validate:"required"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
}

// UpdateTaskRequest defines the payload for partial task updates. Every
// field is optional; only supplied fields are applied.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartAt     *Timestamp `json:"start_at"`
	EndAt       *Timestamp `json:"end_at"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
}

// toPatch converts the request into a domain patch, validating any supplied
// status and priority values.
func (r UpdateTaskRequest) toPatch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.StartAt != nil {
		startAt := r.StartAt.Time
		patch.StartAt = &startAt
	}
	if r.EndAt != nil {
		endAt := r.EndAt.Time
		patch.EndAt = &endAt
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		if !status.IsValid() {
			return domain.TaskPatch{}, domain.ErrInvalidStatus
		}
		patch.Status = &status
	}
	if r.Priority != nil {
		priority := domain.TaskPriority(*r.Priority)
		if !priority.IsValid() {
			return domain.TaskPatch{}, domain.ErrInvalidPriority
		}
		patch.Priority = &priority
	}
	return patch, nil
}

// TaskResponse is the JSON shape of a task on the wire.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartAt     Timestamp `json:"start_at"`
	EndAt       Timestamp `json:"end_at"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
}

// NewTaskResponse converts a domain task into its wire representation.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		StartAt:     Timestamp{task.StartAt},
		EndAt:       Timestamp{task.EndAt},
		Status:      string(task.Status),
		Priority:    string(task.Priority),
	}
}

// TaskIDResponse carries just the identifier of a created or updated task.
type TaskIDResponse struct {
	ID int64 `json:"id"`
}

// HealthResponse is the body of the health endpoint. DBHost names the most
// recently adopted database host, useful when diagnosing failover.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	DBHost  string `json:"db_host"`
}
