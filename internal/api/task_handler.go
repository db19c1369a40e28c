package api

import (
	"errors"
	"net/http"

	"github.com/tuesdayhq/tuesday-api/internal/api/middleware"
	"github.com/tuesdayhq/tuesday-api/internal/api/shared"
	"github.com/tuesdayhq/tuesday-api/internal/domain"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// decodeError reports a request-body decode failure. Timestamp and other
// field-level validation failures keep their specific detail; structurally
// broken JSON gets the generic one.
func decodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrValidation) {
		RespondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request format")
}

// TaskHandler handles task CRUD API requests. Every operation is scoped to
// the authenticated user placed in the request context by the auth
// middleware.
type TaskHandler struct {
	tasks store.TaskStore
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks store.TaskStore) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List handles GET /api/tasks. Tasks are returned ordered by ascending
// start timestamp.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "missing token")
		return
	}

	tasks, err := h.tasks.ListByOwner(r.Context(), user.ID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Create handles POST /api/tasks. The end-after-start invariant is checked
// before any store write, so an invalid window never persists a row.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "missing token")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		decodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	var status domain.TaskStatus
	if req.Status != nil {
		status = domain.TaskStatus(*req.Status)
	}
	var priority domain.TaskPriority
	if req.Priority != nil {
		priority = domain.TaskPriority(*req.Priority)
	}

	task, err := domain.NewTask(
		user.ID,
		req.Title,
		req.Description,
		req.StartAt.Time,
		req.EndAt.Time,
		status,
		priority,
	)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if err := h.tasks.Create(r.Context(), task); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskIDResponse{ID: task.ID})
}

// Update handles PUT /api/tasks/{id}. Only fields present in the body are
// applied; a task owned by someone else reads as not found.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "missing token")
		return
	}

	taskID, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		decodeError(w, r, err)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), user.ID, taskID, patch)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskIDResponse{ID: task.ID})
}

// Delete handles DELETE /api/tasks/{id}. Success is an empty 204.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "missing token")
		return
	}

	taskID, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	if err := h.tasks.Delete(r.Context(), user.ID, taskID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
