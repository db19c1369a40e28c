package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuesdayhq/tuesday-api/internal/api/shared"
	"github.com/tuesdayhq/tuesday-api/internal/domain"
	"github.com/tuesdayhq/tuesday-api/internal/mocks"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// newTaskRouter mounts the handler behind a stand-in for the auth middleware
// that places the given user in the request context.
func newTaskRouter(h *TaskHandler, user *domain.User) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if user != nil {
				ctx := context.WithValue(req.Context(), shared.UserContextKey, user)
				req = req.WithContext(ctx)
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/tasks", h.List)
	r.Post("/api/tasks", h.Create)
	r.Put("/api/tasks/{id}", h.Update)
	r.Delete("/api/tasks/{id}", h.Delete)
	return r
}

func seedTask(t *testing.T, tasks *mocks.MockTaskStore, ownerID int64, title string, start time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, title, nil, start, start.Add(time.Hour), "", "")
	require.NoError(t, err)
	require.NoError(t, tasks.Create(context.Background(), task))
	return task
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: 42, Email: "ada@example.com", Name: "Ada"}
	tasks := mocks.NewMockTaskStore()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	seedTask(t, tasks, 42, "Later", start.Add(4*time.Hour))
	seedTask(t, tasks, 42, "Earlier", start)
	seedTask(t, tasks, 99, "Someone else's", start)

	router := newTaskRouter(NewTaskHandler(tasks), user)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/tasks", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp []TaskResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp, 2, "only the owner's tasks are listed")
	assert.Equal(t, "Earlier", resp[0].Title, "tasks are ordered by start timestamp")
	assert.Equal(t, "Later", resp[1].Title)
}

func TestListTasksEmpty(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: 42}
	router := newTaskRouter(NewTaskHandler(mocks.NewMockTaskStore()), user)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/tasks", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "[]", recorder.Body.String(), "empty list renders as [] not null")
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: 42}
	tasks := mocks.NewMockTaskStore()
	router := newTaskRouter(NewTaskHandler(tasks), user)

	body := `{
		"title": "Write report",
		"start_at": "2025-06-01T09:00:00",
		"end_at": "2025-06-01T11:00:00"
	}`
	req := httptest.NewRequest("POST", "/api/tasks", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp TaskIDResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.ID)

	created := tasks.Tasks[resp.ID]
	require.NotNil(t, created)
	assert.Equal(t, int64(42), created.OwnerID)
	assert.Equal(t, domain.TaskStatusTodo, created.Status, "status defaults to todo")
	assert.Equal(t, domain.TaskPriorityMedium, created.Priority, "priority defaults to medium")
}

func TestCreateTaskValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "malformed JSON",
			body:       `{"title": `,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing title",
			body:       `{"start_at": "2025-06-01T09:00:00", "end_at": "2025-06-01T11:00:00"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing window",
			body:       `{"title": "Task"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unparseable timestamp",
			body:       `{"title": "Task", "start_at": "yesterday", "end_at": "2025-06-01T11:00:00"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "end before start",
			body:       `{"title": "Task", "start_at": "2025-06-01T11:00:00", "end_at": "2025-06-01T09:00:00"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "end_at must be after start_at",
		},
		{
			name:       "end equal to start",
			body:       `{"title": "Task", "start_at": "2025-06-01T09:00:00", "end_at": "2025-06-01T09:00:00"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "end_at must be after start_at",
		},
		{
			name:       "invalid status",
			body:       `{"title": "Task", "start_at": "2025-06-01T09:00:00", "end_at": "2025-06-01T11:00:00", "status": "archived"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid task status",
		},
		{
			name:       "invalid priority",
			body:       `{"title": "Task", "start_at": "2025-06-01T09:00:00", "end_at": "2025-06-01T11:00:00", "priority": "urgent"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid task priority",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tasks := mocks.NewMockTaskStore()
			router := newTaskRouter(NewTaskHandler(tasks), &domain.User{ID: 42})

			req := httptest.NewRequest("POST", "/api/tasks", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Empty(t, tasks.Tasks, "nothing persisted for invalid input")

			if tt.wantDetail != "" {
				var errResp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
				assert.Equal(t, tt.wantDetail, errResp.Detail)
			}
		})
	}
}

func TestCreateTaskAcceptsRFC3339Timestamps(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	router := newTaskRouter(NewTaskHandler(tasks), &domain.User{ID: 42})

	body := `{
		"title": "Task",
		"start_at": "2025-06-01T09:00:00Z",
		"end_at": "2025-06-01T11:00:00.500000Z"
	}`
	req := httptest.NewRequest("POST", "/api/tasks", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: 42}
	tasks := mocks.NewMockTaskStore()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	task := seedTask(t, tasks, 42, "Original", start)

	router := newTaskRouter(NewTaskHandler(tasks), user)

	body := `{"title": "Renamed", "status": "done"}`
	req := httptest.NewRequest("PUT", "/api/tasks/1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp TaskIDResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, task.ID, resp.ID)

	assert.Equal(t, "Renamed", task.Title)
	assert.Equal(t, domain.TaskStatusDone, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority, "unsupplied fields keep prior values")
}

func TestUpdateTaskErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "unknown task",
			path:       "/api/tasks/999",
			body:       `{"title": "Renamed"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non-numeric id",
			path:       "/api/tasks/abc",
			body:       `{"title": "Renamed"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed JSON",
			path:       "/api/tasks/1",
			body:       `{"title"`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid status value",
			path:       "/api/tasks/1",
			body:       `{"status": "archived"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tasks := mocks.NewMockTaskStore()
			start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
			seedTask(t, tasks, 42, "Original", start)
			router := newTaskRouter(NewTaskHandler(tasks), &domain.User{ID: 42})

			req := httptest.NewRequest("PUT", tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestUpdateTaskOwnedByAnotherUser(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	seedTask(t, tasks, 99, "Not yours", start)
	router := newTaskRouter(NewTaskHandler(tasks), &domain.User{ID: 42})

	req := httptest.NewRequest("PUT", "/api/tasks/1", bytes.NewBufferString(`{"title": "Mine now"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code,
		"foreign tasks are indistinguishable from missing ones")

	var errResp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
	assert.Equal(t, "not found", errResp.Detail)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	seedTask(t, tasks, 42, "Done with this", start)
	router := newTaskRouter(NewTaskHandler(tasks), &domain.User{ID: 42})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/api/tasks/1", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String(), "delete returns no body")
	assert.Empty(t, tasks.Tasks)

	// Deleting again: the row is gone
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/api/tasks/1", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestTaskHandlersRequireUser(t *testing.T) {
	t.Parallel()

	// No user in context simulates a broken middleware chain.
	router := newTaskRouter(NewTaskHandler(mocks.NewMockTaskStore()), nil)

	requests := []*http.Request{
		httptest.NewRequest("GET", "/api/tasks", nil),
		httptest.NewRequest("POST", "/api/tasks", bytes.NewBufferString(`{}`)),
		httptest.NewRequest("PUT", "/api/tasks/1", bytes.NewBufferString(`{}`)),
		httptest.NewRequest("DELETE", "/api/tasks/1", nil),
	}
	for _, req := range requests {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, "%s %s", req.Method, req.URL.Path)
	}
}

func TestTaskStoreUnavailableMapsTo503(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	tasks.Err = store.ErrUnavailable
	router := newTaskRouter(NewTaskHandler(tasks), &domain.User{ID: 42})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/tasks", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var errResp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
	assert.Equal(t, "database unavailable", errResp.Detail)
}
