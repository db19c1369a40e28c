package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tuesdayhq/tuesday-api/internal/domain"
	"github.com/tuesdayhq/tuesday-api/internal/platform/logger"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend. Every query filters by both task ID and
// owner ID, so a task belonging to another owner is indistinguishable from a
// missing one.
type TaskStore struct {
	engines EngineProvider
	logger  *slog.Logger

	// Injectable for testing
	timeFunc func() time.Time
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface.
func NewTaskStore(engines EngineProvider, logger *slog.Logger) *TaskStore {
	if engines == nil {
		panic("engines cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		engines:  engines,
		logger:   logger.With(slog.String("component", "task_store")),
		timeFunc: time.Now,
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

const taskColumns = `id, owner_id, title, description, start_at, end_at, status, priority, created_at, updated_at`

// ListByOwner implements store.TaskStore.ListByOwner.
// Tasks are returned in ascending start-timestamp order.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pool, err := s.engines.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_id = $1
		ORDER BY start_at
	`

	rows, err := pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, s.fail(log, "failed to list tasks", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, s.fail(log, "failed to scan task row", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(log, "error after scanning task rows", err)
	}

	return tasks, nil
}

// Create implements store.TaskStore.Create.
// It persists the task and writes the store-assigned ID back onto the
// struct. The task must already have passed domain validation, in particular
// the end-after-start check, so no partial writes occur for invalid input.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pool, err := s.engines.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	query := `
		INSERT INTO tasks (owner_id, title, description, start_at, end_at, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = pool.QueryRow(ctx, query,
		task.OwnerID,
		task.Title,
		task.Description,
		task.StartAt,
		task.EndAt,
		task.Status,
		task.Priority,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		return s.fail(log, "failed to create task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID))
	return nil
}

// GetOwned implements store.TaskStore.GetOwned.
// Returns store.ErrTaskNotFound when no row matches both the task ID and the
// owner ID.
func (s *TaskStore) GetOwned(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pool, err := s.engines.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`

	task, err := scanTask(pool.QueryRow(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, s.fail(log, "failed to get task", err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update.
// It loads the owner's task, merges the present patch fields, refreshes the
// updated timestamp, and writes the merged row back. Returns
// store.ErrTaskNotFound when no row matches.
func (s *TaskStore) Update(ctx context.Context, ownerID, taskID int64, patch domain.TaskPatch) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.GetOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if err := task.Apply(patch); err != nil {
		return nil, err
	}
	task.UpdatedAt = s.timeFunc().UTC()

	pool, err := s.engines.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, start_at = $3, end_at = $4,
		    status = $5, priority = $6, updated_at = $7
		WHERE id = $8 AND owner_id = $9
	`
	tag, err := pool.Exec(ctx, query,
		task.Title,
		task.Description,
		task.StartAt,
		task.EndAt,
		task.Status,
		task.Priority,
		task.UpdatedAt,
		taskID,
		ownerID,
	)
	if err != nil {
		return nil, s.fail(log, "failed to update task", err)
	}
	if tag.RowsAffected() == 0 {
		// The row vanished between the read and the write.
		return nil, store.ErrTaskNotFound
	}

	log.Info("task updated",
		slog.Int64("task_id", taskID),
		slog.Int64("owner_id", ownerID))
	return task, nil
}

// Delete implements store.TaskStore.Delete.
// Returns store.ErrTaskNotFound when no row matches both the task ID and the
// owner ID.
func (s *TaskStore) Delete(ctx context.Context, ownerID, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pool, err := s.engines.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	tag, err := pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		taskID, ownerID,
	)
	if err != nil {
		return s.fail(log, "failed to delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrTaskNotFound
	}

	log.Info("task deleted",
		slog.Int64("task_id", taskID),
		slog.Int64("owner_id", ownerID))
	return nil
}

// scanTask reads one task row. Works for both pgx.Row and pgx.Rows.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.StartAt,
		&task.EndAt,
		&task.Status,
		&task.Priority,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// fail translates a store-level failure. Communication failures dispose the
// current engine before surfacing store.ErrUnavailable so the next request
// re-attempts host failover; everything else propagates unchanged.
func (s *TaskStore) fail(log *slog.Logger, msg string, err error) error {
	if IsCommunicationError(err) {
		s.engines.Dispose()
		log.Error(msg, slog.String("error", err.Error()), slog.Bool("disposed", true))
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	log.Error(msg, slog.String("error", err.Error()))
	return err
}
