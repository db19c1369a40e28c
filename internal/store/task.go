package store

import (
	"context"

	"github.com/tuesdayhq/tuesday-api/internal/domain"
)

// TaskStore defines the interface for task data persistence. Every operation
// is scoped to an owning user: a task ID that exists but belongs to another
// owner is reported as ErrTaskNotFound, never as a permission error.
type TaskStore interface {
	// ListByOwner retrieves all tasks belonging to the owner, ordered by
	// ascending start timestamp.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// Create persists a new task and assigns its numeric ID.
	// The task must already have passed domain validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetOwned retrieves a task by ID, filtered to the owner.
	// Returns ErrTaskNotFound if no matching row exists.
	GetOwned(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)

	// Update applies the present fields of the patch to the owner's task and
	// refreshes its updated timestamp. Unsupplied fields retain their prior
	// values. Returns the updated task, or ErrTaskNotFound.
	Update(ctx context.Context, ownerID, taskID int64, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes the owner's task. Returns ErrTaskNotFound if no
	// matching row exists.
	Delete(ctx context.Context, ownerID, taskID int64) error
}
