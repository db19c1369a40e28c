package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tuesdayhq/tuesday-api/internal/domain"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// implementation keeps tasks in memory scoped by owner, mirroring the
// owner-filtered behavior of the real store.
type MockTaskStore struct {
	// Function fields for customizable behavior
	ListByOwnerFn func(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	CreateFn      func(ctx context.Context, task *domain.Task) error
	GetOwnedFn    func(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)
	UpdateFn      func(ctx context.Context, ownerID, taskID int64, patch domain.TaskPatch) (*domain.Task, error)
	DeleteFn      func(ctx context.Context, ownerID, taskID int64) error

	// Data for default implementation
	mu     sync.Mutex
	Tasks  map[int64]*domain.Task
	nextID int64
	Err    error
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks:  make(map[int64]*domain.Task),
		nextID: 1,
	}
}

// ListByOwner implements the TaskStore interface
func (m *MockTaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := []*domain.Task{}
	for _, task := range m.Tasks {
		if task.OwnerID == ownerID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].StartAt.Before(tasks[j].StartAt)
	})
	return tasks, nil
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = m.nextID
	m.nextID++
	m.Tasks[task.ID] = task
	return nil
}

// GetOwned implements the TaskStore interface
func (m *MockTaskStore) GetOwned(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	if m.GetOwnedFn != nil {
		return m.GetOwnedFn(ctx, ownerID, taskID)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[taskID]
	if !exists || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, ownerID, taskID int64, patch domain.TaskPatch) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ownerID, taskID, patch)
	}

	task, err := m.GetOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := task.Apply(patch); err != nil {
		return nil, err
	}
	task.UpdatedAt = time.Now().UTC()
	return task, nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, taskID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, taskID)
	}

	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[taskID]
	if !exists || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, taskID)
	return nil
}
