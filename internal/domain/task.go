package domain

import (
	"strings"
	"time"
)

// TaskStatus represents the workflow state of a task.
// Transitions are unconstrained: any status may move to any other.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority represents the relative importance of a task.
type TaskPriority string

// Valid task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task represents a time-boxed unit of work owned by exactly one user.
type Task struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"-"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	StartAt     time.Time    `json:"start_at"`
	EndAt       time.Time    `json:"end_at"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// NewTask creates a new Task owned by the given user. Empty status and
// priority fall back to their defaults (todo, medium). Returns an error if
// validation fails; in particular the end timestamp must be strictly after
// the start timestamp.
func NewTask(
	ownerID int64,
	title string,
	description *string,
	startAt, endAt time.Time,
	status TaskStatus,
	priority TaskPriority,
) (*Task, error) {
	if status == "" {
		status = TaskStatusTodo
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}

	now := time.Now().UTC()
	task := &Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		StartAt:     startAt,
		EndAt:       endAt,
		Status:      status,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.EndAt.After(t.StartAt) {
		return ErrEndBeforeStart
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// TaskPatch describes a partial update to a task. Only non-nil fields are
// applied; absent fields retain their prior values.
type TaskPatch struct {
	Title       *string
	Description *string
	StartAt     *time.Time
	EndAt       *time.Time
	Status      *TaskStatus
	Priority    *TaskPriority
}

// IsEmpty reports whether the patch carries no deltas at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil &&
		p.StartAt == nil && p.EndAt == nil &&
		p.Status == nil && p.Priority == nil
}

// Apply merges the present deltas of the patch into the task. Supplied
// status and priority values must be valid; other fields are copied as-is.
func (t *Task) Apply(patch TaskPatch) error {
	if patch.Status != nil && !patch.Status.IsValid() {
		return ErrInvalidStatus
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return ErrInvalidPriority
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.StartAt != nil {
		t.StartAt = *patch.StartAt
	}
	if patch.EndAt != nil {
		t.EndAt = *patch.EndAt
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	return nil
}
