package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrEmptyName is returned when a required display name is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyPassword is returned when a required password is empty.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrEmptyTitle is returned when a task title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEndBeforeStart is returned when a task's end timestamp is not
	// strictly after its start timestamp.
	ErrEndBeforeStart = errors.New("end_at must be after start_at")

	// ErrInvalidStatus is returned when a task status is not one of the known values.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidPriority is returned when a task priority is not one of the known values.
	ErrInvalidPriority = errors.New("invalid task priority")
)
