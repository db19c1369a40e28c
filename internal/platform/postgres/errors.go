package postgres

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the PostgreSQL error code for foreign key violations
	foreignKeyViolationCode = "23503"
)

// PostgreSQL error classes that indicate the server could not be reached or
// is in a transient failure state rather than a data problem.
const (
	connectionExceptionClass   = "08" // connection_exception
	insufficientResourcesClass = "53" // too_many_connections etc.
	operatorInterventionClass  = "57" // admin_shutdown, crash_shutdown
	systemErrorClass           = "58" // io_error
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for debugging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}

	if IsUniqueViolation(err) {
		return store.ErrDuplicate
	}

	if IsCommunicationError(err) {
		return store.ErrUnavailable
	}

	return err
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation. This is how duplicate email registrations surface.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation checks if the given error is a PostgreSQL foreign
// key constraint violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// IsCommunicationError reports whether the error indicates a failure to
// communicate with the database server, as opposed to a data-integrity
// failure. Communication failures must trigger engine disposal so the next
// request re-attempts host failover.
func IsCommunicationError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case connectionExceptionClass,
			insufficientResourcesClass,
			operatorInterventionClass,
			systemErrorClass:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// pgxpool reports operations on a disposed pool as a closed-pool error
	// without a dedicated sentinel.
	return strings.Contains(err.Error(), "closed pool")
}
