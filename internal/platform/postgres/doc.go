// Package postgres implements the persistence layer on PostgreSQL: the
// failover-aware connection manager, the schema guard, and the concrete
// store implementations. All store-level failures are translated into the
// sentinel errors declared in internal/store; communication failures
// additionally tear down the current engine so the next request re-attempts
// host failover instead of reusing a known-bad connection.
package postgres
