package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/tuesdayhq/tuesday-api/internal/platform/logger"
	"github.com/tuesdayhq/tuesday-api/internal/store"
	"github.com/tuesdayhq/tuesday-api/migrations"
)

// gooseInit configures goose exactly once; both settings are process-global.
var gooseInit sync.Once

// SchemaGuard idempotently ensures the required tables exist before use. It
// is cheap enough to run on every request: the common case is a single
// catalog lookup, and table creation only happens when the lookup reports a
// missing table or itself fails (treated conservatively as "needs
// creation"). The migrations use create-if-missing statements, so concurrent
// first-callers racing each other do not error.
type SchemaGuard struct {
	engines *EngineManager
	logger  *slog.Logger

	// mu serializes migration runs; concurrent Ensure calls that both see a
	// missing table funnel through one migration pass.
	mu sync.Mutex
}

// NewSchemaGuard creates a SchemaGuard bound to the given engine manager.
func NewSchemaGuard(engines *EngineManager, logger *slog.Logger) *SchemaGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemaGuard{
		engines: engines,
		logger:  logger.With(slog.String("component", "schema_guard")),
	}
}

// Ensure checks that the users and tasks tables exist on the current engine
// and applies the embedded migrations when they do not. Communication
// failures dispose the engine and surface as store.ErrUnavailable.
func (g *SchemaGuard) Ensure(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, g.logger)

	pool, err := g.engines.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	needed := false
	var usersTable, tasksTable *string
	err = pool.QueryRow(ctx,
		`SELECT to_regclass('public.users')::text, to_regclass('public.tasks')::text`,
	).Scan(&usersTable, &tasksTable)
	switch {
	case err != nil:
		// Inspection failure is treated as "needs creation"; the migration
		// run below will surface a real connectivity problem.
		log.Warn("schema inspection failed, assuming tables are missing",
			slog.String("error", err.Error()))
		needed = true
	case usersTable == nil || tasksTable == nil:
		needed = true
	}

	if !needed {
		return nil
	}

	return g.migrate(ctx)
}

// migrate applies all pending embedded migrations against the currently
// selected host over a dedicated database/sql connection.
func (g *SchemaGuard) migrate(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	dsn, err := g.engines.DSN()
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			g.logger.Error("failed to close migration connection",
				slog.String("error", closeErr.Error()))
		}
	}()

	gooseInit.Do(func() {
		goose.SetBaseFS(migrations.FS)
		err = goose.SetDialect("postgres")
	})
	if err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		if IsCommunicationError(err) {
			g.engines.Dispose()
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	g.logger.Info("database schema ensured")
	return nil
}
