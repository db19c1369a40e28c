// Package main implements the entry point for the Tuesday API server,
// a multi-tenant task tracker with JWT authentication and automatic
// database host failover.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/tuesdayhq/tuesday-api/internal/config"
	"github.com/tuesdayhq/tuesday-api/internal/platform/logger"
	"github.com/tuesdayhq/tuesday-api/internal/platform/postgres"
)

const (
	schemaRetryAttempts = 60
	schemaRetryInterval = time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// run wires configuration, logging, the database layer and the HTTP server
// together. Separated from main so initialization errors flow back as
// values instead of os.Exit calls scattered through the startup path.
func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging using the configured log level
	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"db_hosts", cfg.Database.Hosts)

	// Select a working database host before accepting traffic. This walks
	// the configured host list with backoff until one answers or the
	// attempt budget runs out.
	engines := postgres.NewEngineManager(cfg.Database, appLogger)
	if _, err := engines.AcquireWithRetry(ctx); err != nil {
		return fmt.Errorf("no database host available: %w", err)
	}
	appLogger.Info("Database engine selected", "host", engines.Host())

	// Bring the schema up to date. A freshly promoted replica can lag a
	// moment before it accepts DDL, so this retries on a short interval
	// rather than failing the whole boot.
	schema := postgres.NewSchemaGuard(engines, appLogger)
	if err := ensureSchemaWithRetry(ctx, schema, appLogger); err != nil {
		return fmt.Errorf("failed to prepare database schema: %w", err)
	}

	app, err := newApplication(cfg, appLogger, engines, schema)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// ensureSchemaWithRetry runs schema verification until it succeeds or the
// retry budget is exhausted.
func ensureSchemaWithRetry(
	ctx context.Context,
	schema *postgres.SchemaGuard,
	appLogger *slog.Logger,
) error {
	var err error
	for attempt := 1; attempt <= schemaRetryAttempts; attempt++ {
		if err = schema.Ensure(ctx); err == nil {
			return nil
		}
		appLogger.Warn("Schema check failed, retrying",
			"attempt", attempt,
			"max_attempts", schemaRetryAttempts,
			"error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(schemaRetryInterval):
		}
	}
	return err
}
