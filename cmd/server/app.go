package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuesdayhq/tuesday-api/internal/config"
	"github.com/tuesdayhq/tuesday-api/internal/platform/postgres"
	"github.com/tuesdayhq/tuesday-api/internal/service/auth"
	"github.com/tuesdayhq/tuesday-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger  *slog.Logger
	engines *postgres.EngineManager
	schema  *postgres.SchemaGuard

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore

	// Service interfaces
	jwtService auth.JWTService
	passwords  auth.PasswordHasher
}

// newApplication creates a new application instance with all dependencies
// initialized. The engine manager and schema guard must already have
// selected a working database host.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	engines *postgres.EngineManager,
	schema *postgres.SchemaGuard,
) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		engines: engines,
		schema:  schema,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password hasher
	app.passwords = auth.NewBcryptHasher(bcrypt.DefaultCost)

	// Initialize stores
	app.userStore = postgres.NewUserStore(engines, logger)
	app.taskStore = postgres.NewTaskStore(engines, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.engines != nil {
		app.engines.Dispose()
	}

	app.logger.Info("Application shutdown completed")
}
