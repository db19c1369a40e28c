package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tuesdayhq/tuesday-api/internal/api"
	apiMiddleware "github.com/tuesdayhq/tuesday-api/internal/api/middleware"
	"github.com/tuesdayhq/tuesday-api/internal/platform/logger"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Every database-touching route sits behind the schema
// middleware so a healthy replica is verified (and migrated if needed)
// before handlers run.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.requestLogger)
	r.Use(middleware.Recoverer)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwords)
	taskHandler := api.NewTaskHandler(app.taskStore)
	healthHandler := api.NewHealthHandler(app.engines)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)
	databaseMiddleware := apiMiddleware.NewDatabaseMiddleware(app.schema)

	// Health check endpoint (no schema requirement; it must answer even
	// when the database is down)
	r.Get("/health", healthHandler.Check)

	// Authentication endpoints (public)
	r.Group(func(r chi.Router) {
		r.Use(databaseMiddleware.EnsureSchema)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
	})

	// Protected task routes
	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(databaseMiddleware.EnsureSchema)
		r.Use(authMiddleware.Authenticate)
		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
	})

	return r
}

// requestLogger attaches a request-scoped logger carrying the request ID, so
// everything logged downstream can be correlated back to one request.
func (app *application) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := app.logger.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), reqLogger)))
	})
}
