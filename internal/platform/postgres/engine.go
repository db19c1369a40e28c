package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tuesdayhq/tuesday-api/internal/config"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// Pooling parameters. The pool holds a modest number of connections with an
// overflow allowance, recycles idle connections periodically, and uses a
// short connect timeout so a dead host fails fast during failover instead of
// hanging the request.
const (
	poolMaxConns        = 15 // 5 base + 10 overflow
	poolMinConns        = 0
	poolMaxConnLifetime = 30 * time.Minute
	connectTimeout      = 5 * time.Second
)

// backoff schedule for failed selection passes: starts at one second and
// grows by one per pass up to the cap.
const (
	backoffInitial = 1 * time.Second
	backoffStep    = 1 * time.Second
	backoffCap     = 5 * time.Second
)

// enginePool is the subset of *pgxpool.Pool the manager needs. Keeping it an
// interface lets tests substitute fake engines for failover scenarios.
type enginePool interface {
	store.Querier
	Close()
}

// EngineProvider is the contract store implementations use to reach the
// current database engine. Acquire lazily (re)establishes a connection pool;
// Dispose tears the current one down after a communication failure so the
// next Acquire re-runs host failover.
type EngineProvider interface {
	Acquire(ctx context.Context) (store.Querier, error)
	Dispose()
}

// EngineManager owns the live database engine handle. It walks the ordered
// candidate host list until one answers a liveness probe, exposes the
// current pool to callers, and can be forcibly torn down and lazily
// recreated after a failure. All mutation of the current-engine state is
// mutex-guarded; a request that races a concurrent Dispose either keeps the
// pre-dispose pool it already acquired or triggers a fresh selection, never
// observes a half-built engine.
type EngineManager struct {
	cfg    config.DatabaseConfig
	logger *slog.Logger

	mu   sync.Mutex
	pool enginePool
	host string // last adopted host, kept for /health even while degraded

	// Injectable for testing
	openFunc  func(ctx context.Context, dsn string) (enginePool, error)
	probeFunc func(ctx context.Context, pool enginePool) error
	sleepFunc func(d time.Duration)
}

// Ensure EngineManager implements EngineProvider interface
var _ EngineProvider = (*EngineManager)(nil)

// NewEngineManager creates a new EngineManager for the given database
// configuration. No connection is attempted until the first Acquire.
func NewEngineManager(cfg config.DatabaseConfig, logger *slog.Logger) *EngineManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &EngineManager{
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "engine_manager")),
		openFunc:  openPool,
		probeFunc: probePool,
		sleepFunc: time.Sleep,
	}
}

// Acquire returns the current engine, lazily selecting one with a single
// failover pass over the host list if none is established. Request paths use
// this so a fully dead store degrades to a prompt unavailable signal instead
// of stalling the request for the startup retry budget.
func (m *EngineManager) Acquire(ctx context.Context) (store.Querier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool == nil {
		if err := m.selectWithRetryLocked(ctx, 1); err != nil {
			return nil, err
		}
	}
	return m.pool, nil
}

// AcquireWithRetry is Acquire with the full configured retry budget: up to
// MaxAttempts passes over the host list with inter-pass backoff. Startup
// uses it to ride out a slow-booting database before giving up.
func (m *EngineManager) AcquireWithRetry(ctx context.Context) (store.Querier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool == nil {
		if err := m.selectWithRetryLocked(ctx, m.cfg.MaxAttempts); err != nil {
			return nil, err
		}
	}
	return m.pool, nil
}

// Dispose releases all pooled connections of the current engine and clears
// the current-engine state, forcing the next Acquire to re-run failover
// selection. Safe to call when no engine is established. The last adopted
// host name is retained for diagnostics.
func (m *EngineManager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
		m.logger.Warn("database engine disposed, next acquire will re-run failover",
			slog.String("host", m.host))
	}
}

// Host returns the most recently adopted database host, or the empty string
// if no host has ever been selected.
func (m *EngineManager) Host() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.host
}

// Probe runs a trivial liveness query against the current engine, selecting
// one first if needed. Used by the health endpoint.
func (m *EngineManager) Probe(ctx context.Context) error {
	pool, err := m.Acquire(ctx)
	if err != nil {
		return err
	}

	probeCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var one int
	return pool.QueryRow(probeCtx, "SELECT 1").Scan(&one)
}

// DSN returns the connection string for the most recently adopted host.
// The schema guard uses it to run migrations over a separate database/sql
// connection. Returns an error if no host has been selected yet.
func (m *EngineManager) DSN() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.host == "" {
		return "", fmt.Errorf("no database host selected")
	}
	return m.dsnFor(m.host), nil
}

// selectWithRetryLocked iterates the ordered host list, adopting the first
// host whose pool answers a liveness probe. After each full failed pass it
// sleeps with an increasing backoff, giving up after maxAttempts passes.
// Callers must hold m.mu.
func (m *EngineManager) selectWithRetryLocked(ctx context.Context, maxAttempts int) error {
	wait := backoffInitial

	for attempt := 0; attempt < maxAttempts; attempt++ {
		for _, host := range m.cfg.Hosts {
			if err := ctx.Err(); err != nil {
				return err
			}

			pool, err := m.openFunc(ctx, m.dsnFor(host))
			if err != nil {
				m.logger.Debug("failed to open pool for host",
					slog.String("host", host),
					slog.String("error", err.Error()))
				continue
			}

			probeCtx, cancel := context.WithTimeout(ctx, connectTimeout)
			err = m.probeFunc(probeCtx, pool)
			cancel()
			if err != nil {
				pool.Close()
				m.logger.Debug("liveness probe failed for host",
					slog.String("host", host),
					slog.String("error", err.Error()))
				continue
			}

			m.pool = pool
			m.host = host
			m.logger.Info("database engine selected",
				slog.String("host", host),
				slog.Int("attempt", attempt+1))
			return nil
		}

		if attempt < maxAttempts-1 {
			m.sleepFunc(wait)
			if wait < backoffCap {
				wait += backoffStep
			}
		}
	}

	return fmt.Errorf("could not connect to any database host after %d attempts", maxAttempts)
}

// dsnFor builds the connection URL for a candidate host.
func (m *EngineManager) dsnFor(host string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(m.cfg.User, m.cfg.Password),
		Host:     fmt.Sprintf("%s:%d", host, m.cfg.Port),
		Path:     "/" + m.cfg.Name,
		RawQuery: fmt.Sprintf("sslmode=disable&connect_timeout=%d", int(connectTimeout.Seconds())),
	}
	return u.String()
}

// openPool constructs a pgx connection pool with the manager's pooling
// parameters. Connections are not established until first use; the
// subsequent liveness probe decides whether the host is adopted.
func openPool(ctx context.Context, dsn string) (enginePool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolCfg.MaxConns = poolMaxConns
	poolCfg.MinConns = poolMinConns
	poolCfg.MaxConnLifetime = poolMaxConnLifetime
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return pool, nil
}

// probePool executes the trivial liveness query used during host selection.
func probePool(ctx context.Context, pool enginePool) error {
	var one int
	return pool.QueryRow(ctx, "SELECT 1").Scan(&one)
}
