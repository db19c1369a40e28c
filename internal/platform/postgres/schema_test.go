package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

// newMockEngineManager wires an EngineManager whose selection adopts a
// pgxmock pool instead of opening a real connection.
func newMockEngineManager(t *testing.T) (*EngineManager, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	m := NewEngineManager(testDatabaseConfig("db-primary"), nil)
	m.openFunc = func(ctx context.Context, dsn string) (enginePool, error) {
		return mock, nil
	}
	m.probeFunc = func(ctx context.Context, pool enginePool) error { return nil }
	m.sleepFunc = func(d time.Duration) {}
	return m, mock
}

func TestSchemaGuardEnsureTablesPresent(t *testing.T) {
	m, mock := newMockEngineManager(t)
	defer mock.Close()

	guard := NewSchemaGuard(m, nil)

	users := "users"
	tasks := "tasks"
	mock.ExpectQuery(`SELECT to_regclass\('public.users'\)::text, to_regclass\('public.tasks'\)::text`).
		WillReturnRows(pgxmock.NewRows([]string{"users", "tasks"}).AddRow(&users, &tasks))

	require.NoError(t, guard.Ensure(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaGuardEnsureRepeatedCalls(t *testing.T) {
	m, mock := newMockEngineManager(t)
	defer mock.Close()

	guard := NewSchemaGuard(m, nil)

	users := "users"
	tasks := "tasks"
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(`SELECT to_regclass\('public.users'\)::text, to_regclass\('public.tasks'\)::text`).
			WillReturnRows(pgxmock.NewRows([]string{"users", "tasks"}).AddRow(&users, &tasks))
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, guard.Ensure(context.Background()))
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
