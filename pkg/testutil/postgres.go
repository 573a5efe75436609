package testutil

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pkgpostgres "github.com/bibbank/loan-decision-service/pkg/postgres"
)

// PostgresContainer is a PostgreSQL 16 instance with a connected pool.
type PostgresContainer struct {
	DSN  string
	Pool *pgxpool.Pool
}

// NewPostgresContainer starts PostgreSQL and connects a pool through
// pkg/postgres, the way the service does.
func NewPostgresContainer(ctx context.Context, t *testing.T) *PostgresContainer {
	t.Helper()
	skipShort(t)

	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("loan_decisions"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			// The server logs readiness twice: once for the init run, once for real.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	terminateOnCleanup(t, "postgres", ctr)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres connection string")

	pool, err := pkgpostgres.NewPool(ctx, pkgpostgres.Config{URL: dsn})
	require.NoError(t, err, "connect to postgres")
	t.Cleanup(pool.Close)

	return &PostgresContainer{DSN: dsn, Pool: pool}
}

// RunMigrations applies the up migrations under dir in fsys.
func (pc *PostgresContainer) RunMigrations(t *testing.T, fsys fs.FS, dir string) {
	t.Helper()
	require.NoError(t, pkgpostgres.RunMigrations(pc.DSN, fsys, dir), "run migrations")
}

// Truncate empties tables, cascading to dependents.
func (pc *PostgresContainer) Truncate(t *testing.T, tables ...string) {
	t.Helper()
	if len(tables) == 0 {
		return
	}
	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = pgx.Identifier{table}.Sanitize()
	}
	_, err := pc.Pool.Exec(context.Background(), "TRUNCATE TABLE "+strings.Join(quoted, ", ")+" CASCADE")
	require.NoError(t, err, "truncate %v", tables)
}
