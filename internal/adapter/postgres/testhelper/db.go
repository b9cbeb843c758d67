// Package testhelper starts a throwaway PostgreSQL for integration tests.
package testhelper

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/jlex/migrations"
)

// tables lists every table the migrations create.
var tables = []string{"entries", "spellings", "senses", "priority_tags", "learning_words"}

var (
	once    sync.Once
	dsn     string
	initErr error
)

// SetupTestDB returns a pool on an empty, fully migrated database. The
// container is started on first use and shared by the whole test binary,
// so tests using it must not run in parallel. The pool is closed via
// t.Cleanup.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		dsn, initErr = startPostgres(ctx)
		if initErr == nil {
			initErr = migrate(ctx, dsn)
		}
	})
	if initErr != nil {
		t.Fatalf("testhelper: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("testhelper: connect: %v", err)
	}
	t.Cleanup(pool.Close)

	Reset(t, pool)
	return pool
}

// Reset empties every table and restarts identity columns.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	stmt := "TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY"
	if _, err := pool.Exec(context.Background(), stmt); err != nil {
		t.Fatalf("testhelper: truncate: %v", err)
	}
}

func startPostgres(ctx context.Context) (string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "jlex",
				"POSTGRES_PASSWORD": "jlex",
				"POSTGRES_DB":       "jlex_test",
			},
			// The server logs readiness twice: once for the init run, once
			// for the real start.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start postgres: %w", err)
	}

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		return "", fmt.Errorf("postgres endpoint: %w", err)
	}
	return fmt.Sprintf("postgres://jlex:jlex@%s/jlex_test?sslmode=disable", endpoint), nil
}

func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
