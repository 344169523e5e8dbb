// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests using it are skipped unless DATABASE_URL is
// set, so the default `go test ./...` run stays self-contained.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/webdir/client-provider-api/migrations"
)

// connectTimeout bounds the initial connectivity check.
const connectTimeout = 5 * time.Second

// DatabaseURL returns the connection URL for integration tests.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// ShouldSkip reports whether database integration tests should be skipped
// because no test database is configured.
func ShouldSkip() bool {
	return DatabaseURL() == ""
}

// Connect opens a connection to the test database, verifies connectivity,
// and brings the schema up to date with the embedded migrations. The
// connection is closed automatically when the test finishes.
func Connect(t *testing.T) *sql.DB {
	t.Helper()

	if ShouldSkip() {
		t.Skip("DATABASE_URL not set, skipping database integration test")
	}

	db, err := sql.Open("pgx", DatabaseURL())
	require.NoError(t, err, "failed to open database connection")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping test database")

	migrateSchema(t, db)
	return db
}

// migrateSchema applies the embedded migrations to the test database.
func migrateSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName("schema_migrations")
	require.NoError(t, goose.SetDialect("postgres"), "failed to set goose dialect")
	require.NoError(t, goose.Up(db, "."), "failed to run migrations")
}

// WithTx runs fn inside a transaction that is rolled back when the test
// completes, so tests leave no trace in the shared database and can run
// against the same schema concurrently.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
