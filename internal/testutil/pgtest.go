// Package testutil provides shared test infrastructure for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/frontera-ops/crossing-risk/internal/storage"
)

const postgresImage = "postgres:16-alpine"

// PGTest opens a migrated test database and returns it plus a cleanup
// function.
//
//	db, cleanup := testutil.PGTest(t)
//	defer cleanup()
//
// POSTGRES_URL is used when set. Otherwise a throwaway container is started.
// The test is skipped under -short or when no Docker provider is reachable.
func PGTest(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := os.Getenv("POSTGRES_URL")
	terminate := func() {}
	if dsn == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)

		ctr, err := postgres.Run(ctx, postgresImage,
			postgres.WithDatabase("crossings"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			t.Skipf("pgtest: start postgres container: %v", err)
		}
		terminate = func() { _ = testcontainers.TerminateContainer(ctr) }

		dsn, err = ctr.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			terminate()
			t.Fatalf("pgtest: connection string: %v", err)
		}
	}

	db, err := storage.NewPostgresDB(ctx, dsn)
	if err != nil {
		terminate()
		t.Fatalf("pgtest: %v", err)
	}

	cleanup := func() {
		truncateAll(context.Background(), db)
		_ = db.Close()
		terminate()
	}
	return db, cleanup
}

// truncateAll empties every application table, leaving goose bookkeeping
// in place.
func truncateAll(ctx context.Context, db *sql.DB) {
	rows, err := db.QueryContext(ctx, `
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		  AND tablename <> 'goose_db_version'
	`)
	if err != nil {
		return
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			tables = append(tables, name)
		}
	}
	if len(tables) > 0 {
		_, _ = db.ExecContext(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" CASCADE")
	}
}
