// Package dbtest gives repository tests an isolated, migrated Postgres
// schema. Tests are skipped unless CLIN_TEST_DATABASE_URL is set.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clin/clin/internal/platform/db"
	"github.com/clin/clin/migrations"
)

const EnvURL = "CLIN_TEST_DATABASE_URL"

// New creates a fresh schema, applies every migration to it and returns a
// pool whose connections resolve tables in that schema. The schema is
// dropped when the test ends.
func New(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set", EnvURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "it_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")

	admin, err := db.NewPool(ctx, url, db.PoolConfig{MaxConns: 2})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := db.NewMigrator(admin, migrations.FS).Up(ctx, schema); err != nil {
		admin.Close()
		t.Fatalf("migrate %s: %v", schema, err)
	}

	pool, err := db.NewPool(ctx, url, db.PoolConfig{
		MaxConns:        4,
		ApplicationName: "clin-test",
		SearchPath:      schema,
	})
	if err != nil {
		admin.Close()
		t.Fatalf("connect to %s: %v", schema, err)
	}

	t.Cleanup(func() {
		pool.Close()
		drop := fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pgx.Identifier{schema}.Sanitize())
		if _, err := admin.Exec(context.Background(), drop); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		admin.Close()
	})
	return pool
}
