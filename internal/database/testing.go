package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDSNEnv names the environment variable pointing tests at a postgres instance
const TestDSNEnv = "BEAST_READER_TEST_DATABASE_DSN"

// SetupTestDB connects to the database named by BEAST_READER_TEST_DATABASE_DSN.
// The test is skipped when the variable is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping postgres test", TestDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dsn, 2)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to prepare test schema: %v", err)
	}

	t.Cleanup(func() { TeardownTestDB(t, db) })
	return db
}

// TeardownTestDB removes test rows and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, "DELETE FROM session_state WHERE key LIKE 'test:%'"); err != nil {
		t.Logf("warning: failed to clean test rows: %v", err)
	}
	db.Close()
}
