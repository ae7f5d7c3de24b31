package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/beast-reader/internal/config"
)

// SessionStateSchema creates the table holding persisted session blobs
const SessionStateSchema = `CREATE TABLE IF NOT EXISTS session_state (
	key        TEXT PRIMARY KEY,
	state      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SessionStateIndex supports pruning stale sessions by age
const SessionStateIndex = `CREATE INDEX IF NOT EXISTS idx_session_state_updated_at ON session_state (updated_at)`

// Initialize creates a database connection pool and makes sure the session table exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := Connect(ctx, cfg.GetDatabaseDSN(), cfg.Storage.Database.MaxConnections)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the session_state table definition
func EnsureSchema(ctx context.Context, db *DB) error {
	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, SessionStateSchema); err != nil {
			return fmt.Errorf("failed to create session_state table: %w", err)
		}
		if _, err := tx.Exec(ctx, SessionStateIndex); err != nil {
			return fmt.Errorf("failed to create session_state index: %w", err)
		}
		return nil
	})
	return err
}
