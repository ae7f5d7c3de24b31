package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/beast-reader/internal/models"
)

const (
	loadStateQuery = `SELECT state FROM session_state WHERE key = $1`
	saveStateQuery = `INSERT INTO session_state (key, state, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`
)

// Querier is the subset of database.DB used by PostgresStore
type Querier interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore keeps the session as one jsonb row of session_state
type PostgresStore struct {
	db  Querier
	key string
}

// NewPostgresStore creates a postgres store
func NewPostgresStore(db Querier, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

// Name returns the backend label
func (p *PostgresStore) Name() string { return "postgres" }

// Load reads the session row
func (p *PostgresStore) Load(ctx context.Context) (*models.SessionState, error) {
	var data []byte
	err := p.db.QueryRow(ctx, loadStateQuery, p.key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", p.key, err)
	}
	return decode(data)
}

// Save upserts the session row
func (p *PostgresStore) Save(ctx context.Context, state models.SessionState) error {
	data, err := encode(state)
	if err != nil {
		return err
	}
	if _, err := p.db.Exec(ctx, saveStateQuery, p.key, data); err != nil {
		return fmt.Errorf("failed to save session %s: %w", p.key, err)
	}
	return nil
}

// Ping checks the database connection
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Close releases the pool
func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}
