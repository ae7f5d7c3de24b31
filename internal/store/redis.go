package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/beast-reader/internal/config"
	"github.com/yourusername/beast-reader/internal/models"
)

// ConnectRedis opens a client and verifies it answers
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RedisStore keeps the session under a single redis key without expiry
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore creates a redis store
func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Name returns the backend label
func (r *RedisStore) Name() string { return "redis" }

// Load reads the session key
func (r *RedisStore) Load(ctx context.Context) (*models.SessionState, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", r.key, err)
	}
	return decode(data)
}

// Save overwrites the session key
func (r *RedisStore) Save(ctx context.Context, state models.SessionState) error {
	data, err := encode(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", r.key, err)
	}
	return nil
}

// Ping checks the redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client
func (r *RedisStore) Close() error {
	return r.client.Close()
}
