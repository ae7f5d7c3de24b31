// Package store persists the session state as a single JSON blob.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/beast-reader/internal/config"
	"github.com/yourusername/beast-reader/internal/database"
	"github.com/yourusername/beast-reader/internal/metrics"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/session"
)

var (
	// ErrCorruptState is returned when a stored blob can not be decoded
	ErrCorruptState = errors.New("stored session state is corrupt")
	// ErrPartialState is returned alongside a usable state when some fields
	// could not be decoded and were left unset
	ErrPartialState = errors.New("stored session state is partially unreadable")
)

// Store loads and saves the session state. Load returns nil, nil when
// nothing has been stored yet, and a state together with ErrPartialState
// when only some fields were readable.
type Store interface {
	Name() string
	Load(ctx context.Context) (*models.SessionState, error)
	Save(ctx context.Context, state models.SessionState) error
	Ping(ctx context.Context) error
	Close() error
}

// New builds the backend selected in configuration
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.Storage.FilePath), nil
	case config.BackendRedis:
		client, err := ConnectRedis(ctx, cfg.Storage.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Storage.Key), nil
	case config.BackendPostgres:
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db, cfg.Storage.Key), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// LoadInto restores the session from the store. Missing or unreadable data
// leaves the session at its defaults; the failure is logged, never returned.
func LoadInto(ctx context.Context, st Store, sess *session.Session, log *logrus.Logger) {
	start := time.Now()
	state, err := st.Load(ctx)
	metrics.RecordPersistence(st.Name(), "load", err, time.Since(start).Seconds())

	switch {
	case err != nil && state != nil && errors.Is(err, ErrPartialState):
		log.WithError(err).WithField("backend", st.Name()).Warn("Some saved session fields were unreadable, using defaults for them")
	case err != nil:
		log.WithError(err).WithField("backend", st.Name()).Error("Failed to load saved session, starting fresh")
		return
	}
	if state == nil {
		log.WithField("backend", st.Name()).Debug("No saved session found")
		return
	}

	sess.Restore(*state)
	log.WithFields(logrus.Fields{
		"backend": st.Name(),
		"plays":   len(state.Plays),
		"date":    state.SelectedDate,
	}).Info("Restored saved session")
}

func encode(state models.SessionState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session state: %w", err)
	}
	return data, nil
}

// decode reads each top-level field on its own so one malformed field, or
// one malformed play, falls back to its default without losing the rest.
func decode(data []byte) (*models.SessionState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	var (
		state models.SessionState
		bad   []string
	)
	if raw, ok := fields["selectedDate"]; ok {
		if err := json.Unmarshal(raw, &state.SelectedDate); err != nil {
			bad = append(bad, "selectedDate")
		}
	}
	if raw, ok := fields["selectedTracks"]; ok {
		if err := json.Unmarshal(raw, &state.SelectedTracks); err != nil {
			state.SelectedTracks = nil
			bad = append(bad, "selectedTracks")
		}
	}
	if raw, ok := fields["plays"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			bad = append(bad, "plays")
		} else if items != nil {
			state.Plays = make([]models.Play, 0, len(items))
			for i, item := range items {
				var p models.Play
				if err := json.Unmarshal(item, &p); err != nil {
					bad = append(bad, fmt.Sprintf("plays[%d]", i))
					continue
				}
				state.Plays = append(state.Plays, p)
			}
		}
	}

	if len(bad) > 0 {
		return &state, fmt.Errorf("%w: %s", ErrPartialState, strings.Join(bad, ", "))
	}
	return &state, nil
}
