package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yourusername/beast-reader/internal/models"
)

// FileStore keeps the session in a JSON file, replaced atomically on save
type FileStore struct {
	path string
}

// NewFileStore creates a file store at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Name returns the backend label
func (f *FileStore) Name() string { return "file" }

// Load reads the session file
func (f *FileStore) Load(ctx context.Context) (*models.SessionState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return decode(data)
}

// Save writes the session to a temp file and renames it over the old one
func (f *FileStore) Save(ctx context.Context, state models.SessionState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

// Ping checks that the target directory is reachable
func (f *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if _, err := os.Stat(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session directory %s: %w", dir, err)
	}
	return nil
}

// Close is a no-op
func (f *FileStore) Close() error { return nil }
