// Package storage archives generated invoice documents in a local directory
// or a Google Cloud Storage bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"invoicegen/internal/logger"
)

// ErrInvalidName is returned for object names that are empty or contain a path.
var ErrInvalidName = errors.New("invalid document name")

// Store saves a finished document under name and returns its location.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// LocalStore writes documents into a directory.
type LocalStore struct {
	dir string
	log zerolog.Logger
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &LocalStore{
		dir: dir,
		log: logger.WithComponent("local-store"),
	}, nil
}

// Put writes data atomically: a temporary file in the target directory is
// renamed into place, so readers never see a partial document.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	const op = "LocalStore.Put"

	if err := checkName(name); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".invoice-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%s: write %s: %w", op, name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%s: close %s: %w", op, name, err)
	}

	target := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info().
		Str("path", target).
		Int("bytes", len(data)).
		Msg("Invoice document stored")

	return target, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
