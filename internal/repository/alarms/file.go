package alarms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/pingo/internal/config"
)

// FileRecords keeps one record in a JSON file on disk.
// A file holds exactly one record, so the key does not affect the path.
type FileRecords struct {
	// path is the filesystem location of the record file.
	path string
	// mu protects concurrent access to the file.
	mu sync.Mutex
}

// NewFileRecords creates a file backend at the provided path.
func NewFileRecords(path string) *FileRecords {
	return &FileRecords{
		path: filepath.Clean(path),
	}
}

// Load reads the record file.
func (r *FileRecords) Load(_ context.Context, _ string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errNoRecord
		}

		return nil, fmt.Errorf("read record file: %w", err)
	}

	return contents, nil
}

// Save writes the record next to the target and renames it into place,
// so readers never observe a partially written file.
func (r *FileRecords) Save(_ context.Context, _ string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary record file: %w", err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success.

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write record file: %w", err)
	}

	if err = tmp.Chmod(config.DefaultFilePermissions); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("set record file permissions: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close record file: %w", err)
	}

	if err = os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace record file: %w", err)
	}

	return nil
}

// Close is a no-op for files.
func (r *FileRecords) Close() error {
	return nil
}
