package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore keeps each document as a file named after its key inside dir.
type DiskStore struct {
	dir string
}

// NewDiskStore returns a store rooted at dir. The directory is created if missing.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Path returns the file path backing key.
func (s *DiskStore) Path(key string) string {
	return filepath.Join(s.dir, key)
}

// Load reads the file for key.
func (s *DiskStore) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Save writes data to a temporary file next to the target and renames it into
// place, so readers never observe a half-written document.
func (s *DiskStore) Save(_ context.Context, key string, data []byte) error {
	path := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the disk store.
func (s *DiskStore) Close() error {
	return nil
}
