// Package storage defines the whole-document persistence interface used for
// reference data and chat history.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load when no document exists under the key.
var ErrNotFound = errors.New("document not found")

// Store loads and saves whole documents by key. There are no partial updates:
// Save replaces the previous document entirely.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// LoadJSON loads the document under key and decodes it into v.
// A missing document returns ErrNotFound unchanged.
func LoadJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := s.Load(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

// SaveJSON encodes v with two-space indentation and stores it under key.
// Non-ASCII text is written as-is and HTML characters are not escaped.
func SaveJSON(ctx context.Context, s Store, key string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Save(ctx, key, buf.Bytes())
}
