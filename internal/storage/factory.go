package storage

import (
	"context"
	"fmt"
)

// Backend names a Store implementation.
type Backend string

const (
	// BackendFile stores documents as JSON files in a directory (default).
	BackendFile Backend = "file"
	// BackendSQLite stores documents as rows of a SQLite database.
	BackendSQLite Backend = "sqlite"
	// BackendRedis stores documents as Redis string values.
	BackendRedis Backend = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Dir        string
	SQLitePath string
	Redis      RedisOptions
}

// Open creates the Store selected by opts.Backend.
// Supported backends: "file" (default), "sqlite", "redis".
func Open(ctx context.Context, opts Options) (Store, error) {
	switch Backend(opts.Backend) {
	case BackendFile, "":
		return NewDiskStore(opts.Dir)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	case BackendRedis:
		return NewRedisStore(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, sqlite, redis)", opts.Backend)
	}
}
