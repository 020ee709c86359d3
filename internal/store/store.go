// Package store provides key/value persistence backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// KV is a flat key/value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open opens the named backend rooted at path. For sqlite, path is the
// database file; for file, path is a directory.
func Open(backend, path string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return OpenSQLite(path)
	case BackendFile:
		return OpenFile(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use %s or %s)", backend, BackendSQLite, BackendFile)
	}
}

// DefaultPath returns the default location for a backend inside dataDir.
func DefaultPath(backend, dataDir string) string {
	if strings.EqualFold(strings.TrimSpace(backend), BackendFile) {
		return filepath.Join(dataDir, "kv")
	}
	return filepath.Join(dataDir, "cubetime.db")
}
