// Package persistence saves and restores the game snapshot.
//
// A [Store] is a small key-value blob store with a file and a SQLite
// implementation. [Snapshots] layers the game's policy on top: one JSON
// document under [SnapshotKey], a clear-and-retry-once on write failure, and
// corrupted snapshots treated as "no saved game". [Scheduler] debounces
// writes so that a burst of state changes produces a single write.
package persistence

import (
	"context"
	"fmt"
	"strings"
)

// SnapshotKey is the storage key of the saved game.
const SnapshotKey = "kbc_game_state"

// Store persists opaque payloads by key.
type Store interface {
	// Get returns the payload for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Put creates or replaces the payload for key.
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open creates the store for backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendSQLite:
		return OpenSQLite(SQLitePath(dir))
	default:
		return nil, fmt.Errorf("unknown persistence backend %q", backend)
	}
}

func checkKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("storage key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return key, nil
}
