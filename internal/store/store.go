// Package store keeps encoded saves on disk. The game core hands it opaque
// bytes; the format belongs to the models package.
package store

import (
	"errors"
	"fmt"
)

var (
	ErrNoSave         = errors.New("no save found")
	ErrClosed         = errors.New("store closed")
	ErrUnknownBackend = errors.New("unknown store backend")
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is a single save slot.
type Store interface {
	// Load returns ErrNoSave when nothing has been saved yet.
	Load() ([]byte, error)
	Save(data []byte) error
	// Delete removes the save. Deleting a missing save is not an error.
	Delete() error
	Close() error
}

// Open returns the store for a configured backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path)
	case BackendSQLite:
		return OpenSQLite(path, DefaultSlot)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
