package backend

import (
	"context"
	"errors"
)

// Common errors
var (
	// ErrKeyNotFound indicates the record does not exist.
	ErrKeyNotFound = errors.New("backend: key not found")

	// ErrValueTooLarge indicates the value exceeds the backend's per-record
	// size ceiling.
	ErrValueTooLarge = errors.New("backend: value exceeds size ceiling")

	// ErrClosed indicates the backend has been closed.
	ErrClosed = errors.New("backend: store closed")
)

// Store is the per-backend strategy the negotiator selects over.
//
// Implementations must be safe for concurrent use. Get returns
// ErrKeyNotFound for absent records; Delete of an absent record is not an
// error.
type Store interface {
	// Name identifies the backend in logs, metrics, and status errors.
	Name() string

	// Get retrieves a record value.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a record, replacing any previous value wholesale.
	Set(ctx context.Context, key, value string) error

	// Delete removes a record.
	Delete(ctx context.Context, key string) error

	// Scan iterates records whose names start with prefix.
	// The callback returns false to stop iteration.
	Scan(ctx context.Context, prefix string, fn func(key, value string) bool) error

	// Close releases backend resources.
	Close() error
}
