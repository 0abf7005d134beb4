package backend

import (
	"context"
	"strings"

	"github.com/SamSjosten/sessionvault-go/pkg/cmap"
)

// Volatile is the last-resort in-process store. Always usable, never
// persistent: everything is lost when the process exits.
type Volatile struct {
	items *cmap.Map[string]
}

// NewVolatile creates an empty volatile store.
func NewVolatile() *Volatile {
	return &Volatile{items: cmap.New[string]()}
}

// Name identifies the backend.
func (s *Volatile) Name() string { return "volatile" }

// Get retrieves a record value.
func (s *Volatile) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.items.Get(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set stores a record.
func (s *Volatile) Set(ctx context.Context, key, value string) error {
	s.items.Set(key, value)
	return nil
}

// Delete removes a record.
func (s *Volatile) Delete(ctx context.Context, key string) error {
	s.items.Delete(key)
	return nil
}

// Scan iterates records whose names start with prefix.
func (s *Volatile) Scan(ctx context.Context, prefix string, fn func(key, value string) bool) error {
	s.items.Range(func(key, value string) bool {
		if !strings.HasPrefix(key, prefix) {
			return true
		}
		return fn(key, value)
	})
	return nil
}

// Count returns the number of records held.
func (s *Volatile) Count() int { return s.items.Count() }

// Close is a no-op.
func (s *Volatile) Close() error { return nil }
