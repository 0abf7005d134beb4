package backend

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
)

// DefaultMaxValueBytes is the keyring's per-record size ceiling. Mirrors the
// hard capacity limit of OS-backed secure stores (~2KB per item).
const DefaultMaxValueBytes = 2048

const recordSuffix = ".rec"

// Keyring is the keychain-class store: one file per record with restrictive
// permissions and a hard per-record size ceiling. It holds per-entry key
// material (well under 100 bytes), never payloads.
type Keyring struct {
	dir           string
	maxValueBytes int
	log           logger.Logger

	mu     sync.RWMutex
	closed bool
}

// KeyringOption configures a Keyring.
type KeyringOption func(*Keyring)

// WithMaxValueBytes overrides the per-record size ceiling.
func WithMaxValueBytes(n int) KeyringOption {
	return func(k *Keyring) {
		k.maxValueBytes = n
	}
}

// WithKeyringLogger sets the logger.
func WithKeyringLogger(log logger.Logger) KeyringOption {
	return func(k *Keyring) {
		k.log = log
	}
}

// NewKeyring creates a keyring store rooted at dir.
func NewKeyring(dir string, opts ...KeyringOption) (*Keyring, error) {
	if dir == "" {
		return nil, fmt.Errorf("keyring: dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("keyring: create dir: %w", err)
	}

	k := &Keyring{
		dir:           dir,
		maxValueBytes: DefaultMaxValueBytes,
		log:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

// Name identifies the backend.
func (k *Keyring) Name() string { return "keyring" }

// path maps a record name to a file path. Record names are hex encoded so
// arbitrary names never escape the keyring directory.
func (k *Keyring) path(key string) string {
	return filepath.Join(k.dir, hex.EncodeToString([]byte(key))+recordSuffix)
}

// Get retrieves a record value.
func (k *Keyring) Get(ctx context.Context, key string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return "", ErrClosed
	}

	data, err := os.ReadFile(k.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("keyring: read record: %w", err)
	}
	return string(data), nil
}

// Set stores a record atomically via a temp file and rename.
func (k *Keyring) Set(ctx context.Context, key, value string) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return ErrClosed
	}

	if len(value) > k.maxValueBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrValueTooLarge, len(value), k.maxValueBytes)
	}

	dst := k.path(key)
	tmp, err := os.CreateTemp(k.dir, "write-*")
	if err != nil {
		return fmt.Errorf("keyring: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("keyring: write record: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("keyring: chmod record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("keyring: close temp: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("keyring: rename record: %w", err)
	}
	return nil
}

// Delete removes a record. Absent records are not an error.
func (k *Keyring) Delete(ctx context.Context, key string) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return ErrClosed
	}

	if err := os.Remove(k.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("keyring: delete record: %w", err)
	}
	return nil
}

// Scan iterates records whose names start with prefix.
func (k *Keyring) Scan(ctx context.Context, prefix string, fn func(key, value string) bool) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return ErrClosed
	}

	entries, err := os.ReadDir(k.dir)
	if err != nil {
		return fmt.Errorf("keyring: scan dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordSuffix) {
			continue
		}
		raw, err := hex.DecodeString(strings.TrimSuffix(entry.Name(), recordSuffix))
		if err != nil {
			// Not one of ours.
			continue
		}
		name := string(raw)
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(k.dir, entry.Name()))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("keyring: scan read: %w", err)
		}
		if !fn(name, string(data)) {
			return nil
		}
	}
	return nil
}

// Close marks the keyring closed. Files stay on disk.
func (k *Keyring) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.closed = true
	return nil
}
