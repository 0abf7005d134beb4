package backend

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
)

func newTestKeyring(t *testing.T, opts ...KeyringOption) *Keyring {
	t.Helper()
	k, err := NewKeyring(t.TempDir(), append(opts, WithKeyringLogger(logger.Nop()))...)
	if err != nil {
		t.Fatalf("NewKeyring() error = %v", err)
	}
	return k
}

func TestKeyringSizeCeiling(t *testing.T) {
	ctx := context.Background()
	k := newTestKeyring(t)

	// At the ceiling: fine.
	atLimit := strings.Repeat("x", DefaultMaxValueBytes)
	if err := k.Set(ctx, "svk_fits", atLimit); err != nil {
		t.Errorf("Set(at ceiling) error = %v", err)
	}

	// One byte over: rejected.
	over := atLimit + "x"
	if err := k.Set(ctx, "svk_over", over); !errors.Is(err, ErrValueTooLarge) {
		t.Errorf("Set(over ceiling) error = %v, want ErrValueTooLarge", err)
	}

	// The rejected record must not exist.
	if _, err := k.Get(ctx, "svk_over"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("rejected record exists: err = %v", err)
	}
}

func TestKeyringCustomCeiling(t *testing.T) {
	ctx := context.Background()
	k := newTestKeyring(t, WithMaxValueBytes(10))

	if err := k.Set(ctx, "svk_a", "0123456789"); err != nil {
		t.Errorf("Set(10 bytes, ceiling 10) error = %v", err)
	}
	if err := k.Set(ctx, "svk_b", "01234567890"); !errors.Is(err, ErrValueTooLarge) {
		t.Errorf("Set(11 bytes, ceiling 10) error = %v, want ErrValueTooLarge", err)
	}
}

func TestKeyringFilePermissions(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	k, err := NewKeyring(dir, WithKeyringLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewKeyring() error = %v", err)
	}

	if err := k.Set(ctx, "svk_secret", "key-material"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 record file, found %d", len(entries))
	}

	info, err := entries[0].Info()
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("record file permissions = %o, want 600", perm)
	}
}

func TestKeyringUnsafeRecordNames(t *testing.T) {
	ctx := context.Background()
	k := newTestKeyring(t)

	// Names with path separators must not escape the keyring directory.
	hostile := "../../etc/passwd"
	if err := k.Set(ctx, hostile, "v"); err != nil {
		t.Fatalf("Set(hostile name) error = %v", err)
	}
	got, err := k.Get(ctx, hostile)
	if err != nil || got != "v" {
		t.Errorf("Get(hostile name) = %q, %v, want v, nil", got, err)
	}
	if err := k.Delete(ctx, hostile); err != nil {
		t.Errorf("Delete(hostile name) error = %v", err)
	}
}

func TestKeyringClosed(t *testing.T) {
	ctx := context.Background()
	k := newTestKeyring(t)

	if err := k.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := k.Get(ctx, "svk_a"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close error = %v, want ErrClosed", err)
	}
	if err := k.Set(ctx, "svk_a", "v"); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close error = %v, want ErrClosed", err)
	}
	if err := k.Delete(ctx, "svk_a"); !errors.Is(err, ErrClosed) {
		t.Errorf("Delete after Close error = %v, want ErrClosed", err)
	}
}

func TestKeyringSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	k1, err := NewKeyring(dir, WithKeyringLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewKeyring() error = %v", err)
	}
	if err := k1.Set(ctx, "svk_persist", "material"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	k1.Close()

	k2, err := NewKeyring(dir, WithKeyringLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewKeyring(reopen) error = %v", err)
	}
	got, err := k2.Get(ctx, "svk_persist")
	if err != nil || got != "material" {
		t.Errorf("Get after reopen = %q, %v, want material, nil", got, err)
	}
}
