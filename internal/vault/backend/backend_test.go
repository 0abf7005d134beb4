package backend

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
)

// openStores builds one instance of every backend class against temp storage.
func openStores(t *testing.T) map[string]Store {
	t.Helper()

	keyring, err := NewKeyring(t.TempDir(), WithKeyringLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewKeyring() error = %v", err)
	}

	badgerStore, err := NewBadgerStore(t.TempDir(), DefaultBadgerConfig(), logger.Nop())
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}

	boltStore, err := NewBoltStore(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("NewBoltStore() error = %v", err)
	}

	stores := map[string]Store{
		"keyring":  keyring,
		"badger":   badgerStore,
		"bolt":     boltStore,
		"volatile": NewVolatile(),
	}

	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreConformance(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			// Absent key
			if _, err := s.Get(ctx, "svv_missing"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrKeyNotFound", err)
			}

			// Write, read back
			if err := s.Set(ctx, "svv_a", "value-a"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := s.Get(ctx, "svv_a")
			if err != nil || got != "value-a" {
				t.Errorf("Get() = %q, %v, want value-a, nil", got, err)
			}

			// Overwrite wholesale
			if err := s.Set(ctx, "svv_a", "value-b"); err != nil {
				t.Fatalf("Set(overwrite) error = %v", err)
			}
			if got, _ := s.Get(ctx, "svv_a"); got != "value-b" {
				t.Errorf("Get() after overwrite = %q, want value-b", got)
			}

			// Delete, then absent
			if err := s.Delete(ctx, "svv_a"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Get(ctx, "svv_a"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrKeyNotFound", err)
			}

			// Deleting an absent record is not an error
			if err := s.Delete(ctx, "svv_never_existed"); err != nil {
				t.Errorf("Delete(absent) error = %v, want nil", err)
			}
		})
	}
}

func TestStoreScan(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			records := map[string]string{
				"svk_one":   "k1",
				"svk_two":   "k2",
				"svp_three": "p3",
			}
			for k, v := range records {
				if err := s.Set(ctx, k, v); err != nil {
					t.Fatalf("Set(%s) error = %v", k, err)
				}
			}

			found := map[string]string{}
			if err := s.Scan(ctx, "svk_", func(key, value string) bool {
				found[key] = value
				return true
			}); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}

			if len(found) != 2 {
				t.Errorf("Scan(svk_) found %d records, want 2: %v", len(found), found)
			}
			for k := range found {
				if !strings.HasPrefix(k, "svk_") {
					t.Errorf("Scan leaked record outside prefix: %q", k)
				}
			}

			// Early stop
			visited := 0
			if err := s.Scan(ctx, "sv", func(_, _ string) bool {
				visited++
				return false
			}); err != nil {
				t.Fatalf("Scan(stop) error = %v", err)
			}
			if visited != 1 {
				t.Errorf("Scan visited %d records after stop, want 1", visited)
			}
		})
	}
}

func TestStoreLargeValues(t *testing.T) {
	ctx := context.Background()
	large := strings.Repeat("session-payload-", 1024) // >16KB

	stores := openStores(t)
	for _, name := range []string{"badger", "bolt", "volatile"} {
		t.Run(name, func(t *testing.T) {
			s := stores[name]
			if err := s.Set(ctx, "svp_big", large); err != nil {
				t.Fatalf("Set(large) error = %v", err)
			}
			got, err := s.Get(ctx, "svp_big")
			if err != nil || got != large {
				t.Errorf("large value round trip failed: len=%d err=%v", len(got), err)
			}
		})
	}
}
