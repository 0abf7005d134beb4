package vault

import (
	"context"
	"errors"
	"strings"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
	"github.com/SamSjosten/sessionvault-go/internal/telemetry/metric"
	"github.com/SamSjosten/sessionvault-go/internal/vault/backend"
	"github.com/SamSjosten/sessionvault-go/pkg/cmap"
	"github.com/SamSjosten/sessionvault-go/pkg/recname"
)

// migrator upgrades entries written by superseded storage layouts, lazily, on
// first read. Two layouts exist in the wild:
//
//   - the legacy single-record layout, named by a 32-bit hash of the logical
//     key, which may sit in either the keyring or the general store
//   - hybrid remnants: key/payload pairs left behind when a store that later
//     demoted to plain-persistent had been writing hybrid-encrypted entries
//
// Each logical key is attempted at most once per process; there is no bulk
// sweep, because legacy record names cannot be reversed into logical keys.
type migrator struct {
	prefixes []string
	keyring  backend.Store // nil on web targets
	general  backend.Store
	split    *splitter // nil on web targets
	tried    *cmap.Map[struct{}]
	log      logger.Logger
	metrics  *metric.Metrics
}

func newMigrator(prefixes []string, keyring, general backend.Store, split *splitter, log logger.Logger, m *metric.Metrics) *migrator {
	return &migrator{
		prefixes: prefixes,
		keyring:  keyring,
		general:  general,
		split:    split,
		tried:    cmap.New[struct{}](),
		log:      log,
		metrics:  m,
	}
}

// applies reports whether key is eligible for legacy migration.
func (mg *migrator) applies(key string) bool {
	for _, p := range mg.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// take looks up and removes the legacy record for key, checking the keyring
// store before the general store. Returns the stored value and whether one
// was found. At most one attempt is made per key per process.
func (mg *migrator) take(ctx context.Context, key string) (string, bool) {
	if mg == nil || !mg.applies(key) {
		return "", false
	}
	if !mg.tried.SetIfAbsent(key, struct{}{}) {
		return "", false
	}

	rec := recname.Legacy(key)
	for _, s := range []backend.Store{mg.keyring, mg.general} {
		if s == nil {
			continue
		}
		value, err := s.Get(ctx, rec)
		if err != nil {
			if !errors.Is(err, backend.ErrKeyNotFound) {
				mg.log.Warn("legacy record read failed", "store", s.Name(), "error", err)
			}
			continue
		}
		if delErr := s.Delete(ctx, rec); delErr != nil {
			mg.log.Warn("legacy record delete failed", "store", s.Name(), "error", delErr)
		}
		mg.metrics.RecordMigration()
		mg.log.Info("legacy entry migrated to current layout", "store", s.Name())
		return value, true
	}
	return "", false
}

// takeHybridRemnant recovers an entry written in hybrid-encrypted mode before
// a demotion to plain-persistent. The key/payload pair is unsealed, removed,
// and the plaintext handed back for re-persistence through the current mode.
func (mg *migrator) takeHybridRemnant(ctx context.Context, key string) (string, bool) {
	if mg == nil || mg.split == nil {
		return "", false
	}
	// Quick existence check before paying for decryption.
	if _, err := mg.keyring.Get(ctx, recname.KeyRecord(key)); err != nil {
		return "", false
	}
	value, err := mg.split.get(ctx, key)
	if err != nil {
		// Unreadable remnant; get already cleaned up what it could.
		return "", false
	}
	mg.split.remove(ctx, key)
	mg.metrics.RecordMigration()
	mg.log.Info("hybrid remnant migrated to current layout")
	return value, true
}
