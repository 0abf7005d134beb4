package vault

import (
	"context"
	"errors"
	"sync"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
	"github.com/SamSjosten/sessionvault-go/internal/telemetry/metric"
	"github.com/SamSjosten/sessionvault-go/internal/vault/backend"
	"github.com/SamSjosten/sessionvault-go/pkg/crypto/envelope"
	"github.com/SamSjosten/sessionvault-go/pkg/recname"
)

// Vault is the storage facade. All operations block until initialization has
// resolved a storage mode, then dispatch to that mode's layout. Reads degrade
// to absence and writes degrade to weaker storage rather than surfacing
// backend faults; only context cancellation and a missing secure random
// source ever reach the caller as errors.
type Vault struct {
	cfg     Config
	log     logger.Logger
	metrics *metric.Metrics

	keyring  backend.Store
	general  backend.Store
	web      backend.Store
	volatile *backend.Volatile

	neg   *negotiator
	split *splitter
	migr  *migrator
	dem   *demoter

	closeOnce sync.Once
}

// Option customizes Vault construction.
type Option func(*Vault)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(v *Vault) { v.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metric.Metrics) Option {
	return func(v *Vault) { v.metrics = m }
}

// WithKeyringStore overrides the keyring backend. Mostly for tests.
func WithKeyringStore(s backend.Store) Option {
	return func(v *Vault) { v.keyring = s }
}

// WithGeneralStore overrides the general backend. Mostly for tests.
func WithGeneralStore(s backend.Store) Option {
	return func(v *Vault) { v.general = s }
}

// WithWebStore overrides the web-class backend. Mostly for tests.
func WithWebStore(s backend.Store) Option {
	return func(v *Vault) { v.web = s }
}

// New builds a Vault from cfg. Backends that fail to open do not fail
// construction; they enter negotiation as unusable and the store degrades
// accordingly. The only errors returned are configuration errors.
func New(cfg Config, opts ...Option) (*Vault, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	v := &Vault{
		cfg:      cfg,
		log:      logger.Default(),
		volatile: backend.NewVolatile(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.With("component", "vault")

	switch cfg.Target {
	case TargetNative:
		if v.keyring == nil {
			k, err := backend.NewKeyring(cfg.KeyringDir, backend.WithKeyringLogger(v.log))
			if err != nil {
				v.log.Error("keyring store unavailable", "error", err)
				v.keyring = backend.Unavailable("keyring", err)
			} else {
				v.keyring = k
			}
		}
		if v.general == nil {
			g, err := backend.NewBadgerStore(cfg.GeneralDir, cfg.Badger, v.log)
			if err != nil {
				v.log.Error("general store unavailable", "error", err)
				v.general = backend.Unavailable("general", err)
			} else {
				v.general = g
			}
		}
		v.split = &splitter{keyring: v.keyring, general: v.general, log: v.log, metrics: v.metrics}
		v.migr = newMigrator(cfg.LegacyPrefixes, v.keyring, v.general, v.split, v.log, v.metrics)
	case TargetWeb:
		if v.web == nil {
			w, err := backend.NewBoltStore(cfg.WebStorePath)
			if err != nil {
				v.log.Error("web store unavailable", "error", err)
				v.web = backend.Unavailable("web", err)
			} else {
				v.web = w
			}
		}
	}

	v.neg = newNegotiator(cfg.Target, v.keyring, v.general, v.web, v.log, v.metrics)
	if cfg.Target == TargetNative {
		v.dem = newDemoter(cfg.DemotionThreshold, v.neg, v.keyring, v.general, v.volatile, v.split, v.log, v.metrics)
	}
	return v, nil
}

// opContext tags ctx with the operation in flight and the vault's logger, so
// log lines emitted anywhere down the call path identify the facade op.
func (v *Vault) opContext(ctx context.Context, op string) context.Context {
	return logger.WithOp(logger.WithLogger(ctx, v.log), op)
}

// Initialize runs the capability probes and settles the storage mode. Safe to
// call concurrently and repeatedly; only the first call does work. Operations
// issued before Initialize block until it runs.
func (v *Vault) Initialize(ctx context.Context) Status {
	return v.neg.initialize(ctx)
}

// Ready blocks until a storage mode has been resolved or ctx ends.
func (v *Vault) Ready(ctx context.Context) (Status, error) {
	return v.neg.ready(ctx)
}

// Status returns the current status snapshot and whether initialization has
// resolved yet.
func (v *Vault) Status() (Status, bool) {
	return v.neg.current()
}

// Subscribe registers a listener for status changes. If the mode is already
// resolved the listener fires immediately with the current status. The
// returned function cancels the subscription.
func (v *Vault) Subscribe(fn func(Status)) func() {
	return v.neg.subscribe(fn)
}

// GetItem returns the value stored under key, or ErrNotFound if no readable
// entry exists. Entries whose key material or ciphertext is damaged are
// reported as absent. The only other error is ctx's.
func (v *Vault) GetItem(ctx context.Context, key string) (string, error) {
	ctx = v.opContext(ctx, "get_item")
	st, err := v.neg.ready(ctx)
	if err != nil {
		return "", err
	}

	value, err := v.read(ctx, st.Mode, key)
	if err != nil {
		v.metrics.RecordOp("get", string(st.Mode), metric.ResultAbsent)
		return "", err
	}
	v.metrics.RecordOp("get", string(st.Mode), metric.ResultOK)
	return value, nil
}

// SetItem stores value under key. Storage faults never fail the call: the
// write lands in progressively weaker storage, ultimately the in-process map.
// The exceptions are ctx errors and envelope.ErrNoSecureRandom, which aborts
// the write rather than persist anything weakly encrypted.
func (v *Vault) SetItem(ctx context.Context, key, value string) error {
	ctx = v.opContext(ctx, "set_item")
	st, err := v.neg.ready(ctx)
	if err != nil {
		return err
	}
	return v.write(ctx, st.Mode, key, value)
}

// RemoveItem deletes the entry under key from every location it could occupy,
// including superseded layouts. Removing an absent key is not an error, and
// backend faults are swallowed; only ctx errors are returned.
func (v *Vault) RemoveItem(ctx context.Context, key string) error {
	ctx = v.opContext(ctx, "remove_item")
	st, err := v.neg.ready(ctx)
	if err != nil {
		return err
	}

	_ = v.volatile.Delete(ctx, key)
	if v.split != nil {
		v.split.remove(ctx, key)
		if err := v.general.Delete(ctx, recname.PlainRecord(key)); err != nil {
			logger.L(ctx).Warn("plain record delete failed", "error", err)
		}
		if v.migr.applies(key) {
			rec := recname.Legacy(key)
			_ = v.keyring.Delete(ctx, rec)
			_ = v.general.Delete(ctx, rec)
		}
	}
	if v.web != nil {
		if err := v.web.Delete(ctx, recname.PlainRecord(key)); err != nil {
			logger.L(ctx).Warn("web record delete failed", "error", err)
		}
	}
	v.metrics.SetVolatileEntries(v.volatile.Count())
	v.metrics.RecordOp("remove", string(st.Mode), metric.ResultOK)
	return nil
}

// Close releases the underlying backends.
func (v *Vault) Close() error {
	var firstErr error
	v.closeOnce.Do(func() {
		for _, s := range []backend.Store{v.keyring, v.general, v.web, v.volatile} {
			if s == nil {
				continue
			}
			if err := s.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}

// read resolves key under the given mode, falling back through superseded
// layouts before reporting absence.
func (v *Vault) read(ctx context.Context, mode Mode, key string) (string, error) {
	// Entries parked by failed writes live in the volatile map under their
	// logical key and shadow every persistent layout: they are the newest
	// value the caller stored.
	if mode != ModeVolatile {
		if value, err := v.volatile.Get(ctx, key); err == nil {
			return value, nil
		}
	}

	switch mode {
	case ModeHybridEncrypted:
		if value, err := v.split.get(ctx, key); err == nil {
			return value, nil
		}
		if value, ok := v.migr.take(ctx, key); ok {
			v.rewrite(ctx, mode, key, value)
			return value, nil
		}

	case ModePlainPersistent:
		value, err := v.general.Get(ctx, recname.PlainRecord(key))
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, backend.ErrKeyNotFound) {
			logger.L(ctx).Warn("general store read failed, treating entry as absent", "error", err)
		}
		if value, ok := v.migr.takeHybridRemnant(ctx, key); ok {
			v.rewrite(ctx, mode, key, value)
			return value, nil
		}
		if value, ok := v.migr.take(ctx, key); ok {
			v.rewrite(ctx, mode, key, value)
			return value, nil
		}

	case ModeWebPersistent:
		value, err := v.web.Get(ctx, recname.PlainRecord(key))
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, backend.ErrKeyNotFound) {
			logger.L(ctx).Warn("web store read failed, treating entry as absent", "error", err)
		}

	case ModeVolatile:
		if value, err := v.volatile.Get(ctx, key); err == nil {
			return value, nil
		}
	}
	return "", ErrNotFound
}

// write persists key/value under the given mode.
func (v *Vault) write(ctx context.Context, mode Mode, key, value string) error {
	switch mode {
	case ModeHybridEncrypted:
		err := v.split.set(ctx, key, value)
		if err == nil {
			v.dem.recordSuccess()
			v.clearParked(ctx, key)
			v.metrics.RecordOp("set", string(mode), metric.ResultOK)
			return nil
		}
		if errors.Is(err, envelope.ErrNoSecureRandom) {
			v.metrics.RecordOp("set", string(mode), metric.ResultAbsent)
			return err
		}
		v.dem.handleWriteFailure(ctx, key, value, err)
		v.metrics.RecordOp("set", string(mode), metric.ResultFallback)
		return nil

	case ModePlainPersistent:
		if err := v.general.Set(ctx, recname.PlainRecord(key), value); err != nil {
			logger.L(ctx).Warn("general store write failed, parking entry in volatile map", "error", err)
			v.park(ctx, key, value)
			v.metrics.RecordOp("set", string(mode), metric.ResultFallback)
			return nil
		}
		v.clearParked(ctx, key)
		v.metrics.RecordOp("set", string(mode), metric.ResultOK)
		return nil

	case ModeWebPersistent:
		if err := v.web.Set(ctx, recname.PlainRecord(key), value); err != nil {
			logger.L(ctx).Warn("web store write failed, parking entry in volatile map", "error", err)
			v.park(ctx, key, value)
			v.metrics.RecordOp("set", string(mode), metric.ResultFallback)
			return nil
		}
		v.clearParked(ctx, key)
		v.metrics.RecordOp("set", string(mode), metric.ResultOK)
		return nil

	default: // ModeVolatile
		_ = v.volatile.Set(ctx, key, value)
		v.metrics.SetVolatileEntries(v.volatile.Count())
		v.metrics.RecordOp("set", string(mode), metric.ResultOK)
		return nil
	}
}

// rewrite re-persists a migrated value through the current mode's write path.
// Best effort: the value is already in hand, so a failed rewrite only delays
// migration until a later write.
func (v *Vault) rewrite(ctx context.Context, mode Mode, key, value string) {
	if err := v.write(ctx, mode, key, value); err != nil {
		logger.L(ctx).Warn("migrated entry re-persist failed", "error", err)
	}
}

func (v *Vault) park(ctx context.Context, key, value string) {
	if err := v.volatile.Set(ctx, key, value); err != nil {
		logger.L(ctx).Error("volatile fallback write failed", "error", err)
		return
	}
	v.metrics.SetVolatileEntries(v.volatile.Count())
}

// clearParked drops a stale parked copy once a persistent write succeeded.
func (v *Vault) clearParked(ctx context.Context, key string) {
	_ = v.volatile.Delete(ctx, key)
	v.metrics.SetVolatileEntries(v.volatile.Count())
}
