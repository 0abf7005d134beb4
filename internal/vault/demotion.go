package vault

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
	"github.com/SamSjosten/sessionvault-go/internal/telemetry/metric"
	"github.com/SamSjosten/sessionvault-go/internal/vault/backend"
	"github.com/SamSjosten/sessionvault-go/pkg/recname"
)

// demoter tracks consecutive hybrid write failures and, past the threshold,
// demotes the store to plain-persistent. Values that cannot be persisted at
// all are parked in the volatile map so the caller-visible write still
// succeeds. Writes that work reset the counter.
type demoter struct {
	threshold int
	neg       *negotiator
	keyring   backend.Store
	general   backend.Store
	volatile  *backend.Volatile
	split     *splitter

	failures atomic.Int64
	demoteMu sync.Mutex // serializes the demotion attempt itself

	log     logger.Logger
	metrics *metric.Metrics

	// warnLimit keeps repeated-failure logging from flooding the log when a
	// backend is down and every write takes the failure path.
	warnLimit *rate.Limiter
}

func newDemoter(threshold int, neg *negotiator, keyring, general backend.Store, volatile *backend.Volatile, split *splitter, log logger.Logger, m *metric.Metrics) *demoter {
	return &demoter{
		threshold: threshold,
		neg:       neg,
		keyring:   keyring,
		general:   general,
		volatile:  volatile,
		split:     split,
		log:       log,
		metrics:   m,
		warnLimit: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// recordSuccess resets the consecutive-failure counter.
func (d *demoter) recordSuccess() {
	d.failures.Store(0)
}

// handleWriteFailure absorbs a failed hybrid write. The entry always ends up
// readable somewhere: in the general store if demotion succeeds, in the
// volatile map otherwise. Never returns an error to the caller.
func (d *demoter) handleWriteFailure(ctx context.Context, key, value string, cause error) {
	d.metrics.RecordWriteFailure()
	n := d.failures.Add(1)
	if d.warnLimit.Allow() {
		d.log.Warn("hybrid write failed",
			"consecutive_failures", n,
			"threshold", d.threshold,
			"error", cause,
		)
	}

	if n >= int64(d.threshold) && d.tryDemote(ctx, key, value, cause) {
		return
	}
	d.park(ctx, key, value)
}

// park holds the entry in the volatile map under its logical key so reads in
// the current mode still find it.
func (d *demoter) park(ctx context.Context, key, value string) {
	if err := d.volatile.Set(ctx, key, value); err != nil {
		d.log.Error("volatile fallback write failed", "error", err)
		return
	}
	d.metrics.SetVolatileEntries(d.volatile.Count())
}

// tryDemote re-probes the general store and, if it is still usable, writes
// the pending value as plaintext, flushes previously parked entries, clears
// the entry's encrypted artifacts, and flips the mode. Returns false when the
// general store itself is the problem, leaving the entry for park.
func (d *demoter) tryDemote(ctx context.Context, key, value string, cause error) bool {
	d.demoteMu.Lock()
	defer d.demoteMu.Unlock()

	if st, _ := d.neg.current(); st.Mode != ModeHybridEncrypted {
		// A concurrent writer already demoted; take the plain path directly.
		return d.writePlain(ctx, key, value)
	}

	if !backend.Probe(ctx, d.general, d.log) {
		d.log.Warn("general store unusable, demotion not possible", "error", cause)
		return false
	}
	if !d.writePlain(ctx, key, value) {
		return false
	}

	// The plaintext record is now authoritative; drop the entry's stale
	// encrypted halves so they cannot resurface as a remnant.
	d.split.remove(ctx, key)
	d.flushParked(ctx)

	d.neg.demote(ModePlainPersistent, "persistent write failures in hybrid-encrypted mode: "+cause.Error())
	d.metrics.RecordDemotion()
	d.failures.Store(0)
	return true
}

func (d *demoter) writePlain(ctx context.Context, key, value string) bool {
	if err := d.general.Set(ctx, recname.PlainRecord(key), value); err != nil {
		d.log.Warn("plaintext write during demotion failed", "error", err)
		return false
	}
	return true
}

// flushParked moves entries parked in the volatile map into the general
// store. Entries that still fail stay parked.
func (d *demoter) flushParked(ctx context.Context) {
	var keys []string
	_ = d.volatile.Scan(ctx, "", func(k, _ string) bool {
		keys = append(keys, k)
		return true
	})
	flushed := 0
	for _, k := range keys {
		v, err := d.volatile.Get(ctx, k)
		if err != nil {
			continue
		}
		if d.writePlain(ctx, k, v) {
			_ = d.volatile.Delete(ctx, k)
			flushed++
		}
	}
	if flushed > 0 {
		d.log.Info("parked entries flushed to general store", "count", flushed)
	}
	d.metrics.SetVolatileEntries(d.volatile.Count())
}
