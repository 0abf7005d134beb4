package vault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
	"github.com/SamSjosten/sessionvault-go/internal/telemetry/metric"
	"github.com/SamSjosten/sessionvault-go/internal/vault/backend"
)

// negotiator runs the one-shot capability probes, settles on a storage mode,
// and fans status changes out to subscribers. Demotions flow through it so
// that mode transitions stay one-directional and every listener sees them.
type negotiator struct {
	target  Target
	keyring backend.Store // native only
	general backend.Store // native only
	web     backend.Store // web only

	log     logger.Logger
	metrics *metric.Metrics

	initOnce sync.Once
	readyCh  chan struct{}

	mu        sync.RWMutex
	status    Status
	resolved  bool
	subs      map[int]func(Status)
	nextSubID int
}

func newNegotiator(target Target, keyring, general, web backend.Store, log logger.Logger, m *metric.Metrics) *negotiator {
	return &negotiator{
		target:  target,
		keyring: keyring,
		general: general,
		web:     web,
		log:     log,
		metrics: m,
		readyCh: make(chan struct{}),
		subs:    make(map[int]func(Status)),
	}
}

// initialize probes the backends and settles the mode. Idempotent; concurrent
// callers all block until the first run resolves. It never fails: anything
// unexpected degrades the store to volatile.
func (n *negotiator) initialize(ctx context.Context) Status {
	n.initOnce.Do(func() { n.run(ctx) })
	st, _ := n.current()
	return st
}

func (n *negotiator) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("storage negotiation panicked, degrading to volatile", "panic", fmt.Sprint(r))
			n.resolve(newStatus(ModeVolatile, fmt.Sprintf("storage initialization failed: %v", r)))
		}
	}()

	start := time.Now()
	var st Status
	if n.target == TargetWeb {
		st = n.negotiateWeb(ctx)
	} else {
		st = n.negotiateNative(ctx)
	}

	n.log.Info("storage mode negotiated",
		"mode", string(st.Mode),
		"encrypted", st.Encrypted,
		"persistent", st.Persistent,
		"elapsed", time.Since(start),
	)
	if st.Err != "" {
		n.log.Warn("storage negotiation degraded", "mode", string(st.Mode), "reason", st.Err)
	}
	n.resolve(st)
}

// negotiateNative probes the keyring and general stores concurrently. Both
// usable selects hybrid-encrypted; general alone selects plain-persistent;
// neither leaves the store volatile.
func (n *negotiator) negotiateNative(ctx context.Context) Status {
	var (
		wg               sync.WaitGroup
		keyringOK, genOK bool
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		keyringOK = backend.Probe(ctx, n.keyring, n.log)
		n.metrics.RecordProbe(n.keyring.Name(), keyringOK)
	}()
	go func() {
		defer wg.Done()
		genOK = backend.Probe(ctx, n.general, n.log)
		n.metrics.RecordProbe(n.general.Name(), genOK)
	}()
	wg.Wait()

	switch {
	case keyringOK && genOK:
		return newStatus(ModeHybridEncrypted, "")
	case genOK:
		return newStatus(ModePlainPersistent, "keyring store failed capability probe")
	default:
		return newStatus(ModeVolatile, "no persistent storage passed capability probes")
	}
}

func (n *negotiator) negotiateWeb(ctx context.Context) Status {
	ok := backend.Probe(ctx, n.web, n.log)
	n.metrics.RecordProbe(n.web.Name(), ok)
	if ok {
		return newStatus(ModeWebPersistent, "")
	}
	return newStatus(ModeVolatile, "web persistent store failed capability probe")
}

// resolve publishes the initial status exactly once and releases waiters.
func (n *negotiator) resolve(st Status) {
	n.mu.Lock()
	if n.resolved {
		n.mu.Unlock()
		return
	}
	n.status = st
	n.resolved = true
	subs := n.snapshotSubs()
	close(n.readyCh)
	n.mu.Unlock()

	n.notify(subs, st)
}

// ready blocks until negotiation has resolved or the context ends.
func (n *negotiator) ready(ctx context.Context) (Status, error) {
	select {
	case <-n.readyCh:
		st, _ := n.current()
		return st, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// current returns the live status snapshot and whether negotiation resolved.
func (n *negotiator) current() (Status, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.status, n.resolved
}

// subscribe registers a status listener and returns its cancel function. If
// negotiation already resolved the listener is invoked immediately with the
// current status.
func (n *negotiator) subscribe(fn func(Status)) func() {
	n.mu.Lock()
	id := n.nextSubID
	n.nextSubID++
	n.subs[id] = fn
	resolved, st := n.resolved, n.status
	n.mu.Unlock()

	if resolved {
		n.invoke(fn, st)
	}
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// demote moves the store to a strictly weaker mode. Attempts to move sideways
// or upward are ignored; demotion is one-directional and sticky. Returns the
// status in effect afterward.
func (n *negotiator) demote(to Mode, reason string) Status {
	n.mu.Lock()
	if !n.resolved || to.strength() >= n.status.Mode.strength() {
		st := n.status
		n.mu.Unlock()
		return st
	}
	st := newStatus(to, reason)
	st.DegradedAt = time.Now().UTC()
	n.status = st
	subs := n.snapshotSubs()
	n.mu.Unlock()

	n.log.Warn("storage mode demoted", "mode", string(to), "reason", reason)
	n.notify(subs, st)
	return st
}

// snapshotSubs must be called with mu held.
func (n *negotiator) snapshotSubs() []func(Status) {
	out := make([]func(Status), 0, len(n.subs))
	for _, fn := range n.subs {
		out = append(out, fn)
	}
	return out
}

func (n *negotiator) notify(subs []func(Status), st Status) {
	for _, fn := range subs {
		n.invoke(fn, st)
	}
}

// invoke shields the store from misbehaving listeners.
func (n *negotiator) invoke(fn func(Status), st Status) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Warn("status listener panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn(st)
}
