package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace for all sessionvault metrics.
const namespace = "sessionvault"

// Operation results for the ops counter.
const (
	ResultOK       = "ok"
	ResultAbsent   = "absent"
	ResultFallback = "fallback"
)

// Metrics holds all vault metrics.
type Metrics struct {
	// ProbeResult records the outcome of the startup capability probe per
	// backend (1 usable, 0 unusable).
	ProbeResult *prometheus.GaugeVec

	// OpsTotal counts facade operations by op, mode, and result.
	OpsTotal *prometheus.CounterVec

	// WriteFailures counts consecutive-failure increments seen by the
	// demotion controller.
	WriteFailures prometheus.Counter

	// Demotions counts completed mode demotions.
	Demotions prometheus.Counter

	// Migrations counts legacy entries upgraded into the current layout.
	Migrations prometheus.Counter

	// OrphansCleaned counts orphaned key records removed during reads.
	OrphansCleaned prometheus.Counter

	// VolatileEntries tracks entries currently parked in the volatile map.
	VolatileEntries prometheus.Gauge
}

// New creates the vault metrics and registers them with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProbeResult: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "usable",
			Help:      "Capability probe outcome per backend (1 usable, 0 unusable)",
		}, []string{"backend"}),

		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "ops_total",
			Help:      "Facade operations by op, mode, and result",
		}, []string{"op", "mode", "result"}),

		WriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "write_failures_total",
			Help:      "Write failures observed by the demotion controller",
		}),

		Demotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "demotions_total",
			Help:      "Completed runtime demotions to a weaker storage mode",
		}),

		Migrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "legacy_migrations_total",
			Help:      "Legacy entries upgraded into the current layout",
		}),

		OrphansCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "orphans_cleaned_total",
			Help:      "Orphaned key records removed during reads",
		}),

		VolatileEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "volatile_entries",
			Help:      "Entries currently held only in the volatile map",
		}),
	}

	reg.MustRegister(
		m.ProbeResult,
		m.OpsTotal,
		m.WriteFailures,
		m.Demotions,
		m.Migrations,
		m.OrphansCleaned,
		m.VolatileEntries,
	)

	return m
}

// RecordProbe records a probe outcome. Nil-safe.
func (m *Metrics) RecordProbe(backend string, usable bool) {
	if m == nil {
		return
	}
	v := 0.0
	if usable {
		v = 1.0
	}
	m.ProbeResult.WithLabelValues(backend).Set(v)
}

// RecordOp records a facade operation. Nil-safe.
func (m *Metrics) RecordOp(op, mode, result string) {
	if m == nil {
		return
	}
	m.OpsTotal.WithLabelValues(op, mode, result).Inc()
}

// RecordWriteFailure records a write failure. Nil-safe.
func (m *Metrics) RecordWriteFailure() {
	if m == nil {
		return
	}
	m.WriteFailures.Inc()
}

// RecordDemotion records a completed demotion. Nil-safe.
func (m *Metrics) RecordDemotion() {
	if m == nil {
		return
	}
	m.Demotions.Inc()
}

// RecordMigration records a legacy migration. Nil-safe.
func (m *Metrics) RecordMigration() {
	if m == nil {
		return
	}
	m.Migrations.Inc()
}

// RecordOrphanCleaned records an orphan cleanup. Nil-safe.
func (m *Metrics) RecordOrphanCleaned() {
	if m == nil {
		return
	}
	m.OrphansCleaned.Inc()
}

// SetVolatileEntries updates the volatile entry gauge. Nil-safe.
func (m *Metrics) SetVolatileEntries(n int) {
	if m == nil {
		return
	}
	m.VolatileEntries.Set(float64(n))
}
