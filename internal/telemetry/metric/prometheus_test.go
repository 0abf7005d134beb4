package metric

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordProbe("keyring", true)
	m.RecordProbe("badger", false)
	m.RecordOp("set_item", "hybrid-encrypted", ResultOK)
	m.RecordWriteFailure()
	m.RecordDemotion()
	m.RecordMigration()
	m.RecordOrphanCleaned()
	m.SetVolatileEntries(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := map[string]bool{
		"sessionvault_probe_usable":                  false,
		"sessionvault_store_ops_total":               false,
		"sessionvault_store_write_failures_total":    false,
		"sessionvault_store_demotions_total":         false,
		"sessionvault_store_legacy_migrations_total": false,
		"sessionvault_store_orphans_cleaned_total":   false,
		"sessionvault_store_volatile_entries":        false,
	}

	for _, f := range families {
		if _, ok := want[f.GetName()]; ok {
			want[f.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric family %s not gathered", name)
		}
	}
}

func TestProbeGaugeValues(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordProbe("keyring", true)
	m.RecordProbe("badger", false)

	if got := testutil.ToFloat64(m.ProbeResult.WithLabelValues("keyring")); got != 1 {
		t.Errorf("probe gauge keyring = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ProbeResult.WithLabelValues("badger")); got != 0 {
		t.Errorf("probe gauge badger = %v, want 0", got)
	}
}

func TestOpsCounterLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordOp("get_item", "volatile", ResultAbsent)
	m.RecordOp("get_item", "volatile", ResultAbsent)
	m.RecordOp("set_item", "volatile", ResultOK)

	if got := testutil.ToFloat64(m.OpsTotal.WithLabelValues("get_item", "volatile", ResultAbsent)); got != 2 {
		t.Errorf("ops counter = %v, want 2", got)
	}
}

func TestNilSafe(t *testing.T) {
	var m *Metrics

	// All recorders must be no-ops on a nil receiver.
	m.RecordProbe("keyring", true)
	m.RecordOp("get_item", "volatile", ResultOK)
	m.RecordWriteFailure()
	m.RecordDemotion()
	m.RecordMigration()
	m.RecordOrphanCleaned()
	m.SetVolatileEntries(1)
}

func TestMetricNamesStable(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.RecordDemotion()

	out, err := testutil.GatherAndCount(reg, "sessionvault_store_demotions_total")
	if err != nil {
		t.Fatalf("GatherAndCount error = %v", err)
	}
	if out != 1 {
		t.Errorf("demotions_total series count = %d, want 1", out)
	}

	if !strings.HasPrefix("sessionvault_store_demotions_total", namespace) {
		t.Error("metric name must carry the namespace prefix")
	}
}
