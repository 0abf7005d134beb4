package recname

import (
	"strings"
	"testing"
)

func TestDeterministic(t *testing.T) {
	tests := []struct {
		name   string
		derive func(string) string
		prefix string
	}{
		{"KeyRecord", KeyRecord, "svk_"},
		{"PayloadRecord", PayloadRecord, "svp_"},
		{"PlainRecord", PlainRecord, "svv_"},
		{"Legacy", Legacy, "sv_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.derive("auth-session")
			b := tt.derive("auth-session")
			if a != b {
				t.Errorf("%s not deterministic: %q != %q", tt.name, a, b)
			}
			if !strings.HasPrefix(a, tt.prefix) {
				t.Errorf("%s = %q, want prefix %q", tt.name, a, tt.prefix)
			}
		})
	}
}

func TestDistinctKeysDistinctRecords(t *testing.T) {
	if KeyRecord("a") == KeyRecord("b") {
		t.Error("KeyRecord collision for distinct keys")
	}
	if PayloadRecord("a") == PayloadRecord("b") {
		t.Error("PayloadRecord collision for distinct keys")
	}
}

func TestRecordFamiliesDisjoint(t *testing.T) {
	key := "auth-session"

	names := map[string]string{
		"key":     KeyRecord(key),
		"payload": PayloadRecord(key),
		"plain":   PlainRecord(key),
		"legacy":  Legacy(key),
	}

	seen := make(map[string]string)
	for family, name := range names {
		if prev, ok := seen[name]; ok {
			t.Errorf("families %s and %s derive the same record name %q", prev, family, name)
		}
		seen[name] = family
	}
}

func TestProbeUnique(t *testing.T) {
	a := Probe()
	b := Probe()

	if a == b {
		t.Errorf("Probe() returned duplicate name %q", a)
	}
	if !IsProbe(a) {
		t.Errorf("IsProbe(%q) = false, want true", a)
	}
	if IsProbe(KeyRecord("auth-session")) {
		t.Error("IsProbe should be false for a key record")
	}
}

func TestLegacyFormat(t *testing.T) {
	name := Legacy("auth-session")

	// Prefix plus 8 hex digits of the murmur3-32 digest.
	if len(name) != len("sv_")+8 {
		t.Errorf("Legacy name %q has unexpected length %d", name, len(name))
	}
}
