package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
	"github.com/SamSjosten/sessionvault-go/pkg/recname"
)

// flakyStore wraps Volatile and injects failures per operation.
type flakyStore struct {
	*Volatile
	failSet     bool
	failGet     bool
	failDelete  bool
	corruptRead bool
	ghostRead   bool // read-after-delete still returns a value
}

func (f *flakyStore) Name() string { return "flaky" }

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("flaky: set refused")
	}
	return f.Volatile.Set(ctx, key, value)
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, error) {
	if f.failGet {
		return "", errors.New("flaky: get refused")
	}
	if f.ghostRead {
		return probeValue, nil
	}
	v, err := f.Volatile.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if f.corruptRead {
		return v + "-corrupted", nil
	}
	return v, nil
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errors.New("flaky: delete refused")
	}
	return f.Volatile.Delete(ctx, key)
}

func TestProbeHealthyStores(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if !Probe(ctx, s, logger.Nop()) {
				t.Errorf("Probe(%s) = false, want true", name)
			}
		})
	}
}

func TestProbeFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		store *flakyStore
	}{
		{"write fails", &flakyStore{Volatile: NewVolatile(), failSet: true}},
		{"read fails", &flakyStore{Volatile: NewVolatile(), failGet: true}},
		{"read-back mismatch", &flakyStore{Volatile: NewVolatile(), corruptRead: true}},
		{"delete fails", &flakyStore{Volatile: NewVolatile(), failDelete: true}},
		{"read-after-delete not absent", &flakyStore{Volatile: NewVolatile(), ghostRead: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Probe(ctx, tt.store, logger.Nop()) {
				t.Errorf("Probe should fail when %s", tt.name)
			}
		})
	}
}

func TestProbeLeavesNoResidue(t *testing.T) {
	ctx := context.Background()
	s := NewVolatile()

	if !Probe(ctx, s, logger.Nop()) {
		t.Fatal("Probe(volatile) = false, want true")
	}
	if s.Count() != 0 {
		t.Errorf("probe left %d records behind", s.Count())
	}
}

func TestProbeDoesNotTouchCallerData(t *testing.T) {
	ctx := context.Background()
	s := NewVolatile()

	if err := s.Set(ctx, recname.PlainRecord("auth-session"), "caller data"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	Probe(ctx, s, logger.Nop())

	got, err := s.Get(ctx, recname.PlainRecord("auth-session"))
	if err != nil || got != "caller data" {
		t.Errorf("caller data disturbed by probe: %q, %v", got, err)
	}
}
