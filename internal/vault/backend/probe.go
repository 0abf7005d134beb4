package backend

import (
	"context"
	"errors"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
	"github.com/SamSjosten/sessionvault-go/pkg/recname"
)

// probeValue is the payload written during a probe cycle. Small enough for
// every backend class, including the keyring's size ceiling.
const probeValue = "sessionvault-probe-ok"

// Probe decides whether a backend is usable.
//
// It runs a full write, read-back, delete, read-after-delete cycle against a
// private probe record. The backend is usable only if all four steps succeed,
// the read-back matches exactly, and the post-delete read reports absence.
// Any error or mismatch means unusable. Caller data is never touched.
func Probe(ctx context.Context, s Store, log logger.Logger) bool {
	if log == nil {
		log = logger.Nop()
	}

	key := recname.Probe()

	if err := s.Set(ctx, key, probeValue); err != nil {
		log.Debug("probe write failed", "backend", s.Name(), "error", err)
		return false
	}

	got, err := s.Get(ctx, key)
	if err != nil || got != probeValue {
		log.Debug("probe read-back failed", "backend", s.Name(), "match", got == probeValue, "error", err)
		// Leave nothing behind even on a failed cycle.
		_ = s.Delete(ctx, key)
		return false
	}

	if err := s.Delete(ctx, key); err != nil {
		log.Debug("probe delete failed", "backend", s.Name(), "error", err)
		return false
	}

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
		log.Debug("probe read-after-delete did not report absence", "backend", s.Name(), "error", err)
		return false
	}

	log.Debug("probe succeeded", "backend", s.Name())
	return true
}
