package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
	"github.com/SamSjosten/sessionvault-go/internal/telemetry/metric"
	"github.com/SamSjosten/sessionvault-go/internal/vault/backend"
	"github.com/SamSjosten/sessionvault-go/pkg/crypto/envelope"
	"github.com/SamSjosten/sessionvault-go/pkg/recname"
)

// splitter implements the hybrid-encrypted layout: a fresh per-entry key in
// the keyring store, the sealed payload in the general store. The key record
// stays a fixed couple hundred bytes no matter how large the payload grows,
// so the keyring's size ceiling never constrains payload size.
type splitter struct {
	keyring backend.Store
	general backend.Store
	log     logger.Logger
	metrics *metric.Metrics
}

// set seals value under a fresh key and writes payload first, key record
// second. A crash between the two leaves an unreadable orphaned payload,
// never a key record pointing at nothing the caller could retrieve.
// ErrNoSecureRandom passes through untouched; every other failure is wrapped
// for the demotion controller.
func (s *splitter) set(ctx context.Context, key, value string) error {
	keyMaterial, err := envelope.GenerateKey()
	if err != nil {
		return err
	}
	c, err := envelope.New(keyMaterial)
	if err != nil {
		return fmt.Errorf("construct cipher: %w", err)
	}
	sealed, err := c.Seal(value)
	if err != nil {
		if errors.Is(err, envelope.ErrNoSecureRandom) {
			return err
		}
		return fmt.Errorf("seal payload: %w", err)
	}

	if err := s.general.Set(ctx, recname.PayloadRecord(key), sealed); err != nil {
		return fmt.Errorf("write payload record: %w", err)
	}
	if err := s.keyring.Set(ctx, recname.KeyRecord(key), envelope.EncodeKey(keyMaterial)); err != nil {
		return fmt.Errorf("write key record: %w", err)
	}
	return nil
}

// get reads and unseals the entry for key. Every failure shape collapses to
// ErrNotFound; a key record whose payload is gone is treated as an orphan and
// removed so it cannot shadow future writes.
func (s *splitter) get(ctx context.Context, key string) (string, error) {
	keyRec := recname.KeyRecord(key)
	encodedKey, err := s.keyring.Get(ctx, keyRec)
	if err != nil {
		if !errors.Is(err, backend.ErrKeyNotFound) {
			s.log.Warn("keyring read failed, treating entry as absent", "error", err)
		}
		return "", ErrNotFound
	}

	sealed, err := s.general.Get(ctx, recname.PayloadRecord(key))
	if err != nil {
		if errors.Is(err, backend.ErrKeyNotFound) {
			// Key record without a payload: clean up the orphan.
			if delErr := s.keyring.Delete(ctx, keyRec); delErr != nil {
				s.log.Warn("orphaned key record cleanup failed", "error", delErr)
			} else {
				s.metrics.RecordOrphanCleaned()
				s.log.Debug("orphaned key record removed")
			}
		} else {
			s.log.Warn("payload read failed, treating entry as absent", "error", err)
		}
		return "", ErrNotFound
	}

	keyMaterial, err := envelope.DecodeKey(encodedKey)
	if err != nil {
		s.log.Warn("key record undecodable, treating entry as absent", "error", err)
		return "", ErrNotFound
	}
	c, err := envelope.New(keyMaterial)
	if err != nil {
		s.log.Warn("cipher construction failed, treating entry as absent", "error", err)
		return "", ErrNotFound
	}
	value, err := c.Open(sealed)
	if err != nil {
		s.log.Warn("payload failed authentication, treating entry as absent", "error", err)
		return "", ErrNotFound
	}
	return value, nil
}

// remove deletes both halves of the entry. Best effort; failures are logged
// and swallowed.
func (s *splitter) remove(ctx context.Context, key string) {
	if err := s.keyring.Delete(ctx, recname.KeyRecord(key)); err != nil {
		s.log.Warn("key record delete failed", "error", err)
	}
	if err := s.general.Delete(ctx, recname.PayloadRecord(key)); err != nil {
		s.log.Warn("payload record delete failed", "error", err)
	}
}
