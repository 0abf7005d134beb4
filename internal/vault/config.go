package vault

import (
	"fmt"
	"path/filepath"

	"github.com/SamSjosten/sessionvault-go/internal/vault/backend"
)

// Target selects which backend family the store negotiates against.
type Target string

const (
	// TargetNative negotiates keyring + general store (hybrid capable).
	TargetNative Target = "native"

	// TargetWeb negotiates the single web-class persistent store.
	TargetWeb Target = "web"
)

// Config holds the vault's storage configuration. Loaded via confloader from
// file and SESSIONVAULT_* environment variables.
type Config struct {
	// Target is "native" or "web".
	Target Target `koanf:"target"`

	// DataDir is the root directory for all persistent state. The per-store
	// paths below default to subpaths of it when left empty.
	DataDir string `koanf:"data_dir"`

	// KeyringDir holds the size-capped key-material records (native only).
	KeyringDir string `koanf:"keyring_dir"`

	// GeneralDir holds the general store's database (native only).
	GeneralDir string `koanf:"general_dir"`

	// WebStorePath is the web-class store's database file (web only).
	WebStorePath string `koanf:"web_store_path"`

	// Badger tunes the general store's engine.
	Badger backend.BadgerConfig `koanf:"badger"`

	// DemotionThreshold is the number of consecutive hybrid write failures
	// that triggers demotion to plain-persistent.
	DemotionThreshold int `koanf:"demotion_threshold"`

	// LegacyPrefixes restricts lazy migration of old-layout records to keys
	// carrying one of these prefixes. Empty disables migration.
	LegacyPrefixes []string `koanf:"legacy_prefixes"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig(dataDir string) Config {
	return Config{
		Target:            TargetNative,
		DataDir:           dataDir,
		Badger:            backend.DefaultBadgerConfig(),
		DemotionThreshold: 2,
		LegacyPrefixes:    []string{"auth-", "session-"},
	}
}

// Normalize fills derived defaults and validates the configuration: the
// per-store paths default to subpaths of DataDir when left empty. Idempotent;
// New calls it, and callers that open backends directly (the probe command)
// must call it themselves.
func (c *Config) Normalize() error {
	switch c.Target {
	case TargetNative, TargetWeb:
	case "":
		c.Target = TargetNative
	default:
		return fmt.Errorf("invalid target %q (want native or web)", c.Target)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.KeyringDir == "" {
		c.KeyringDir = filepath.Join(c.DataDir, "keyring")
	}
	if c.GeneralDir == "" {
		c.GeneralDir = filepath.Join(c.DataDir, "general")
	}
	if c.WebStorePath == "" {
		c.WebStorePath = filepath.Join(c.DataDir, "webstore.db")
	}
	if c.DemotionThreshold <= 0 {
		c.DemotionThreshold = 2
	}
	return nil
}
