package recname

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/spaolacci/murmur3"
)

// Record name prefixes. Keyring and general store share a flat namespace,
// so the prefix disambiguates the record family.
const (
	keyPrefix     = "svk_" // key material, keyring store
	payloadPrefix = "svp_" // sealed payload, general store
	plainPrefix   = "svv_" // plaintext value, single store
	legacyPrefix  = "sv_"  // superseded single-store layout
	probePrefix   = "sv_probe_"
)

// digest returns the SHA-256 hex digest of a logical key.
func digest(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// KeyRecord returns the keyring record name holding the entry's key material.
func KeyRecord(key string) string {
	return keyPrefix + digest(key)
}

// PayloadRecord returns the general-store record name holding the sealed payload.
func PayloadRecord(key string) string {
	return payloadPrefix + digest(key)
}

// PlainRecord returns the record name used by the unencrypted single-store layouts.
func PlainRecord(key string) string {
	return plainPrefix + digest(key)
}

// Legacy returns the record name the superseded layout derived for a logical
// key. The old layout hashed with murmur3-32, which has no collision
// resistance; it is kept solely for locating records to migrate.
func Legacy(key string) string {
	return fmt.Sprintf("%s%08x", legacyPrefix, murmur3.Sum32([]byte(key)))
}

// Probe returns a unique record name for a capability probe cycle.
//
// ULIDs keep probe records from ever colliding with caller data or with a
// concurrent probe in the same process.
func Probe() string {
	return probePrefix + strings.ToLower(ulid.MustNew(ulid.Now(), rand.Reader).String())
}

// IsProbe reports whether a record name belongs to a probe cycle.
func IsProbe(name string) bool {
	return strings.HasPrefix(name, probePrefix)
}
