package envelope

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"runtime"
)

// KeySize is the fixed key length in bytes (256-bit).
const KeySize = 32

var (
	// ErrNoSecureRandom indicates the platform's secure random source failed.
	// Key generation fails loudly rather than falling back to a weak source.
	ErrNoSecureRandom = errors.New("envelope: secure random source unavailable")

	// ErrInvalidEnvelope indicates a truncated, tampered, or malformed envelope.
	ErrInvalidEnvelope = errors.New("envelope: invalid or tampered envelope")

	// ErrInvalidKeySize indicates key material of the wrong length.
	ErrInvalidKeySize = errors.New("envelope: key must be 32 bytes")
)

// CipherType identifies the AEAD algorithm.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// Cipher seals and opens entry values with authenticated encryption.
type Cipher interface {
	// Type returns the cipher type.
	Type() CipherType

	// Seal encrypts plaintext into a self-contained envelope string.
	Seal(plaintext string) (string, error)

	// Open decrypts an envelope string produced by Seal.
	// Returns ErrInvalidEnvelope for truncated or tampered input.
	Open(envelope string) (string, error)
}

// GenerateKey returns a fresh 256-bit key from the platform's secure random
// source. Keys are never derived from user input and never reused across
// entries.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSecureRandom, err)
	}
	return key, nil
}

// New creates a cipher for the given key, selecting the optimal AEAD for the
// hardware: AES-GCM where AES instructions are available, ChaCha20-Poly1305
// otherwise.
func New(key []byte) (Cipher, error) {
	if hasAESAcceleration() {
		return NewAESGCM(key)
	}
	return NewChaCha20(key)
}

// NewWithType creates a cipher of the specified type.
func NewWithType(key []byte, cipherType CipherType) (Cipher, error) {
	switch cipherType {
	case CipherAESGCM:
		return NewAESGCM(key)
	case CipherChaCha20:
		return NewChaCha20(key)
	default:
		return nil, errors.New("envelope: unknown cipher type: " + string(cipherType))
	}
}

// hasAESAcceleration reports whether hardware AES is expected.
// Go's crypto/aes uses AES-NI on amd64 and the ARM crypto extensions on arm64.
func hasAESAcceleration() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

// baseCipher provides the shared seal/open logic over an AEAD.
type baseCipher struct {
	aead cipher.AEAD
}

// seal draws a fresh nonce, encrypts, and encodes nonce||ciphertext||tag as
// one base64 string. The nonce is regenerated on every call; a nonce is never
// reused with the same key.
func (c *baseCipher) seal(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSecureRandom, err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// open decodes and authenticates an envelope, returning the plaintext.
func (c *baseCipher) open(envelope string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("%w: too short", ErrInvalidEnvelope)
	}

	nonce := raw[:c.aead.NonceSize()]
	plaintext, err := c.aead.Open(nil, nonce, raw[c.aead.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	return string(plaintext), nil
}

// EncodeKey encodes key material for storage in the keyring record.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// DecodeKey decodes key material read back from a keyring record.
func DecodeKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("envelope: decode key material: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	return key, nil
}
