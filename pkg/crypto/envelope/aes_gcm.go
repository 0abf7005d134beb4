package envelope

import (
	"crypto/aes"
	"crypto/cipher"
)

// AESGCM implements AES-256-GCM authenticated encryption.
type AESGCM struct {
	baseCipher
}

// NewAESGCM creates a new AES-256-GCM cipher.
//
// Key must be exactly 32 bytes; the vault never generates shorter keys.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &AESGCM{baseCipher: baseCipher{aead: aead}}, nil
}

// Type returns the cipher type.
func (c *AESGCM) Type() CipherType {
	return CipherAESGCM
}

// Seal encrypts plaintext into an envelope string.
func (c *AESGCM) Seal(plaintext string) (string, error) {
	return c.seal(plaintext)
}

// Open decrypts an envelope string.
func (c *AESGCM) Open(envelope string) (string, error) {
	return c.open(envelope)
}
