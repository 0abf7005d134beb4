// Package envelope provides the authenticated encryption primitives for the
// vault's hybrid storage mode.
//
// Every logical entry is sealed with a fresh 256-bit key under an AEAD
// construction (AES-256-GCM where hardware acceleration is available,
// ChaCha20-Poly1305 otherwise). The nonce and authentication tag travel
// inside the envelope string, so a record is self-contained: key material in
// one store, envelope in the other.
//
// Key generation refuses to operate without a cryptographically secure random
// source. That refusal is the one failure in the vault that surfaces to
// callers instead of degrading silently.
package envelope
