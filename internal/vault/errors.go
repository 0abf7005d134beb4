package vault

import "errors"

var (
	// ErrNotFound is returned by GetItem when no readable entry exists for a
	// key. Unreadable entries (missing key material, corrupt ciphertext) are
	// reported the same way as genuinely absent ones.
	ErrNotFound = errors.New("vault: entry not found")
)
