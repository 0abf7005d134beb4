package vault

import (
	"context"
	"errors"
)

// Adapter exposes the Vault through the pluggable-storage contract that
// session-management SDKs expect: GetItem resolves to the empty string for
// absent entries instead of an error, and RemoveItem never fails. Only
// context cancellation and a missing secure random source surface as errors.
type Adapter struct {
	v *Vault
}

// Adapter returns the SDK-facing view of the vault.
func (v *Vault) Adapter() *Adapter {
	return &Adapter{v: v}
}

// GetItem returns the stored value, or ("", nil) when no readable entry
// exists for key.
func (a *Adapter) GetItem(ctx context.Context, key string) (string, error) {
	value, err := a.v.GetItem(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}

// SetItem stores value under key.
func (a *Adapter) SetItem(ctx context.Context, key, value string) error {
	return a.v.SetItem(ctx, key, value)
}

// RemoveItem deletes the entry under key. Removing an absent key succeeds.
func (a *Adapter) RemoveItem(ctx context.Context, key string) error {
	return a.v.RemoveItem(ctx, key)
}
