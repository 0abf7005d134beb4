// Package vault implements the resilient encrypted key-value store that
// persists authentication session material on-device.
//
// A capability negotiator probes the available backends once at startup and
// selects the strongest usable storage mode. In hybrid-encrypted mode each
// entry's encryption key lives in the keyring store while the sealed payload
// lives in the general store, decoupling the secure store's size ceiling from
// payload size. Runtime write failures demote the whole store to a weaker
// mode; reads transparently upgrade entries left behind by the superseded
// single-store layout.
//
// Storage faults never propagate to callers: reads degrade to absence, writes
// degrade to weaker modes and ultimately to an in-process map. The one
// exception is key generation without a secure random source, which fails
// loudly by design.
package vault
