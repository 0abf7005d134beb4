// Package recname derives backend record names from logical keys.
//
// The hybrid layout splits every logical key into two records: one holding
// per-entry key material in the keyring store, one holding the sealed payload
// in the general store. Both names are derived deterministically so the same
// logical key always maps to the same record pair, and concurrent operations
// on different logical keys never touch each other's records.
//
// The current layout hashes with SHA-256; the superseded single-store layout
// used a 32-bit murmur3 digest and is kept only so the migrator can locate
// leftover records.
package recname
