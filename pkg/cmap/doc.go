// Package cmap provides a concurrent-safe sharded map keyed by string.
//
// It backs the volatile storage tier and the vault's in-process bookkeeping
// (overflow entries, migration markers). Sharding keeps lock contention low
// when many logical keys are read and written concurrently.
package cmap
