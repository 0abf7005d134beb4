// Package backend provides the storage backends the vault negotiates over.
//
// Four backend classes model the heterogeneous stores available on a device:
//
//   - Keyring: a small secure store with a hard per-record size ceiling,
//     standing in for the OS keychain. Holds per-entry key material only.
//   - BadgerStore: a general-purpose persistent store with effectively
//     unbounded record size but no OS-level encryption at rest.
//   - BoltStore: a single-file persistent store used on the web target.
//   - Volatile: an in-process map, always usable, lost on exit.
//
// Probe runs a synthetic write/read/delete cycle to decide whether a backend
// is usable without ever touching caller data.
package backend
