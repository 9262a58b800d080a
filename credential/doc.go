// Package credential defines the credential data model shared by the state
// machine core and the keychain storage backend: identity-pool credentials,
// user-pool tokens, device secrets, and the well-known entry keys used to
// address them in a backend.
//
// # Design
//
// [Bundle] is an optional-field snapshot. A nil field means "absent": the
// backend leaves the corresponding entry untouched on store, and the state
// machine's merge rules treat it as "retain prior value". Bundles are value
// snapshots — [Bundle.Clone] produces a deep copy so no two owners ever share
// mutable credential material.
//
// # Architecture boundaries
//
// This package is a leaf. It owns the data model and nothing else: no
// persistence, no state machine logic, no token interpretation.
//
// # What this package must NOT do
//
//   - Import goCredStore, keychain, or jwt (no upward imports).
//   - Perform I/O of any kind.
//   - Log or otherwise expose secret material.
package credential
