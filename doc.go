// Package goCredStore manages locally persisted authentication credentials —
// identity-pool credentials, user-pool tokens, and device secrets — behind an
// explicit state machine with Redis-backed keychain storage.
//
// Every change to the store is an event submitted to a sequential dispatcher:
// the event's precondition is checked against the current state, the
// transition is resolved, and the matching backend operation runs off the
// calling goroutine. Its outcome re-enters the machine as a Succeeded or
// Failed event, so the store always rests in Success or Failure between
// operations. Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goCredStore is the public surface. It exposes [Engine], [Builder], [Config],
// the event and state types, and value types (MetricsSnapshot, AuditEvent,
// Rejection). The credential data model lives in the credential sub-package,
// the Redis keychain in keychain, and unverified token inspection in jwt; none
// of them import goCredStore back.
//
// # What this package must NOT do
//
//   - Expose Redis clients, keychain encodings, or sealing details in its
//     public API.
//   - Block an Engine call on the storage backend (backend I/O runs async and
//     reports through the state machine).
//   - Mutate an installed State; states are replaced, never edited in place.
//
// # Concurrency contract
//
// Precondition check, resolution, and state installation form one atomic unit
// under the dispatcher lock. At most one backend operation is outstanding at a
// time; concurrent submissions while busy are rejected, not queued.
package goCredStore
