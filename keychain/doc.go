// Package keychain provides the Redis-backed secure storage backend for the
// credential store: versioned binary entry encoding, optional at-rest
// encryption, atomic multi-entry clears, and one-shot migration of the legacy
// v0 JSON layout.
//
// # Entry layout
//
// Each credential part lives under its own key, <prefix>:<entry>, as a
// versioned binary blob (identity ids are stored raw). The encoder is
// append-only: new versions add fields but never reinterpret old ones. With a
// passphrase configured, every blob is sealed with AES-256-GCM under an
// argon2id-derived key before it reaches Redis.
//
// # Architecture boundaries
//
// This package owns persistence only. It does NOT run the state machine,
// decide operation legality, or interpret token contents — those
// responsibilities belong to the engine.
//
// # What this package must NOT do
//
//   - Import goCredStore or jwt (no upward imports).
//   - Log credential material, sealed or otherwise.
//   - Retry failed Redis operations; retry policy belongs to the caller.
package keychain
