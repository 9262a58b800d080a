package goCredStore

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goCredStore/credential"
)

// Backend is the interface callers (or the built-in keychain package)
// implement to provide the secure-storage collaborator. Every method is
// invoked asynchronously by the dispatcher — at most one call is outstanding
// at a time, and its outcome always re-enters the state machine as a
// Succeeded or Failed event.
//
// Store and Clear return the resulting full snapshot so the Succeeded event
// can carry authoritative post-operation contents.
//
//	Docs: docs/keychain.md
type Backend interface {
	Load(ctx context.Context) (*credential.Bundle, error)
	DetectLegacy(ctx context.Context) (bool, error)
	MigrateLegacy(ctx context.Context) (*credential.Bundle, error)
	Store(ctx context.Context, bundle *credential.Bundle) (*credential.Bundle, error)
	Clear(ctx context.Context, keys []string) (*credential.Bundle, error)
}

// Rejection is the synchronous answer to an event that is illegal in the
// current state. It is an ordinary value, not an error: the caller did
// nothing wrong at the I/O level, it only sequenced its requests badly, and
// the state machine is untouched.
//
// Rejection instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Rejection struct {
	Event  EventKind
	State  StateKind
	Reason string
}

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently.
func (r *Rejection) String() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s rejected in state %s: %s", r.Event, r.State, r.Reason)
}
