package goCredStore

import "github.com/MrEthical07/goCredStore/credential"

// StateKind is the discriminant of the credential store state union. Event
// precondition checks branch on it and nothing else.
//
// StateKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StateKind uint8

const (
	// StateNotConfigured is an exported constant or variable used by the credential store.
	StateNotConfigured StateKind = iota
	// StateLoadingStoredCredentials is an exported constant or variable used by the credential store.
	StateLoadingStoredCredentials
	// StateMigratingLegacyCredentialStore is an exported constant or variable used by the credential store.
	StateMigratingLegacyCredentialStore
	// StateStoringCredentials is an exported constant or variable used by the credential store.
	StateStoringCredentials
	// StateClearingCredentials is an exported constant or variable used by the credential store.
	StateClearingCredentials
	// StateSuccess is an exported constant or variable used by the credential store.
	StateSuccess
	// StateFailure is an exported constant or variable used by the credential store.
	StateFailure

	stateKindCount
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently.
func (k StateKind) String() string {
	switch k {
	case StateNotConfigured:
		return "notConfigured"
	case StateLoadingStoredCredentials:
		return "loadingStoredCredentials"
	case StateMigratingLegacyCredentialStore:
		return "migratingLegacyCredentialStore"
	case StateStoringCredentials:
		return "storingCredentials"
	case StateClearingCredentials:
		return "clearingCredentials"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Busy reports whether the kind represents an outstanding backend operation.
//
// Busy does not mutate shared global state and can be used concurrently.
func (k StateKind) Busy() bool {
	switch k {
	case StateLoadingStoredCredentials,
		StateMigratingLegacyCredentialStore,
		StateStoringCredentials,
		StateClearingCredentials:
		return true
	default:
		return false
	}
}

// State is an immutable snapshot of the credential store's condition. The
// dispatcher replaces the current State on every accepted event; a State value
// is never mutated in place.
//
// Busy states carry the bundle of the Success state they were entered from
// (nil on the load and migrate paths) so the resolver's merge rule for a
// partial Succeeded payload has its retained fields available.
//
// State instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type State struct {
	kind   StateKind
	bundle *credential.Bundle
	cause  error
}

// InitialState returns the NotConfigured state every dispatcher starts from.
//
// InitialState does not mutate shared global state and can be used concurrently.
func InitialState() State {
	return State{kind: StateNotConfigured}
}

// Kind describes the kind operation and its observable behavior.
//
// Kind does not mutate shared global state and can be used concurrently.
func (s State) Kind() StateKind {
	return s.kind
}

// Credentials returns a deep copy of the bundle held by a Success state (or
// carried through a busy state) and whether one is present. Callers may
// mutate the returned bundle freely.
//
// Credentials does not mutate shared global state and can be used concurrently.
func (s State) Credentials() (*credential.Bundle, bool) {
	if s.bundle == nil {
		return nil, false
	}
	return s.bundle.Clone(), true
}

// Cause returns the error held by a Failure state, or nil.
//
// Cause does not mutate shared global state and can be used concurrently.
func (s State) Cause() error {
	return s.cause
}

func successState(bundle *credential.Bundle) State {
	return State{kind: StateSuccess, bundle: bundle}
}

func failureState(cause error) State {
	return State{kind: StateFailure, cause: cause}
}

func busyState(kind StateKind, carried *credential.Bundle) State {
	return State{kind: kind, bundle: carried}
}
