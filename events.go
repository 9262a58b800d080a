package goCredStore

import "github.com/MrEthical07/goCredStore/credential"

// EventKind is the discriminant of the credential store event union.
//
// EventKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventKind uint8

const (
	// EventLoadCredentialStore is an exported constant or variable used by the credential store.
	EventLoadCredentialStore EventKind = iota
	// EventMigrateLegacyCredentialStore is an exported constant or variable used by the credential store.
	EventMigrateLegacyCredentialStore
	// EventStoreCredentials is an exported constant or variable used by the credential store.
	EventStoreCredentials
	// EventClearCredentials is an exported constant or variable used by the credential store.
	EventClearCredentials
	// EventSucceeded is an exported constant or variable used by the credential store.
	EventSucceeded
	// EventFailed is an exported constant or variable used by the credential store.
	EventFailed
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently.
func (k EventKind) String() string {
	switch k {
	case EventLoadCredentialStore:
		return "loadCredentialStore"
	case EventMigrateLegacyCredentialStore:
		return "migrateLegacyCredentialStore"
	case EventStoreCredentials:
		return "storeCredentials"
	case EventClearCredentials:
		return "clearCredentials"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Rejection reasons returned by precondition checks. The three mutating-event
// reasons are deliberately distinct so a caller can tell "never loaded" apart
// from "load again" apart from "try later".
const (
	// ReasonAlreadyConfigured is an exported constant or variable used by the credential store.
	ReasonAlreadyConfigured = "credential store already configured"
	// ReasonNotConfigured is an exported constant or variable used by the credential store.
	ReasonNotConfigured = "credential store is not configured"
	// ReasonHasError is an exported constant or variable used by the credential store.
	ReasonHasError = "credential store has an error, reload the store"
	// ReasonBusy is an exported constant or variable used by the credential store.
	ReasonBusy = "credential store is busy with another operation"
	// ReasonCannotMigrate is an exported constant or variable used by the credential store.
	ReasonCannotMigrate = "credential store cannot be migrated in current state"
)

// Event is an immutable description of an intent to act on the credential
// store or a terminal outcome notification. CheckPrecondition is pure: it
// reports why the event may not be applied to the given state, or "" when the
// event is legal. It never inspects anything but the state's Kind.
type Event interface {
	Kind() EventKind
	CheckPrecondition(current State) string
}

// LoadCredentialStore requests loading the persisted credentials. Legal from
// NotConfigured and Failure; Failure recovery goes through this event and
// nothing else.
type LoadCredentialStore struct{}

// Kind describes the kind operation and its observable behavior.
func (LoadCredentialStore) Kind() EventKind { return EventLoadCredentialStore }

// CheckPrecondition describes the checkprecondition operation and its observable behavior.
//
// CheckPrecondition does not mutate shared global state and can be used concurrently.
func (LoadCredentialStore) CheckPrecondition(current State) string {
	switch current.Kind() {
	case StateNotConfigured, StateFailure:
		return ""
	default:
		return ReasonAlreadyConfigured
	}
}

// MigrateLegacyCredentialStore requests a one-time migration of a legacy
// on-disk/keychain layout. Only legal while the store is loading: migration is
// a detour of the load path, never a standalone operation.
type MigrateLegacyCredentialStore struct{}

// Kind describes the kind operation and its observable behavior.
func (MigrateLegacyCredentialStore) Kind() EventKind { return EventMigrateLegacyCredentialStore }

// CheckPrecondition describes the checkprecondition operation and its observable behavior.
//
// CheckPrecondition does not mutate shared global state and can be used concurrently.
func (MigrateLegacyCredentialStore) CheckPrecondition(current State) string {
	if current.Kind() == StateLoadingStoredCredentials {
		return ""
	}
	return ReasonCannotMigrate
}

// StoreCredentials requests persisting the given fields. Absent fields leave
// the corresponding backend entries untouched.
type StoreCredentials struct {
	Credentials *credential.Bundle
}

// Kind describes the kind operation and its observable behavior.
func (StoreCredentials) Kind() EventKind { return EventStoreCredentials }

// CheckPrecondition describes the checkprecondition operation and its observable behavior.
//
// CheckPrecondition does not mutate shared global state and can be used concurrently.
func (StoreCredentials) CheckPrecondition(current State) string {
	return mutatingPrecondition(current)
}

// ClearCredentials requests deleting stored entries. An empty key list means
// "all entries".
type ClearCredentials struct {
	Keys []string
}

// Kind describes the kind operation and its observable behavior.
func (ClearCredentials) Kind() EventKind { return EventClearCredentials }

// CheckPrecondition describes the checkprecondition operation and its observable behavior.
//
// CheckPrecondition does not mutate shared global state and can be used concurrently.
func (ClearCredentials) CheckPrecondition(current State) string {
	return mutatingPrecondition(current)
}

// Succeeded signals successful completion of the in-flight backend operation
// and carries the resulting credential snapshot.
type Succeeded struct {
	Credentials *credential.Bundle
}

// Kind describes the kind operation and its observable behavior.
func (Succeeded) Kind() EventKind { return EventSucceeded }

// CheckPrecondition describes the checkprecondition operation and its observable behavior.
//
// CheckPrecondition does not mutate shared global state and can be used concurrently.
func (Succeeded) CheckPrecondition(current State) string {
	if current.Kind() == StateNotConfigured {
		return ReasonNotConfigured
	}
	return ""
}

// Failed signals that the in-flight backend operation failed. It is never
// rejected: a failure must always be recordable, from any state.
type Failed struct {
	Cause error
}

// Kind describes the kind operation and its observable behavior.
func (Failed) Kind() EventKind { return EventFailed }

// CheckPrecondition describes the checkprecondition operation and its observable behavior.
//
// CheckPrecondition does not mutate shared global state and can be used concurrently.
func (Failed) CheckPrecondition(State) string {
	return ""
}

// mutatingPrecondition is the shared three-way legality check for
// StoreCredentials and ClearCredentials: only a Success state may accept a
// mutating request.
func mutatingPrecondition(current State) string {
	switch current.Kind() {
	case StateSuccess:
		return ""
	case StateNotConfigured:
		return ReasonNotConfigured
	case StateFailure:
		return ReasonHasError
	default:
		return ReasonBusy
	}
}
