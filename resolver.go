package goCredStore

import "github.com/MrEthical07/goCredStore/credential"

// resolve maps an accepted (state, event) pair to the next state. It is pure
// and total over the pairs the precondition table admits; callers must run
// Event.CheckPrecondition first. Payload contents are copied into the next
// state, never interpreted.
//
// Merge rule for Succeeded:
//   - from StoringCredentials: fields present on the event overwrite, absent
//     fields retain the bundle carried from the prior Success state;
//   - from ClearingCredentials: the event snapshot replaces outright — the
//     backend reports what remains after the clear, and an empty snapshot
//     means everything is gone;
//   - from the load/migrate states: the event snapshot is taken as-is
//     (first-time success, nothing to retain).
func resolve(current State, ev Event) State {
	switch e := ev.(type) {
	case LoadCredentialStore:
		return busyState(StateLoadingStoredCredentials, nil)
	case MigrateLegacyCredentialStore:
		return busyState(StateMigratingLegacyCredentialStore, current.bundle)
	case StoreCredentials:
		return busyState(StateStoringCredentials, current.bundle)
	case ClearCredentials:
		return busyState(StateClearingCredentials, current.bundle)
	case Succeeded:
		return successState(mergeSucceeded(current, e.Credentials))
	case Failed:
		return failureState(e.Cause)
	default:
		// Unreachable for the defined event union; kept so a future event
		// variant fails loudly in tests instead of silently resolving.
		return failureState(errUnknownEvent)
	}
}

func mergeSucceeded(current State, incoming *credential.Bundle) *credential.Bundle {
	switch current.Kind() {
	case StateStoringCredentials:
		return current.bundle.Merge(incoming)
	default:
		return incoming.Clone()
	}
}
