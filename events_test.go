package goCredStore

import (
	"errors"
	"testing"

	"github.com/MrEthical07/goCredStore/credential"
)

func stateOfKind(kind StateKind) State {
	switch kind {
	case StateSuccess:
		return successState(&credential.Bundle{})
	case StateFailure:
		return failureState(errors.New("boom"))
	case StateNotConfigured:
		return InitialState()
	default:
		return busyState(kind, nil)
	}
}

func allStateKinds() []StateKind {
	kinds := make([]StateKind, 0, int(stateKindCount))
	for k := StateKind(0); k < stateKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// TestPreconditionTable pins the full legality table: every event against
// every state, with the exact rejection reason.
func TestPreconditionTable(t *testing.T) {
	busyReason := func(kind StateKind) string {
		if kind.Busy() {
			return ReasonBusy
		}
		return ""
	}

	cases := []struct {
		event Event
		want  func(StateKind) string
	}{
		{LoadCredentialStore{}, func(kind StateKind) string {
			if kind == StateNotConfigured || kind == StateFailure {
				return ""
			}
			return ReasonAlreadyConfigured
		}},
		{MigrateLegacyCredentialStore{}, func(kind StateKind) string {
			if kind == StateLoadingStoredCredentials {
				return ""
			}
			return ReasonCannotMigrate
		}},
		{StoreCredentials{}, func(kind StateKind) string {
			switch kind {
			case StateSuccess:
				return ""
			case StateNotConfigured:
				return ReasonNotConfigured
			case StateFailure:
				return ReasonHasError
			}
			return busyReason(kind)
		}},
		{ClearCredentials{}, func(kind StateKind) string {
			switch kind {
			case StateSuccess:
				return ""
			case StateNotConfigured:
				return ReasonNotConfigured
			case StateFailure:
				return ReasonHasError
			}
			return busyReason(kind)
		}},
		{Succeeded{}, func(kind StateKind) string {
			if kind == StateNotConfigured {
				return ReasonNotConfigured
			}
			return ""
		}},
		{Failed{}, func(StateKind) string { return "" }},
	}

	for _, tc := range cases {
		for _, kind := range allStateKinds() {
			got := tc.event.CheckPrecondition(stateOfKind(kind))
			want := tc.want(kind)
			if got != want {
				t.Errorf("%s in %s: got %q, want %q", tc.event.Kind(), kind, got, want)
			}
		}
	}
}

func TestFailedNeverRejected(t *testing.T) {
	for _, kind := range allStateKinds() {
		if reason := (Failed{Cause: errors.New("io")}).CheckPrecondition(stateOfKind(kind)); reason != "" {
			t.Errorf("Failed rejected in %s: %q", kind, reason)
		}
	}
}

func TestEventKindStrings(t *testing.T) {
	want := map[EventKind]string{
		EventLoadCredentialStore:          "loadCredentialStore",
		EventMigrateLegacyCredentialStore: "migrateLegacyCredentialStore",
		EventStoreCredentials:             "storeCredentials",
		EventClearCredentials:             "clearCredentials",
		EventSucceeded:                    "succeeded",
		EventFailed:                       "failed",
	}
	for kind, s := range want {
		if kind.String() != s {
			t.Errorf("%d.String() = %q, want %q", kind, kind.String(), s)
		}
	}
	if EventKind(250).String() != "unknown" {
		t.Error("out-of-range EventKind should stringify as unknown")
	}
}

func TestStateKindBusy(t *testing.T) {
	busy := map[StateKind]bool{
		StateNotConfigured:                  false,
		StateLoadingStoredCredentials:       true,
		StateMigratingLegacyCredentialStore: true,
		StateStoringCredentials:             true,
		StateClearingCredentials:            true,
		StateSuccess:                        false,
		StateFailure:                        false,
	}
	for kind, want := range busy {
		if kind.Busy() != want {
			t.Errorf("%s.Busy() = %v, want %v", kind, kind.Busy(), want)
		}
	}
}
