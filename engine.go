package goCredStore

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/goCredStore/credential"
	"github.com/MrEthical07/goCredStore/jwt"
)

// Engine defines a public type used by goCredStore APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config    Config
	machine   *machine
	audit     *auditDispatcher
	metrics   *Metrics
	inspector *jwt.Inspector
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.machine != nil {
		e.machine.Close()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Submit feeds one event through the state machine and returns the
// synchronous acceptance result. Most callers want [Engine.Load],
// [Engine.Store], or [Engine.Clear] instead; Submit is the raw entry point
// for terminal notifications and custom drivers.
//
// Submit does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Submit(ctx context.Context, ev Event) *Rejection {
	if e == nil || e.machine == nil {
		return &Rejection{Reason: ReasonNotConfigured}
	}
	return e.machine.Submit(ctx, ev)
}

// Load requests loading the persisted credentials. From NotConfigured it
// initializes the store; from Failure it is the one and only recovery path.
// When auto-migration is enabled and a legacy layout is detected, the load
// detours through a one-time migration before reaching Success.
//
// Load does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Load(ctx context.Context) *Rejection {
	return e.Submit(ctx, LoadCredentialStore{})
}

// Store requests persisting the given fields. Absent fields leave existing
// entries untouched. With Tokens.RejectExpired set, an already expired
// user-pool access token is refused here, before any event is submitted.
//
// Store may return an error when input validation, dependency calls, or security checks fail.
// Store does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Store(ctx context.Context, bundle *credential.Bundle) (*Rejection, error) {
	if e == nil || e.machine == nil {
		return nil, ErrEngineNotReady
	}
	if bundle == nil {
		return nil, ErrNilCredentials
	}

	if e.config.Tokens.RejectExpired && bundle.UserPool != nil && bundle.UserPool.AccessToken != "" {
		expired, err := e.inspector.Expired(bundle.UserPool.AccessToken, time.Now())
		if err != nil {
			return nil, fmt.Errorf("inspect access token: %w", err)
		}
		if expired {
			e.metrics.Inc(MetricTokenExpiredRejected)
			return nil, ErrTokenExpired
		}
	}

	return e.machine.Submit(ctx, StoreCredentials{Credentials: bundle.Clone()}), nil
}

// Clear requests deleting stored entries. No keys means "all". Unknown key
// names are refused before any event is submitted.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Clear(ctx context.Context, keys ...string) (*Rejection, error) {
	if e == nil || e.machine == nil {
		return nil, ErrEngineNotReady
	}
	for _, key := range keys {
		if !credential.ValidKey(key) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownClearKey, key)
		}
	}

	cleared := make([]string, len(keys))
	copy(cleared, keys)
	return e.machine.Submit(ctx, ClearCredentials{Keys: cleared}), nil
}

// Current returns the current state snapshot. The last resting state is the
// canonical answer to "what are the stored credentials / what went wrong".
//
// Current does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Current() State {
	if e == nil || e.machine == nil {
		return InitialState()
	}
	return e.machine.Current()
}

// Credentials returns a deep copy of the Success state's bundle. The second
// return is false whenever the store is not resting in Success.
//
// Credentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Credentials() (*credential.Bundle, bool) {
	s := e.Current()
	if s.Kind() != StateSuccess {
		return nil, false
	}
	return s.Credentials()
}

// LastError returns the cause held by a Failure state, or nil.
//
// LastError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) LastError() error {
	s := e.Current()
	if s.Kind() != StateFailure {
		return nil
	}
	return s.Cause()
}

// Watch subscribes to state installations in order. The returned cancel
// function releases the subscription; after [Engine.Close] the channel is
// closed. A subscriber that falls behind its buffer misses states (counted
// by [Engine.WatchDropped]) rather than blocking the dispatcher.
//
// Watch does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Watch(buffer int) (<-chan State, func()) {
	if e == nil || e.machine == nil {
		ch := make(chan State)
		close(ch)
		return ch, func() {}
	}
	return e.machine.watchers.subscribe(buffer)
}

// WatchDropped describes the watchdropped operation and its observable behavior.
//
// WatchDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) WatchDropped() uint64 {
	if e == nil || e.machine == nil {
		return 0
	}
	return e.machine.watchers.droppedCount()
}

// WaitResting blocks until the store rests in a non-busy state and returns
// it. It returns immediately when the current state is already resting.
//
// WaitResting may return an error when input validation, dependency calls, or security checks fail.
// WaitResting does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) WaitResting(ctx context.Context) (State, error) {
	if e == nil || e.machine == nil {
		return InitialState(), ErrEngineNotReady
	}

	states, cancel := e.Watch(16)
	defer cancel()

	if s := e.Current(); !s.Kind().Busy() {
		return s, nil
	}

	for {
		select {
		case s, ok := <-states:
			if !ok {
				return e.Current(), ErrEngineClosed
			}
			if !s.Kind().Busy() {
				return s, nil
			}
		case <-ctx.Done():
			return e.Current(), ctx.Err()
		}
	}
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}
