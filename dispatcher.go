package goCredStore

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/MrEthical07/goCredStore/credential"
	"github.com/google/uuid"
)

// errMigrationHandoff marks a load operation that handed completion over to a
// migration operation; the load goroutine must not submit a terminal event.
var errMigrationHandoff = errors.New("handed off to legacy migration")

// machine is the sequential driver of the credential store state machine. It
// exclusively owns the current State: precondition check, resolution, and
// installation run as one atomic unit under mu, so concurrently submitted
// events serialize and can never produce a lost update or a torn state.
//
// The machine never blocks on the storage backend. An accepted request event
// installs a busy state and starts the backend call on its own goroutine; the
// call's outcome re-enters Submit as a Succeeded or Failed event. Backend
// errors are always funneled into Failed, so every busy state is eventually
// exited to Success or Failure.
type machine struct {
	backend     Backend
	audit       *auditDispatcher
	metrics     *Metrics
	watchers    *stateNotifier
	autoMigrate bool
	opTimeout   time.Duration

	mu      sync.Mutex
	current State

	ops       sync.WaitGroup
	closeOnce sync.Once
}

func newMachine(cfg Config, backend Backend, audit *auditDispatcher, metrics *Metrics) *machine {
	return &machine{
		backend:     backend,
		audit:       audit,
		metrics:     metrics,
		watchers:    newStateNotifier(),
		autoMigrate: cfg.Migration.AutoMigrateLegacy,
		opTimeout:   cfg.Operation.Timeout,
		current:     InitialState(),
	}
}

// Submit validates the event against the current state, installs the resolved
// next state, and — for request events — starts the matching backend
// operation. A non-nil return means the event was rejected and the state is
// untouched; resubmitting the same event from the same state yields the same
// rejection.
func (m *machine) Submit(ctx context.Context, ev Event) *Rejection {
	if m == nil || ev == nil {
		return &Rejection{Reason: ReasonNotConfigured}
	}

	m.mu.Lock()
	current := m.current

	if reason := ev.CheckPrecondition(current); reason != "" {
		m.mu.Unlock()
		m.metrics.Inc(rejectionMetric(reason))
		m.audit.Emit(ctx, AuditEvent{
			Timestamp: time.Now().UTC(),
			ID:        uuid.NewString(),
			EventType: ev.Kind().String(),
			FromState: current.Kind().String(),
			Accepted:  false,
			Rejection: reason,
			Metadata:  auditMetadata(ctx),
		})
		return &Rejection{Event: ev.Kind(), State: current.Kind(), Reason: reason}
	}

	next := resolve(current, ev)
	m.current = next
	// Publish under mu so watchers observe states in installation order.
	m.watchers.publish(next)
	m.mu.Unlock()

	m.metrics.Inc(acceptMetric(ev))

	audit := AuditEvent{
		Timestamp: time.Now().UTC(),
		ID:        uuid.NewString(),
		EventType: ev.Kind().String(),
		FromState: current.Kind().String(),
		ToState:   next.Kind().String(),
		Accepted:  true,
		Metadata:  auditMetadata(ctx),
	}
	if failed, ok := ev.(Failed); ok && failed.Cause != nil {
		audit.Error = failed.Cause.Error()
	}
	m.audit.Emit(ctx, audit)

	if next.Kind().Busy() {
		m.startOperation(ev)
	}
	return nil
}

// Current returns the current state snapshot.
func (m *machine) Current() State {
	if m == nil {
		return InitialState()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close waits for any in-flight backend operation to deliver its terminal
// event, then tears down the watcher channels. Submit after Close still
// works; only watchers stop receiving.
func (m *machine) Close() {
	if m == nil {
		return
	}
	m.closeOnce.Do(func() {
		m.ops.Wait()
		m.watchers.close()
	})
}

func (m *machine) startOperation(ev Event) {
	m.ops.Add(1)
	go func() {
		defer m.ops.Done()

		ctx := context.Background()
		cancel := func() {}
		if m.opTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, m.opTimeout)
		}
		defer cancel()

		started := time.Now()
		bundle, err := m.runBackend(ctx, ev)
		m.metrics.Observe(MetricBackendLatency, time.Since(started))

		if errors.Is(err, errMigrationHandoff) {
			return
		}
		if err != nil {
			m.Submit(context.Background(), Failed{Cause: err})
			return
		}
		m.Submit(context.Background(), Succeeded{Credentials: bundle})
	}()
}

func (m *machine) runBackend(ctx context.Context, ev Event) (*credential.Bundle, error) {
	switch e := ev.(type) {
	case LoadCredentialStore:
		if m.autoMigrate {
			legacy, err := m.backend.DetectLegacy(ctx)
			if err != nil {
				return nil, err
			}
			if legacy {
				// Migration is a detour of the load path; it is legal only
				// from the loading state this goroutine owns right now.
				if rej := m.Submit(ctx, MigrateLegacyCredentialStore{}); rej != nil {
					log.Print("goCredStore: legacy migration event rejected")
					return nil, errors.New(rej.Reason)
				}
				return nil, errMigrationHandoff
			}
		}
		return m.backend.Load(ctx)
	case MigrateLegacyCredentialStore:
		return m.backend.MigrateLegacy(ctx)
	case StoreCredentials:
		return m.backend.Store(ctx, e.Credentials)
	case ClearCredentials:
		return m.backend.Clear(ctx, e.Keys)
	default:
		return nil, errUnknownEvent
	}
}

func auditMetadata(ctx context.Context) map[string]string {
	caller := callerFromContext(ctx)
	if caller == "" {
		return nil
	}
	return map[string]string{"caller": caller}
}

func acceptMetric(ev Event) MetricID {
	switch ev.Kind() {
	case EventLoadCredentialStore:
		return MetricLoadAccepted
	case EventMigrateLegacyCredentialStore:
		return MetricMigrationStarted
	case EventStoreCredentials:
		return MetricStoreAccepted
	case EventClearCredentials:
		return MetricClearAccepted
	case EventSucceeded:
		return MetricOperationSucceeded
	case EventFailed:
		return MetricOperationFailed
	default:
		return metricIDCount
	}
}
