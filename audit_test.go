package goCredStore

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goCredStore/credential"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func buildAuditTestEngine(t *testing.T, cfg Config, sink AuditSink, backend Backend) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithBackend(backend).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = false

	sink := &countingSink{}
	engine := buildAuditTestEngine(t, cfg, sink, &fakeBackend{})

	engine.Load(context.Background())
	engine.WaitResting(context.Background())
	time.Sleep(30 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditEnabledSinkReceivesTransitions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16
	cfg.Audit.DropIfFull = false

	sink := NewChannelSink(16)
	engine := buildAuditTestEngine(t, cfg, sink, &fakeBackend{})
	ctx := context.Background()

	engine.Load(ctx)
	engine.WaitResting(ctx)

	// Accepted load, then its terminal Succeeded.
	first := receiveAuditEvent(t, sink)
	if !first.Accepted {
		t.Fatalf("first event not accepted: %+v", first)
	}
	if first.EventType != "loadCredentialStore" {
		t.Fatalf("event type %q", first.EventType)
	}
	if first.FromState != "notConfigured" || first.ToState != "loadingStoredCredentials" {
		t.Fatalf("transition %s -> %s", first.FromState, first.ToState)
	}
	if first.ID == "" {
		t.Fatal("event id not populated")
	}

	second := receiveAuditEvent(t, sink)
	if second.EventType != "succeeded" || second.ToState != "success" {
		t.Fatalf("second event %+v", second)
	}
}

func TestAuditRejectionRecorded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16
	cfg.Audit.DropIfFull = false

	sink := NewChannelSink(16)
	engine := buildAuditTestEngine(t, cfg, sink, &fakeBackend{})

	if rej, _ := engine.Store(context.Background(), &credential.Bundle{}); rej == nil {
		t.Fatal("store from notConfigured accepted")
	}

	ev := receiveAuditEvent(t, sink)
	if ev.Accepted {
		t.Fatalf("rejection recorded as accepted: %+v", ev)
	}
	if ev.Rejection != ReasonNotConfigured {
		t.Fatalf("rejection %q", ev.Rejection)
	}
	if ev.ToState != "" {
		t.Fatalf("rejection carries a to-state: %q", ev.ToState)
	}
}

func TestAuditCallerMetadata(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16
	cfg.Audit.DropIfFull = false

	sink := NewChannelSink(16)
	engine := buildAuditTestEngine(t, cfg, sink, &fakeBackend{})

	engine.Load(WithCaller(context.Background(), "cli"))
	engine.WaitResting(context.Background())

	ev := receiveAuditEvent(t, sink)
	if ev.Metadata["caller"] != "cli" {
		t.Fatalf("caller metadata = %q", ev.Metadata["caller"])
	}
}

func TestAuditNoSecretsInEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 32
	cfg.Audit.DropIfFull = false

	sink := NewChannelSink(32)
	engine := buildAuditTestEngine(t, cfg, sink, &fakeBackend{})
	ctx := context.Background()

	engine.Load(ctx)
	engine.WaitResting(ctx)

	secretNeedles := []string{
		"AKIA-SECRET-KEY-ID",
		"very-secret-access-key",
		"session-token-value",
		"refresh-token-value",
		"device-secret-value",
	}
	engine.Store(ctx, &credential.Bundle{
		AWS: &credential.AWSCredentials{
			AccessKeyID:     secretNeedles[0],
			SecretAccessKey: secretNeedles[1],
			SessionToken:    secretNeedles[2],
		},
		UserPool: &credential.UserPoolTokens{RefreshToken: secretNeedles[3]},
		Device:   &credential.DeviceSecrets{DeviceSecret: secretNeedles[4]},
	})
	engine.WaitResting(ctx)

	events := make([]AuditEvent, 0, 8)
	timeout := time.After(2 * time.Second)
collectLoop:
	for len(events) < 4 {
		select {
		case ev := <-sink.Events():
			events = append(events, ev)
		case <-timeout:
			break collectLoop
		}
	}

	if len(events) == 0 {
		t.Fatal("expected at least one audit event")
	}

	for _, ev := range events {
		for _, needle := range secretNeedles {
			if strings.Contains(ev.Error, needle) || strings.Contains(ev.Rejection, needle) {
				t.Fatalf("sensitive value leaked in audit event: %q", needle)
			}
			for k, v := range ev.Metadata {
				if strings.Contains(k, needle) || strings.Contains(v, needle) {
					t.Fatalf("sensitive value leaked in audit metadata: %q", needle)
				}
			}
		}
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	start := time.Now()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestAuditBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	done := make(chan struct{})
	go func() {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	sink.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed after space is available")
	}
}

func TestAuditJSONWriterSinkWritesJSONLines(t *testing.T) {
	var buf syncBuffer
	sink := NewJSONWriterSink(&buf)
	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		ID:        "evt-1",
		EventType: "storeCredentials",
		FromState: "success",
		ToState:   "storingCredentials",
		Accepted:  true,
	}
	sink.Emit(context.Background(), event)

	if !buf.Contains("storeCredentials") {
		t.Fatal("expected JSON log line to contain event type")
	}
	if !buf.Contains("\"from_state\":\"success\"") {
		t.Fatal("expected JSON log line to contain from state")
	}
}

func TestAuditDispatcherCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, &countingSink{})

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Close()
	dispatcher.Close()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})
}

func receiveAuditEvent(t *testing.T, sink *ChannelSink) AuditEvent {
	t.Helper()
	select {
	case ev := <-sink.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("expected audit event to be received")
		return AuditEvent{}
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) Contains(v string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Contains(string(b.buf), v)
}
