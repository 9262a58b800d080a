package goCredStore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goCredStore/credential"
	gojwt "github.com/golang-jwt/jwt/v5"
)

func newTestEngine(t *testing.T, backend Backend, mutate func(*Config)) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := New().WithConfig(cfg).WithBackend(backend).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func signedAccessToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "test-subject",
		ExpiresAt: gojwt.NewNumericDate(expiresAt),
		IssuedAt:  gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestEngineLoadStoreClearCycle(t *testing.T) {
	engine := newTestEngine(t, &fakeBackend{
		storeFn: func(_ context.Context, bundle *credential.Bundle) (*credential.Bundle, error) {
			return bundle.Clone(), nil
		},
	}, nil)
	ctx := context.Background()

	if rej := engine.Load(ctx); rej != nil {
		t.Fatalf("load rejected: %v", rej)
	}
	if s, err := engine.WaitResting(ctx); err != nil || s.Kind() != StateSuccess {
		t.Fatalf("after load: %s, %v", s.Kind(), err)
	}

	rej, err := engine.Store(ctx, &credential.Bundle{IdentityID: strptr("id-9")})
	if err != nil || rej != nil {
		t.Fatalf("store: %v, %v", rej, err)
	}
	if s, _ := engine.WaitResting(ctx); s.Kind() != StateSuccess {
		t.Fatalf("after store: %s", s.Kind())
	}

	bundle, ok := engine.Credentials()
	if !ok || bundle.IdentityID == nil || *bundle.IdentityID != "id-9" {
		t.Fatal("stored credentials not visible")
	}

	rej, err = engine.Clear(ctx)
	if err != nil || rej != nil {
		t.Fatalf("clear: %v, %v", rej, err)
	}
	if s, _ := engine.WaitResting(ctx); s.Kind() != StateSuccess {
		t.Fatalf("after clear: %s", s.Kind())
	}
	if bundle, _ := engine.Credentials(); bundle != nil && !bundle.IsEmpty() {
		t.Fatal("credentials survived a full clear")
	}
}

func TestEngineStoreNilBundle(t *testing.T) {
	engine := newTestEngine(t, &fakeBackend{}, nil)

	if _, err := engine.Store(context.Background(), nil); !errors.Is(err, ErrNilCredentials) {
		t.Fatalf("expected ErrNilCredentials, got %v", err)
	}
}

func TestEngineClearUnknownKey(t *testing.T) {
	engine := newTestEngine(t, &fakeBackend{}, nil)

	_, err := engine.Clear(context.Background(), "sessionCookies")
	if !errors.Is(err, ErrUnknownClearKey) {
		t.Fatalf("expected ErrUnknownClearKey, got %v", err)
	}

	// Known keys pass validation even before the store is loaded; the
	// state machine answers with a rejection instead.
	rej, err := engine.Clear(context.Background(), credential.KeyUserPoolTokens)
	if err != nil {
		t.Fatalf("clear with valid key: %v", err)
	}
	if rej == nil || rej.Reason != ReasonNotConfigured {
		t.Fatalf("rejection = %v", rej)
	}
}

func TestEngineRejectsExpiredAccessToken(t *testing.T) {
	engine := newTestEngine(t, &fakeBackend{}, func(cfg *Config) {
		cfg.Tokens.RejectExpired = true
	})
	ctx := context.Background()

	engine.Load(ctx)
	engine.WaitResting(ctx)

	expired := &credential.Bundle{
		UserPool: &credential.UserPoolTokens{
			AccessToken: signedAccessToken(t, time.Now().Add(-time.Hour)),
		},
	}
	if _, err := engine.Store(ctx, expired); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricTokenExpiredRejected]; got != 1 {
		t.Errorf("token expired metric = %d, want 1", got)
	}

	live := &credential.Bundle{
		UserPool: &credential.UserPoolTokens{
			AccessToken: signedAccessToken(t, time.Now().Add(time.Hour)),
		},
	}
	rej, err := engine.Store(ctx, live)
	if err != nil || rej != nil {
		t.Fatalf("live token refused: %v, %v", rej, err)
	}
	engine.WaitResting(ctx)
}

func TestEngineExpiredScreeningOffByDefault(t *testing.T) {
	engine := newTestEngine(t, &fakeBackend{}, nil)
	ctx := context.Background()

	engine.Load(ctx)
	engine.WaitResting(ctx)

	expired := &credential.Bundle{
		UserPool: &credential.UserPoolTokens{
			AccessToken: signedAccessToken(t, time.Now().Add(-time.Hour)),
		},
	}
	rej, err := engine.Store(ctx, expired)
	if err != nil || rej != nil {
		t.Fatalf("default config screened an expired token: %v, %v", rej, err)
	}
	engine.WaitResting(ctx)
}

func TestEngineLastError(t *testing.T) {
	cause := errors.New("backend gone")
	engine := newTestEngine(t, &fakeBackend{
		loadFn: func(context.Context) (*credential.Bundle, error) { return nil, cause },
	}, nil)
	ctx := context.Background()

	engine.Load(ctx)
	if s, _ := engine.WaitResting(ctx); s.Kind() != StateFailure {
		t.Fatalf("state %s, want failure", s.Kind())
	}
	if !errors.Is(engine.LastError(), cause) {
		t.Fatalf("LastError = %v, want %v", engine.LastError(), cause)
	}
	if _, ok := engine.Credentials(); ok {
		t.Fatal("failure state exposed credentials")
	}
}

func TestEngineWatch(t *testing.T) {
	engine := newTestEngine(t, &fakeBackend{}, nil)
	ctx := context.Background()

	states, cancel := engine.Watch(8)
	defer cancel()

	engine.Load(ctx)
	engine.WaitResting(ctx)

	want := []StateKind{StateLoadingStoredCredentials, StateSuccess}
	for i, w := range want {
		select {
		case s := <-states:
			if s.Kind() != w {
				t.Fatalf("state %d: got %s, want %s", i, s.Kind(), w)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("missing state %d", i)
		}
	}
}

func TestEngineWaitRestingContextCancel(t *testing.T) {
	release := make(chan struct{})
	engine := newTestEngine(t, &fakeBackend{
		loadFn: func(context.Context) (*credential.Bundle, error) {
			<-release
			return &credential.Bundle{}, nil
		},
	}, nil)
	defer close(release)

	engine.Load(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if _, err := engine.WaitResting(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNilEngineIsInert(t *testing.T) {
	var engine *Engine

	engine.Close()
	if rej := engine.Submit(context.Background(), LoadCredentialStore{}); rej == nil {
		t.Fatal("nil engine accepted an event")
	}
	if s := engine.Current(); s.Kind() != StateNotConfigured {
		t.Fatalf("nil engine state %s", s.Kind())
	}
	if _, err := engine.Store(context.Background(), &credential.Bundle{}); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, err := engine.Clear(context.Background()); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithBackend(&fakeBackend{})
	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("second build succeeded")
	}
}

func TestBuilderRequiresBackendOrRedis(t *testing.T) {
	if _, err := New().Build(); !errors.Is(err, ErrBackendRequired) {
		t.Fatalf("expected ErrBackendRequired, got %v", err)
	}
}
