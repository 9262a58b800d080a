package goCredStore

import (
	"errors"

	"github.com/MrEthical07/goCredStore/jwt"
	"github.com/MrEthical07/goCredStore/keychain"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goCredStore APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	backend   Backend
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the redis client backing the built-in keychain. It is
// ignored when a custom backend is supplied via [Builder.WithBackend].
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithBackend replaces the built-in keychain with a custom storage backend.
//
// WithBackend does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBackend(backend Backend) *Builder {
	b.backend = backend
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend := b.backend
	if backend == nil {
		if b.redis == nil {
			return nil, ErrBackendRequired
		}

		// -------- KEYCHAIN BACKEND --------
		kc, err := keychain.NewStore(b.redis, keychain.Config{
			Prefix:           cfg.Keychain.RedisPrefix,
			Passphrase:       encryptionPassphrase(cfg.Keychain),
			ArgonMemory:      cfg.Keychain.ArgonMemory,
			ArgonTime:        cfg.Keychain.ArgonTime,
			ArgonParallelism: cfg.Keychain.ArgonParallelism,
		})
		if err != nil {
			return nil, err
		}
		backend = kc
	}

	engine := &Engine{
		config: cloneConfig(cfg),
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)
	engine.inspector = jwt.NewInspector(cfg.Tokens.ClockSkew)
	engine.machine = newMachine(cfg, backend, engine.audit, engine.metrics)

	b.built = true

	return engine, nil
}

func encryptionPassphrase(cfg KeychainConfig) string {
	if !cfg.EncryptionEnabled {
		return ""
	}
	return cfg.EncryptionPassphrase
}
