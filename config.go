package goCredStore

import (
	"errors"
	"time"
)

// Config defines a public type used by goCredStore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Keychain  KeychainConfig
	Migration MigrationConfig
	Tokens    TokensConfig
	Operation OperationConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
KEYCHAIN CONFIG
====================================
*/

// KeychainConfig defines a public type used by goCredStore APIs.
//
// KeychainConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type KeychainConfig struct {
	RedisPrefix string

	// At-rest encryption of keychain blobs. When Passphrase is set, every
	// entry is sealed with AES-256-GCM under an argon2id-derived key.
	EncryptionEnabled    bool
	EncryptionPassphrase string
	ArgonMemory          uint32 // in KB
	ArgonTime            uint32
	ArgonParallelism     uint8
}

/*
====================================
MIGRATION CONFIG
====================================
*/

// MigrationConfig defines a public type used by goCredStore APIs.
//
// MigrationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MigrationConfig struct {
	// AutoMigrateLegacy makes Load detect a legacy keychain layout and fold
	// a one-time migration into the load path. When false a detected legacy
	// layout is ignored and Load reads the current layout only.
	AutoMigrateLegacy bool
}

/*
====================================
TOKENS CONFIG
====================================
*/

// TokensConfig defines a public type used by goCredStore APIs.
//
// TokensConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokensConfig struct {
	// RejectExpired screens user-pool access tokens at the engine boundary:
	// a Store call carrying an access token that is already expired is
	// refused before any event is submitted.
	RejectExpired bool
	ClockSkew     time.Duration
}

/*
====================================
OPERATION CONFIG
====================================
*/

// OperationConfig defines a public type used by goCredStore APIs.
//
// OperationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OperationConfig struct {
	// Timeout bounds each backend call. The busy state is exited by the
	// resulting Failed event when the deadline passes; zero means no bound.
	Timeout time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goCredStore APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goCredStore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Keychain: KeychainConfig{
			RedisPrefix:      "cs",
			ArgonMemory:      65536,
			ArgonTime:        3,
			ArgonParallelism: 2,
		},
		Migration: MigrationConfig{
			AutoMigrateLegacy: true,
		},
		Tokens: TokensConfig{
			RejectExpired: false,
			ClockSkew:     30 * time.Second,
		},
		Operation: OperationConfig{
			Timeout: 10 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the baseline preset: plaintext keychain blobs,
// auto-migration on, audit off.
//
// DefaultConfig does not mutate shared global state and can be used concurrently.
func DefaultConfig() Config {
	return defaultConfig()
}

// HardenedConfig returns the strict preset: at-rest encryption required,
// expired-token screening on, audit on with a lossless buffer.
//
// HardenedConfig does not mutate shared global state and can be used concurrently.
func HardenedConfig() Config {
	cfg := defaultConfig()
	cfg.Keychain.EncryptionEnabled = true
	cfg.Tokens.RejectExpired = true
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a full copy.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Keychain
	if c.Keychain.RedisPrefix == "" {
		return errors.New("Keychain RedisPrefix is required")
	}
	if c.Keychain.EncryptionEnabled {
		if c.Keychain.EncryptionPassphrase == "" {
			return errors.New("Keychain EncryptionPassphrase is required when encryption is enabled")
		}
		if c.Keychain.ArgonMemory < 8*1024 {
			return errors.New("Keychain ArgonMemory must be >= 8192 KB")
		}
		if c.Keychain.ArgonTime < 1 {
			return errors.New("Keychain ArgonTime must be >= 1")
		}
		if c.Keychain.ArgonParallelism < 1 {
			return errors.New("Keychain ArgonParallelism must be >= 1")
		}
	}

	// Tokens
	if c.Tokens.ClockSkew < 0 {
		return errors.New("Tokens ClockSkew must be >= 0")
	}

	// Operation
	if c.Operation.Timeout < 0 {
		return errors.New("Operation Timeout must be >= 0")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}
