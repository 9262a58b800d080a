package goCredStore

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of a config preset file. Durations are strings
// in time.ParseDuration syntax. Absent sections keep the DefaultConfig value.
type fileConfig struct {
	Keychain struct {
		RedisPrefix          *string `yaml:"redis_prefix"`
		EncryptionEnabled    *bool   `yaml:"encryption_enabled"`
		EncryptionPassphrase *string `yaml:"encryption_passphrase"`
		ArgonMemory          *uint32 `yaml:"argon_memory_kb"`
		ArgonTime            *uint32 `yaml:"argon_time"`
		ArgonParallelism     *uint8  `yaml:"argon_parallelism"`
	} `yaml:"keychain"`
	Migration struct {
		AutoMigrateLegacy *bool `yaml:"auto_migrate_legacy"`
	} `yaml:"migration"`
	Tokens struct {
		RejectExpired *bool   `yaml:"reject_expired"`
		ClockSkew     *string `yaml:"clock_skew"`
	} `yaml:"tokens"`
	Operation struct {
		Timeout *string `yaml:"timeout"`
	} `yaml:"operation"`
	Audit struct {
		Enabled    *bool `yaml:"enabled"`
		BufferSize *int  `yaml:"buffer_size"`
		DropIfFull *bool `yaml:"drop_if_full"`
	} `yaml:"audit"`
	Metrics struct {
		Enabled                 *bool `yaml:"enabled"`
		EnableLatencyHistograms *bool `yaml:"enable_latency_histograms"`
	} `yaml:"metrics"`
}

// LoadConfigFile reads a YAML preset file and overlays it onto
// [DefaultConfig]. The result is validated before it is returned.
//
// LoadConfigFile may return an error when input validation, dependency calls, or security checks fail.
// LoadConfigFile does not mutate shared global state and can be used concurrently.
func LoadConfigFile(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig overlays YAML bytes onto [DefaultConfig] and validates the
// result.
//
// ParseConfig may return an error when input validation, dependency calls, or security checks fail.
// ParseConfig does not mutate shared global state and can be used concurrently.
func ParseConfig(data []byte) (Config, error) {
	cfg := defaultConfig()

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if fc.Keychain.RedisPrefix != nil {
		cfg.Keychain.RedisPrefix = *fc.Keychain.RedisPrefix
	}
	if fc.Keychain.EncryptionEnabled != nil {
		cfg.Keychain.EncryptionEnabled = *fc.Keychain.EncryptionEnabled
	}
	if fc.Keychain.EncryptionPassphrase != nil {
		cfg.Keychain.EncryptionPassphrase = *fc.Keychain.EncryptionPassphrase
	}
	if fc.Keychain.ArgonMemory != nil {
		cfg.Keychain.ArgonMemory = *fc.Keychain.ArgonMemory
	}
	if fc.Keychain.ArgonTime != nil {
		cfg.Keychain.ArgonTime = *fc.Keychain.ArgonTime
	}
	if fc.Keychain.ArgonParallelism != nil {
		cfg.Keychain.ArgonParallelism = *fc.Keychain.ArgonParallelism
	}

	if fc.Migration.AutoMigrateLegacy != nil {
		cfg.Migration.AutoMigrateLegacy = *fc.Migration.AutoMigrateLegacy
	}

	if fc.Tokens.RejectExpired != nil {
		cfg.Tokens.RejectExpired = *fc.Tokens.RejectExpired
	}
	if fc.Tokens.ClockSkew != nil {
		d, err := time.ParseDuration(*fc.Tokens.ClockSkew)
		if err != nil {
			return cfg, fmt.Errorf("parse tokens.clock_skew: %w", err)
		}
		cfg.Tokens.ClockSkew = d
	}

	if fc.Operation.Timeout != nil {
		d, err := time.ParseDuration(*fc.Operation.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("parse operation.timeout: %w", err)
		}
		cfg.Operation.Timeout = d
	}

	if fc.Audit.Enabled != nil {
		cfg.Audit.Enabled = *fc.Audit.Enabled
	}
	if fc.Audit.BufferSize != nil {
		cfg.Audit.BufferSize = *fc.Audit.BufferSize
	}
	if fc.Audit.DropIfFull != nil {
		cfg.Audit.DropIfFull = *fc.Audit.DropIfFull
	}

	if fc.Metrics.Enabled != nil {
		cfg.Metrics.Enabled = *fc.Metrics.Enabled
	}
	if fc.Metrics.EnableLatencyHistograms != nil {
		cfg.Metrics.EnableLatencyHistograms = *fc.Metrics.EnableLatencyHistograms
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
