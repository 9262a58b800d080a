package goCredStore

import "time"

// SecurityReport summarizes the engine's credential-protection posture for
// operator dashboards and startup logging. It never contains secret material,
// only which protections are active.
type SecurityReport struct {
	EncryptionAtRest     bool
	Argon2               SealerConfigReport
	AutoMigrateLegacy    bool
	ExpiredTokenScreened bool
	TokenClockSkew       time.Duration
	OperationTimeout     time.Duration
	AuditEnabled         bool
	AuditLossless        bool
	MetricsEnabled       bool
}

// SealerConfigReport mirrors the argon2id parameters used for key derivation.
type SealerConfigReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
}

// SecurityReport describes the securityreport operation and its observable behavior.
//
// SecurityReport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	report := SecurityReport{
		EncryptionAtRest:     e.config.Keychain.EncryptionEnabled,
		AutoMigrateLegacy:    e.config.Migration.AutoMigrateLegacy,
		ExpiredTokenScreened: e.config.Tokens.RejectExpired,
		TokenClockSkew:       e.config.Tokens.ClockSkew,
		OperationTimeout:     e.config.Operation.Timeout,
		AuditEnabled:         e.config.Audit.Enabled,
		AuditLossless:        e.config.Audit.Enabled && !e.config.Audit.DropIfFull,
		MetricsEnabled:       e.config.Metrics.Enabled,
	}
	if e.config.Keychain.EncryptionEnabled {
		report.Argon2 = SealerConfigReport{
			Memory:      e.config.Keychain.ArgonMemory,
			Time:        e.config.Keychain.ArgonTime,
			Parallelism: e.config.Keychain.ArgonParallelism,
		}
	}
	return report
}
