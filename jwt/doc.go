// Package jwt inspects stored user-pool tokens without verifying signatures.
// The credential store is a custodian of tokens issued elsewhere: it never
// holds verification keys, so it extracts registered claims (expiry, subject,
// issuer) for screening and audit purposes only and must never be used to
// make an authentication decision.
package jwt
