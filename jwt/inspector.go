package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is an exported constant or variable used by the credential store.
var ErrMalformedToken = errors.New("malformed token")

// TokenInfo carries the registered claims extracted from a token. Zero
// ExpiresAt means the token carries no exp claim.
//
// TokenInfo instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenInfo struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Inspector defines a public type used by goCredStore APIs.
//
// Inspector instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Inspector struct {
	leeway time.Duration
	parser *jwt.Parser
}

// NewInspector creates an inspector that treats tokens as live for leeway
// past their exp claim.
//
// NewInspector does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewInspector(leeway time.Duration) *Inspector {
	if leeway < 0 {
		leeway = 0
	}
	return &Inspector{
		leeway: leeway,
		parser: jwt.NewParser(),
	}
}

// Inspect extracts registered claims without verifying the signature.
//
// Inspect may return an error when input validation, dependency calls, or security checks fail.
// Inspect does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (i *Inspector) Inspect(token string) (TokenInfo, error) {
	if i == nil || token == "" {
		return TokenInfo{}, ErrMalformedToken
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := i.parser.ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, ErrMalformedToken
	}

	info := TokenInfo{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	return info, nil
}

// Expired reports whether the token's exp claim has passed at the given
// instant, leeway included. A token without an exp claim never expires.
//
// Expired may return an error when input validation, dependency calls, or security checks fail.
// Expired does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (i *Inspector) Expired(token string, now time.Time) (bool, error) {
	info, err := i.Inspect(token)
	if err != nil {
		return false, err
	}
	if info.ExpiresAt.IsZero() {
		return false, nil
	}
	return now.After(info.ExpiresAt.Add(i.leeway)), nil
}
