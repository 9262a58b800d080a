package keychain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goCredStore/credential"
	"github.com/redis/go-redis/v9"
)

// ErrLegacyNotFound is an exported constant or variable used by the credential store.
var ErrLegacyNotFound = errors.New("legacy credential store not found")

// ErrLegacyCorrupt is an exported constant or variable used by the credential store.
var ErrLegacyCorrupt = errors.New("legacy credential store corrupt")

// legacyRecord is the v0 layout: one JSON document under <prefix>:v0 holding
// every credential part. v0 predates at-rest sealing, so the blob is always
// plain JSON.
type legacyRecord struct {
	IdentityID     string            `json:"identityId,omitempty"`
	AWS            *legacyAWS        `json:"awsCredentials,omitempty"`
	UserPoolTokens *legacyUserTokens `json:"userPoolTokens,omitempty"`
	DeviceSecrets  *legacyDevice     `json:"deviceSecrets,omitempty"`
}

type legacyAWS struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	SessionToken    string `json:"sessionToken,omitempty"`
	Expiration      int64  `json:"expiration,omitempty"`
}

type legacyUserTokens struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type legacyDevice struct {
	DeviceKey      string `json:"deviceKey"`
	DeviceGroupKey string `json:"deviceGroupKey,omitempty"`
	DeviceSecret   string `json:"deviceSecret,omitempty"`
}

// DetectLegacy reports whether a v0 document exists.
//
//	Performance: 1 Redis EXISTS.
//	Docs: docs/keychain.md
func (s *Store) DetectLegacy(ctx context.Context) (bool, error) {
	n, err := s.redis.Exists(ctx, s.legacyKey()).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// MigrateLegacy converts the v0 document into per-entry blobs, deletes it,
// and returns the migrated snapshot. The v0 document is removed only after
// the new entries are written, so a crash mid-migration re-runs the
// migration instead of losing credentials.
//
//	Docs: docs/keychain.md
func (s *Store) MigrateLegacy(ctx context.Context) (*credential.Bundle, error) {
	data, err := s.redis.Get(ctx, s.legacyKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrLegacyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var record legacyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLegacyCorrupt, err)
	}

	bundle := record.bundle()
	if _, err := s.Store(ctx, bundle); err != nil {
		return nil, err
	}

	if err := s.redis.Del(ctx, s.legacyKey()).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return s.Load(ctx)
}

func (r *legacyRecord) bundle() *credential.Bundle {
	bundle := &credential.Bundle{}

	if r.IdentityID != "" {
		id := r.IdentityID
		bundle.IdentityID = &id
	}
	if r.AWS != nil {
		aws := &credential.AWSCredentials{
			AccessKeyID:     r.AWS.AccessKeyID,
			SecretAccessKey: r.AWS.SecretAccessKey,
			SessionToken:    r.AWS.SessionToken,
		}
		if r.AWS.Expiration != 0 {
			aws.Expiration = time.Unix(r.AWS.Expiration, 0).UTC()
		}
		bundle.AWS = aws
	}
	if r.UserPoolTokens != nil {
		bundle.UserPool = &credential.UserPoolTokens{
			AccessToken:  r.UserPoolTokens.AccessToken,
			IDToken:      r.UserPoolTokens.IDToken,
			RefreshToken: r.UserPoolTokens.RefreshToken,
		}
	}
	if r.DeviceSecrets != nil {
		bundle.Device = &credential.DeviceSecrets{
			DeviceKey:      r.DeviceSecrets.DeviceKey,
			DeviceGroupKey: r.DeviceSecrets.DeviceGroupKey,
			DeviceSecret:   r.DeviceSecrets.DeviceSecret,
		}
	}
	return bundle
}
