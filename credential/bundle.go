package credential

import "time"

// Entry keys address the individually storable parts of a [Bundle] in a
// storage backend. Clear operations accept these names; anything else is
// rejected before any backend call is made.
const (
	// KeyIdentityID is an exported constant or variable used by the credential store.
	KeyIdentityID = "identityId"
	// KeyAWSCredentials is an exported constant or variable used by the credential store.
	KeyAWSCredentials = "awsCredentials"
	// KeyUserPoolTokens is an exported constant or variable used by the credential store.
	KeyUserPoolTokens = "userPoolTokens"
	// KeyDeviceSecrets is an exported constant or variable used by the credential store.
	KeyDeviceSecrets = "deviceSecrets"
)

// KnownKeys returns the entry keys in their canonical order.
//
// KnownKeys does not mutate shared global state and can be used concurrently.
func KnownKeys() []string {
	return []string{KeyIdentityID, KeyAWSCredentials, KeyUserPoolTokens, KeyDeviceSecrets}
}

// ValidKey reports whether key names one of the well-known entries.
//
// ValidKey does not mutate shared global state and can be used concurrently.
func ValidKey(key string) bool {
	switch key {
	case KeyIdentityID, KeyAWSCredentials, KeyUserPoolTokens, KeyDeviceSecrets:
		return true
	default:
		return false
	}
}

// AWSCredentials holds one set of identity-pool session credentials.
//
// AWSCredentials instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AWSCredentials struct {
	AccessKeyID     string    `json:"accessKeyId"`
	SecretAccessKey string    `json:"secretAccessKey"`
	SessionToken    string    `json:"sessionToken"`
	Expiration      time.Time `json:"expiration,omitzero"`
}

// UserPoolTokens holds the user-pool token triple issued after sign-in.
//
// UserPoolTokens instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserPoolTokens struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

// DeviceSecrets holds the remembered-device key material.
//
// DeviceSecrets instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DeviceSecrets struct {
	DeviceKey      string `json:"deviceKey"`
	DeviceGroupKey string `json:"deviceGroupKey"`
	DeviceSecret   string `json:"deviceSecret"`
}

// Bundle is an optional-field snapshot of everything the credential store can
// persist. A nil field means the entry is absent.
//
// Bundle instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Bundle struct {
	IdentityID *string         `json:"identityId,omitempty"`
	AWS        *AWSCredentials `json:"awsCredentials,omitempty"`
	UserPool   *UserPoolTokens `json:"userPoolTokens,omitempty"`
	Device     *DeviceSecrets  `json:"deviceSecrets,omitempty"`
}

// Clone returns a deep copy of the bundle. Clone of nil is nil.
//
// Clone does not mutate shared global state and can be used concurrently.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}

	out := &Bundle{}
	if b.IdentityID != nil {
		id := *b.IdentityID
		out.IdentityID = &id
	}
	if b.AWS != nil {
		aws := *b.AWS
		out.AWS = &aws
	}
	if b.UserPool != nil {
		up := *b.UserPool
		out.UserPool = &up
	}
	if b.Device != nil {
		dev := *b.Device
		out.Device = &dev
	}
	return out
}

// IsEmpty reports whether every field of the bundle is absent.
//
// IsEmpty does not mutate shared global state and can be used concurrently.
func (b *Bundle) IsEmpty() bool {
	if b == nil {
		return true
	}
	return b.IdentityID == nil && b.AWS == nil && b.UserPool == nil && b.Device == nil
}

// Merge returns a copy of b with every non-nil field of overlay applied on
// top. Absent overlay fields retain b's values.
//
// Merge does not mutate shared global state and can be used concurrently.
func (b *Bundle) Merge(overlay *Bundle) *Bundle {
	out := b.Clone()
	if overlay == nil {
		return out
	}
	if out == nil {
		out = &Bundle{}
	}

	if overlay.IdentityID != nil {
		id := *overlay.IdentityID
		out.IdentityID = &id
	}
	if overlay.AWS != nil {
		aws := *overlay.AWS
		out.AWS = &aws
	}
	if overlay.UserPool != nil {
		up := *overlay.UserPool
		out.UserPool = &up
	}
	if overlay.Device != nil {
		dev := *overlay.Device
		out.Device = &dev
	}
	return out
}
