package keychain

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goCredStore/credential"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the credential store.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrPrefixRequired is an exported constant or variable used by the credential store.
var ErrPrefixRequired = errors.New("keychain prefix required")

const clearEntriesScript = `
local removed = 0
for i = 1, #KEYS do
  removed = removed + redis.call("DEL", KEYS[i])
end
return removed
`

var clearEntriesLua = redis.NewScript(clearEntriesScript)

// Config defines a public type used by goCredStore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Prefix string

	// Passphrase enables at-rest sealing of every entry blob. Empty means
	// entries are stored as plain encoded bytes.
	Passphrase       string
	ArgonMemory      uint32 // in KB
	ArgonTime        uint32
	ArgonParallelism uint8
}

// Store is the Redis-backed keychain. It persists each credential part under
// its own key and implements the storage backend consumed by the engine's
// state machine: Load, DetectLegacy, MigrateLegacy, Store, Clear.
//
//	Docs: docs/keychain.md
type Store struct {
	redis  redis.UniversalClient
	prefix string
	sealer *sealer
}

// NewStore creates a keychain [Store] backed by the given Redis client.
//
// NewStore may return an error when input validation, dependency calls, or security checks fail.
// NewStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStore(client redis.UniversalClient, cfg Config) (*Store, error) {
	if cfg.Prefix == "" {
		return nil, ErrPrefixRequired
	}
	return &Store{
		redis:  client,
		prefix: cfg.Prefix,
		sealer: newSealer(cfg.Passphrase, cfg.ArgonMemory, cfg.ArgonTime, cfg.ArgonParallelism),
	}, nil
}

func (s *Store) entryKey(name string) string {
	return s.prefix + ":" + name
}

func (s *Store) legacyKey() string {
	return s.prefix + ":v0"
}

// Load reads every entry and assembles the stored bundle. Missing entries
// are simply absent fields; an empty keychain yields an empty bundle, not an
// error.
//
//	Performance: 1 Redis MGET.
//	Docs: docs/keychain.md
func (s *Store) Load(ctx context.Context) (*credential.Bundle, error) {
	keys := credential.KnownKeys()
	entryKeys := make([]string, len(keys))
	for i, name := range keys {
		entryKeys[i] = s.entryKey(name)
	}

	values, err := s.redis.MGet(ctx, entryKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	bundle := &credential.Bundle{}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		plain, err := s.sealer.Open([]byte(raw))
		if err != nil {
			return nil, err
		}
		if err := applyEntry(bundle, keys[i], plain); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}

// Store persists every present field of the bundle in one transaction and
// returns the resulting full snapshot. Absent fields leave their entries
// untouched.
//
//	Performance: 1 Redis MULTI (one SET per present field) + 1 MGET.
//	Docs: docs/keychain.md
func (s *Store) Store(ctx context.Context, bundle *credential.Bundle) (*credential.Bundle, error) {
	if bundle == nil {
		bundle = &credential.Bundle{}
	}

	entries := make(map[string][]byte, 4)

	if bundle.IdentityID != nil {
		entries[credential.KeyIdentityID] = []byte(*bundle.IdentityID)
	}
	if bundle.AWS != nil {
		data, err := encodeAWS(bundle.AWS)
		if err != nil {
			return nil, err
		}
		entries[credential.KeyAWSCredentials] = data
	}
	if bundle.UserPool != nil {
		data, err := encodeUserPool(bundle.UserPool)
		if err != nil {
			return nil, err
		}
		entries[credential.KeyUserPoolTokens] = data
	}
	if bundle.Device != nil {
		data, err := encodeDevice(bundle.Device)
		if err != nil {
			return nil, err
		}
		entries[credential.KeyDeviceSecrets] = data
	}

	if len(entries) > 0 {
		sealed := make(map[string][]byte, len(entries))
		for name, data := range entries {
			blob, err := s.sealer.Seal(data)
			if err != nil {
				return nil, err
			}
			sealed[name] = blob
		}

		_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for name, blob := range sealed {
				pipe.Set(ctx, s.entryKey(name), blob, 0)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return s.Load(ctx)
}

// Clear deletes the named entries atomically and returns the remaining
// snapshot. No keys means every entry plus any legacy remnant.
//
//	Performance: 1 Redis EVALSHA + 1 MGET.
//	Docs: docs/keychain.md
func (s *Store) Clear(ctx context.Context, keys []string) (*credential.Bundle, error) {
	entryKeys := make([]string, 0, len(keys)+1)
	if len(keys) == 0 {
		for _, name := range credential.KnownKeys() {
			entryKeys = append(entryKeys, s.entryKey(name))
		}
		entryKeys = append(entryKeys, s.legacyKey())
	} else {
		for _, name := range keys {
			if !credential.ValidKey(name) {
				return nil, fmt.Errorf("unknown keychain entry %q", name)
			}
			entryKeys = append(entryKeys, s.entryKey(name))
		}
	}

	if err := clearEntriesLua.Run(ctx, s.redis, entryKeys).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return s.Load(ctx)
}

func applyEntry(bundle *credential.Bundle, name string, data []byte) error {
	switch name {
	case credential.KeyIdentityID:
		id := string(data)
		bundle.IdentityID = &id
	case credential.KeyAWSCredentials:
		aws, err := decodeAWS(data)
		if err != nil {
			return err
		}
		bundle.AWS = aws
	case credential.KeyUserPoolTokens:
		tokens, err := decodeUserPool(data)
		if err != nil {
			return err
		}
		bundle.UserPool = tokens
	case credential.KeyDeviceSecrets:
		device, err := decodeDevice(data)
		if err != nil {
			return err
		}
		bundle.Device = device
	}
	return nil
}
