package keychain

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
)

// ErrCipher is an exported constant or variable used by the credential store.
var ErrCipher = errors.New("keychain cipher failure")

const (
	sealedVersion byte = 1
	sealSaltSize       = 16
	sealKeySize        = 32

	defaultArgonMemory      uint32 = 64 * 1024
	defaultArgonTime        uint32 = 3
	defaultArgonParallelism uint8  = 2
)

// sealer encrypts keychain blobs with AES-256-GCM under an argon2id-derived
// key. Every blob carries its own salt and nonce, so two seals of the same
// plaintext never produce the same bytes.
type sealer struct {
	passphrase  []byte
	memory      uint32
	timeCost    uint32
	parallelism uint8
}

func newSealer(passphrase string, memory, timeCost uint32, parallelism uint8) *sealer {
	if passphrase == "" {
		return nil
	}
	if memory == 0 {
		memory = defaultArgonMemory
	}
	if timeCost == 0 {
		timeCost = defaultArgonTime
	}
	if parallelism == 0 {
		parallelism = defaultArgonParallelism
	}
	return &sealer{
		passphrase:  []byte(passphrase),
		memory:      memory,
		timeCost:    timeCost,
		parallelism: parallelism,
	}
}

func (s *sealer) deriveKey(salt []byte) []byte {
	return argon2.IDKey(s.passphrase, salt, s.timeCost, s.memory, s.parallelism, sealKeySize)
}

// Seal returns version || salt || nonce || ciphertext. A nil sealer passes
// the plaintext through.
func (s *sealer) Seal(plain []byte) ([]byte, error) {
	if s == nil {
		return plain, nil
	}

	salt := make([]byte, sealSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+len(salt)+len(nonce)+len(plain)+gcm.Overhead())
	out = append(out, sealedVersion)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plain, nil)
	return out, nil
}

// Open reverses Seal. Wrong passphrase, truncation, and bit flips all
// surface as [ErrCipher]; the underlying GCM error is deliberately not
// exposed.
func (s *sealer) Open(blob []byte) ([]byte, error) {
	if s == nil {
		return blob, nil
	}
	if len(blob) < 1 || blob[0] != sealedVersion {
		return nil, ErrCipher
	}
	blob = blob[1:]

	if len(blob) < sealSaltSize {
		return nil, ErrCipher
	}
	salt := blob[:sealSaltSize]
	blob = blob[sealSaltSize:]

	block, err := aes.NewCipher(s.deriveKey(salt))
	if err != nil {
		return nil, ErrCipher
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrCipher
	}
	if len(blob) < gcm.NonceSize() {
		return nil, ErrCipher
	}

	nonce := blob[:gcm.NonceSize()]
	plain, err := gcm.Open(nil, nonce, blob[gcm.NonceSize():], nil)
	if err != nil {
		return nil, ErrCipher
	}
	return plain, nil
}
