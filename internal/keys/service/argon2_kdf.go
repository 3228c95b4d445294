package service

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

const (
	// kdfKeyLength is the derived key length in bytes (256 bits).
	kdfKeyLength = 32

	// kdfSaltLength is the salt length in bytes.
	kdfSaltLength = 16
)

// Argon2Kdf implements KDF using Argon2id.
//
// Argon2id is memory-hard, which makes offline guessing of low-entropy secrets
// (passwords, six-word recovery phrases) expensive even on GPU hardware. The
// same derivation serves both the password and recovery paths; only the salt
// and the secret differ.
type Argon2Kdf struct {
	timeCost    uint32
	memoryKiB   uint32
	parallelism uint8
}

// NewArgon2Kdf creates an Argon2id KDF with the given cost parameters.
func NewArgon2Kdf(timeCost, memoryKiB uint, parallelism uint) *Argon2Kdf {
	return &Argon2Kdf{
		timeCost:    uint32(timeCost),
		memoryKiB:   uint32(memoryKiB),
		parallelism: uint8(parallelism),
	}
}

// Derive stretches the secret into a 32-byte key using Argon2id.
//
// An empty secret or a salt shorter than 16 bytes fails with ErrFatalCrypto
// rather than deriving a weakened key.
func (k *Argon2Kdf) Derive(secret string, salt []byte) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: empty secret", keysDomain.ErrFatalCrypto)
	}
	if len(salt) < kdfSaltLength {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes", keysDomain.ErrFatalCrypto, kdfSaltLength)
	}
	return argon2.IDKey([]byte(secret), salt, k.timeCost, k.memoryKiB, k.parallelism, kdfKeyLength), nil
}

// GenerateSalt produces a fresh random 16-byte salt.
func (k *Argon2Kdf) GenerateSalt() ([]byte, error) {
	salt := make([]byte, kdfSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
