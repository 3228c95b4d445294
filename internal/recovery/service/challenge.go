package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	apperrors "github.com/prayerbox/keyguard/internal/errors"
)

// codeDigits is the length of a step-up code.
const codeDigits = 8

// ChallengeService generates and hashes one-time step-up codes.
//
// Codes are numeric for easy transcription from an email or SMS. Only the
// SHA-256 hash is persisted; short-lived single-use codes don't warrant a
// memory-hard hash.
type ChallengeService interface {
	// GenerateCode creates a fresh code and its hash.
	GenerateCode() (plainCode string, codeHash string, err error)

	// HashCode hashes a plain code using SHA-256, returned as hex.
	HashCode(plainCode string) string
}

// challengeService implements ChallengeService.
type challengeService struct{}

// NewChallengeService creates a new ChallengeService instance.
func NewChallengeService() ChallengeService {
	return &challengeService{}
}

// GenerateCode creates a fresh eight-digit code and its SHA-256 hash.
func (c *challengeService) GenerateCode() (plainCode string, codeHash string, err error) {
	limit := big.NewInt(1)
	for range codeDigits {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate step-up code")
	}

	plainCode = fmt.Sprintf("%0*d", codeDigits, n)
	codeHash = c.HashCode(plainCode)
	return plainCode, codeHash, nil
}

// HashCode hashes a plain code using SHA-256.
// Returns the hash as a hexadecimal string.
func (c *challengeService) HashCode(plainCode string) string {
	hash := sha256.Sum256([]byte(plainCode))
	return hex.EncodeToString(hash[:])
}
