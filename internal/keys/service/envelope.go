package service

import (
	"crypto/rand"
	"fmt"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

// Purpose strings bound as AAD during wrap operations. Each credential path
// gets its own purpose so a blob wrapped for one path can never be unwrapped
// through another, even with the right key.
const (
	PurposePasswordWrap = "password-wrap"
	PurposeRecoveryWrap = "recovery-wrap"
	PurposePhrase       = "phrase-encryption"
)

// dekLength is the DEK size in bytes (256 bits).
const dekLength = 32

// EnvelopeService implements Envelope using a KDF and an AEADManager.
//
// Blobs produced by Wrap and EncryptWithDek are the AEAD nonce followed by
// the ciphertext, so a single column round-trips the whole operation.
type EnvelopeService struct {
	kdf         KDF
	aeadManager AEADManager
	algorithm   keysDomain.Algorithm
}

// NewEnvelopeService creates an EnvelopeService for the given algorithm.
func NewEnvelopeService(kdf KDF, aeadManager AEADManager, alg keysDomain.Algorithm) *EnvelopeService {
	return &EnvelopeService{
		kdf:         kdf,
		aeadManager: aeadManager,
		algorithm:   alg,
	}
}

// GenerateDek produces a fresh random 32-byte data encryption key.
func (e *EnvelopeService) GenerateDek() ([]byte, error) {
	dek := make([]byte, dekLength)
	if _, err := rand.Read(dek); err != nil {
		return nil, fmt.Errorf("failed to generate DEK: %w", err)
	}
	return dek, nil
}

// GenerateSalt produces a fresh random KDF salt.
func (e *EnvelopeService) GenerateSalt() ([]byte, error) {
	return e.kdf.GenerateSalt()
}

// Wrap encrypts the DEK under a KEK derived from secret and salt.
//
// The KEK is derived, used, and zeroed before returning. The purpose and user
// ID are bound as AAD.
func (e *EnvelopeService) Wrap(dek []byte, secret string, salt []byte, purpose, userID string) ([]byte, error) {
	if len(dek) != dekLength {
		return nil, keysDomain.ErrInvalidKeySize
	}

	kek, err := e.kdf.Derive(secret, salt)
	if err != nil {
		return nil, err
	}
	defer keysDomain.Zero(kek)

	cipher, err := e.aeadManager.CreateCipher(kek, e.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := cipher.Encrypt(dek, wrapAAD(purpose, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap DEK: %w", err)
	}

	return append(nonce, ciphertext...), nil
}

// Unwrap reverses Wrap. Fails if the secret, salt, purpose, or user ID differ
// from those used at wrap time.
func (e *EnvelopeService) Unwrap(blob []byte, secret string, salt []byte, purpose, userID string) ([]byte, error) {
	kek, err := e.kdf.Derive(secret, salt)
	if err != nil {
		return nil, err
	}
	defer keysDomain.Zero(kek)

	cipher, err := e.aeadManager.CreateCipher(kek, e.algorithm)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext, err := splitBlob(blob)
	if err != nil {
		return nil, err
	}

	dek, err := cipher.Decrypt(ciphertext, nonce, wrapAAD(purpose, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap DEK: %w", err)
	}

	return dek, nil
}

// EncryptWithDek encrypts plaintext directly under the DEK with the given AAD.
func (e *EnvelopeService) EncryptWithDek(plaintext, dek, aad []byte) ([]byte, error) {
	cipher, err := e.aeadManager.CreateCipher(dek, e.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}

	return append(nonce, ciphertext...), nil
}

// DecryptWithDek reverses EncryptWithDek.
func (e *EnvelopeService) DecryptWithDek(blob, dek, aad []byte) ([]byte, error) {
	cipher, err := e.aeadManager.CreateCipher(dek, e.algorithm)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext, err := splitBlob(blob)
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(ciphertext, nonce, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// nonceLength is the AEAD nonce size for both supported algorithms.
const nonceLength = 12

// splitBlob splits a nonce-prepended blob into its nonce and ciphertext parts.
func splitBlob(blob []byte) (nonce, ciphertext []byte, err error) {
	if len(blob) <= nonceLength {
		return nil, nil, keysDomain.ErrIntegrity
	}
	return blob[:nonceLength], blob[nonceLength:], nil
}

// wrapAAD builds the AAD binding a wrap to its purpose and owner.
func wrapAAD(purpose, userID string) []byte {
	return []byte(purpose + ":" + userID)
}
