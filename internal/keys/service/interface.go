// Package service provides cryptographic services for envelope encryption of user DEKs.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), Argon2id key derivation,
// and the wrap/unwrap operations that bind DEKs to user credentials.
package service

import (
	"context"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg keysDomain.Algorithm) (AEAD, error)
}

// KDF defines the interface for deriving key encryption keys from low-entropy secrets.
type KDF interface {
	// Derive stretches the secret into a 32-byte KEK using the given salt.
	// Returns ErrFatalCrypto for an empty secret or an undersized salt
	// instead of deriving a weakened key.
	Derive(secret string, salt []byte) ([]byte, error)

	// GenerateSalt produces a fresh random salt for a new derivation.
	GenerateSalt() ([]byte, error)
}

// Envelope defines the wrap/unwrap operations for a user's DEK.
//
// Wrapped blobs carry the AEAD nonce prepended to the ciphertext, so a single
// []byte column stores everything needed to reverse the operation (besides the
// secret and the salt).
type Envelope interface {
	// GenerateDek produces a fresh random 32-byte data encryption key.
	GenerateDek() ([]byte, error)

	// GenerateSalt produces a fresh random KDF salt.
	GenerateSalt() ([]byte, error)

	// Wrap encrypts the DEK under a KEK derived from secret and salt.
	// The purpose string and user ID are bound as AAD so a blob wrapped for
	// one path cannot be replayed on another.
	Wrap(dek []byte, secret string, salt []byte, purpose, userID string) ([]byte, error)

	// Unwrap reverses Wrap. Fails if the secret, salt, purpose, or user ID differ.
	Unwrap(blob []byte, secret string, salt []byte, purpose, userID string) ([]byte, error)

	// EncryptWithDek encrypts plaintext directly under the DEK with the given AAD.
	EncryptWithDek(plaintext, dek, aad []byte) ([]byte, error)

	// DecryptWithDek reverses EncryptWithDek.
	DecryptWithDek(blob, dek, aad []byte) ([]byte, error)
}

// Keeper abstracts a KMS-backed secrets keeper for at-rest protection of
// persisted blobs. *secrets.Keeper from gocloud.dev implements this.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for configured KMS providers.
type KMSService interface {
	// OpenKeeper opens a Keeper for the given key URI.
	// Returns an error if the URI is invalid or the connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (Keeper, error)
}
