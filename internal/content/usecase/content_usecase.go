// Package usecase implements payload encryption and decryption under an
// unlocked session DEK.
package usecase

import (
	"context"
	"encoding/base64"

	contentDomain "github.com/prayerbox/keyguard/internal/content/domain"
	apperrors "github.com/prayerbox/keyguard/internal/errors"
	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
	keysService "github.com/prayerbox/keyguard/internal/keys/service"
	"github.com/prayerbox/keyguard/internal/session"
)

// ContentUseCase encrypts and decrypts payloads for unlocked users.
//
// The context identifier (the prayer, group, or journal the payload belongs
// to) is bound as AAD: a blob moved between contexts fails authentication.
type ContentUseCase interface {
	// EncryptPayload encrypts plaintext under the user's session DEK.
	// Returns ErrSessionLocked when the user has no unlocked DEK.
	EncryptPayload(ctx context.Context, userID, contextID string, plaintext []byte) (*contentDomain.EncryptedBlob, error)

	// DecryptPayload reverses EncryptPayload. Returns ErrIntegrity when the
	// blob was tampered with or presented under the wrong context.
	DecryptPayload(ctx context.Context, userID, contextID string, blob *contentDomain.EncryptedBlob) ([]byte, error)
}

type contentUseCase struct {
	cache       *session.Cache
	aeadManager keysService.AEADManager
	algorithm   keysDomain.Algorithm
}

// NewContentUseCase creates a new ContentUseCase instance.
func NewContentUseCase(
	cache *session.Cache,
	aeadManager keysService.AEADManager,
	alg keysDomain.Algorithm,
) ContentUseCase {
	return &contentUseCase{
		cache:       cache,
		aeadManager: aeadManager,
		algorithm:   alg,
	}
}

// EncryptPayload encrypts plaintext under the user's session DEK.
func (c *contentUseCase) EncryptPayload(
	ctx context.Context,
	userID, contextID string,
	plaintext []byte,
) (*contentDomain.EncryptedBlob, error) {
	dek, unlocked := c.cache.GetIfUnlocked(userID)
	if !unlocked {
		return nil, contentDomain.ErrSessionLocked
	}
	defer keysDomain.Zero(dek)

	cipher, err := c.aeadManager.CreateCipher(dek, c.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, []byte(contextID))
	if err != nil {
		return nil, err
	}

	return &contentDomain.EncryptedBlob{
		Ciphertext:    base64.StdEncoding.EncodeToString(ciphertext),
		IV:            base64.StdEncoding.EncodeToString(nonce),
		SchemaVersion: contentDomain.SchemaVersion,
	}, nil
}

// DecryptPayload reverses EncryptPayload.
func (c *contentUseCase) DecryptPayload(
	ctx context.Context,
	userID, contextID string,
	blob *contentDomain.EncryptedBlob,
) ([]byte, error) {
	if blob.SchemaVersion != contentDomain.SchemaVersion {
		return nil, contentDomain.ErrUnsupportedSchema
	}

	dek, unlocked := c.cache.GetIfUnlocked(userID)
	if !unlocked {
		return nil, contentDomain.ErrSessionLocked
	}
	defer keysDomain.Zero(dek)

	ciphertext, err := base64.StdEncoding.DecodeString(blob.Ciphertext)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "ciphertext is not valid base64")
	}

	nonce, err := base64.StdEncoding.DecodeString(blob.IV)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "iv is not valid base64")
	}

	cipher, err := c.aeadManager.CreateCipher(dek, c.algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(ciphertext, nonce, []byte(contextID))
	if err != nil {
		// Tampering, corruption, and wrong-context decryption all land here.
		return nil, keysDomain.ErrIntegrity
	}

	return plaintext, nil
}
