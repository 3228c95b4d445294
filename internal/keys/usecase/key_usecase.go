package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/prayerbox/keyguard/internal/database"
	apperrors "github.com/prayerbox/keyguard/internal/errors"
	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
	keysService "github.com/prayerbox/keyguard/internal/keys/service"
	"github.com/prayerbox/keyguard/internal/session"
)

type keyUseCase struct {
	txManager database.TxManager
	repo      KeyRecordRepository
	envelope  keysService.Envelope
	sealer    *keysService.RecordSealer
	cache     *session.Cache
	rotator   CredentialRotator
	algorithm keysDomain.Algorithm
	locks     *userLocks
	unlockSF  singleflight.Group
}

// NewKeyUseCase creates a new KeyUseCase instance.
// rotator may be nil when no external credential system participates in rotation.
func NewKeyUseCase(
	txManager database.TxManager,
	repo KeyRecordRepository,
	envelope keysService.Envelope,
	sealer *keysService.RecordSealer,
	cache *session.Cache,
	rotator CredentialRotator,
	alg keysDomain.Algorithm,
) KeyUseCase {
	return &keyUseCase{
		txManager: txManager,
		repo:      repo,
		envelope:  envelope,
		sealer:    sealer,
		cache:     cache,
		rotator:   rotator,
		algorithm: alg,
		locks:     newUserLocks(),
	}
}

// Setup provisions the initial key envelope for a user.
func (k *keyUseCase) Setup(ctx context.Context, userID, password string) error {
	if _, err := k.repo.Get(ctx, userID); err == nil {
		return keysDomain.ErrAlreadyEnrolled
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	dek, err := k.envelope.GenerateDek()
	if err != nil {
		return err
	}
	defer keysDomain.Zero(dek)

	salt, err := k.envelope.GenerateSalt()
	if err != nil {
		return err
	}

	wrapped, err := k.envelope.Wrap(dek, password, salt, keysService.PurposePasswordWrap, userID)
	if err != nil {
		return err
	}

	sealed, err := k.sealer.Seal(ctx, wrapped)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	record := &keysDomain.KeyRecord{
		UserID:             userID,
		Version:            1,
		Algorithm:          k.algorithm,
		WrappedDekPassword: sealed,
		PasswordKdfSalt:    salt,
		MigrationState:     keysDomain.MigrationStateBasic,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := k.repo.Create(ctx, record); err != nil {
		return err
	}

	// The user just proved knowledge of the password, leave them unlocked.
	k.cache.Unlock(userID, dek)
	return nil
}

// Unlock derives the password KEK, unwraps the DEK, and caches it.
//
// Concurrent unlock attempts for the same user are deduplicated so a burst of
// requests costs one KDF derivation instead of many.
func (k *keyUseCase) Unlock(ctx context.Context, userID, password string) error {
	_, err, _ := k.unlockSF.Do(unlockKey(userID, password), func() (any, error) {
		return nil, k.unlock(ctx, userID, password)
	})
	return err
}

// unlockKey builds the deduplication key for an unlock attempt. The password
// goes through SHA-256 so the singleflight map never holds the plaintext.
func unlockKey(userID, password string) string {
	sum := sha256.Sum256([]byte(userID + "\x00" + password))
	return hex.EncodeToString(sum[:])
}

func (k *keyUseCase) unlock(ctx context.Context, userID, password string) error {
	record, err := k.repo.Get(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Absent records and wrong passwords look identical to callers.
			return keysDomain.ErrWrongPassword
		}
		return err
	}

	wrapped, err := k.sealer.Open(ctx, record.WrappedDekPassword)
	if err != nil {
		return err
	}

	dek, err := k.envelope.Unwrap(wrapped, password, record.PasswordKdfSalt, keysService.PurposePasswordWrap, userID)
	if err != nil {
		return keysDomain.ErrWrongPassword
	}
	defer keysDomain.Zero(dek)

	k.cache.Unlock(userID, dek)
	return nil
}

// Lock evicts the user's DEK from the session cache.
func (k *keyUseCase) Lock(ctx context.Context, userID string) error {
	k.cache.Lock(userID)
	return nil
}

// RotatePassword rewraps the DEK under the new password inside one transaction.
func (k *keyUseCase) RotatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	k.locks.Lock(userID)
	defer k.locks.Unlock(userID)

	var dek []byte
	defer func() { keysDomain.Zero(dek) }()

	err := k.txManager.WithTx(ctx, func(txCtx context.Context) error {
		record, err := k.repo.Get(txCtx, userID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return keysDomain.ErrWrongPassword
			}
			return err
		}

		wrapped, err := k.sealer.Open(txCtx, record.WrappedDekPassword)
		if err != nil {
			return err
		}

		dek, err = k.envelope.Unwrap(wrapped, currentPassword, record.PasswordKdfSalt, keysService.PurposePasswordWrap, userID)
		if err != nil {
			return keysDomain.ErrWrongPassword
		}

		newSalt, err := k.envelope.GenerateSalt()
		if err != nil {
			return err
		}

		rewrapped, err := k.envelope.Wrap(dek, newPassword, newSalt, keysService.PurposePasswordWrap, userID)
		if err != nil {
			return err
		}

		sealed, err := k.sealer.Seal(txCtx, rewrapped)
		if err != nil {
			return err
		}

		expectedVersion := record.Version
		record.Version++
		record.WrappedDekPassword = sealed
		record.PasswordKdfSalt = newSalt
		record.UpdatedAt = time.Now().UTC()

		if err := k.repo.Update(txCtx, record, expectedVersion); err != nil {
			return err
		}

		// The external credential changes in the same transaction so the
		// password that authenticates is always the password that unwraps.
		if k.rotator != nil {
			if err := k.rotator.RotateCredential(txCtx, userID, newPassword); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	k.cache.Unlock(userID, dek)
	return nil
}

// Diagnose reports the state of a user's key envelope.
func (k *keyUseCase) Diagnose(ctx context.Context, userID string) (*Diagnosis, error) {
	record, err := k.repo.Get(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return &Diagnosis{State: keysDomain.MigrationStateNone}, nil
		}
		return nil, err
	}

	return &Diagnosis{
		State:             record.MigrationState,
		RecoveryAvailable: record.HasRecovery(),
		Version:           record.Version,
	}, nil
}
