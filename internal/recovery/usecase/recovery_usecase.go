package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prayerbox/keyguard/internal/database"
	apperrors "github.com/prayerbox/keyguard/internal/errors"
	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
	keysService "github.com/prayerbox/keyguard/internal/keys/service"
	keysUseCase "github.com/prayerbox/keyguard/internal/keys/usecase"
	recoveryDomain "github.com/prayerbox/keyguard/internal/recovery/domain"
	recoveryService "github.com/prayerbox/keyguard/internal/recovery/service"
	"github.com/prayerbox/keyguard/internal/session"
)

type recoveryUseCase struct {
	txManager     database.TxManager
	keyRepo       keysUseCase.KeyRecordRepository
	challengeRepo ChallengeRepository
	envelope      keysService.Envelope
	sealer        *keysService.RecordSealer
	phrases       recoveryService.PhraseService
	challenges    recoveryService.ChallengeService
	sender        CodeSender
	cache         *session.Cache
	rotator       keysUseCase.CredentialRotator
	challengeTTL  time.Duration
}

// NewRecoveryUseCase creates a new RecoveryUseCase instance.
// rotator may be nil when no external credential system participates in restoration.
func NewRecoveryUseCase(
	txManager database.TxManager,
	keyRepo keysUseCase.KeyRecordRepository,
	challengeRepo ChallengeRepository,
	envelope keysService.Envelope,
	sealer *keysService.RecordSealer,
	phrases recoveryService.PhraseService,
	challenges recoveryService.ChallengeService,
	sender CodeSender,
	cache *session.Cache,
	rotator keysUseCase.CredentialRotator,
	challengeTTL time.Duration,
) RecoveryUseCase {
	return &recoveryUseCase{
		txManager:     txManager,
		keyRepo:       keyRepo,
		challengeRepo: challengeRepo,
		envelope:      envelope,
		sealer:        sealer,
		phrases:       phrases,
		challenges:    challenges,
		sender:        sender,
		cache:         cache,
		rotator:       rotator,
		challengeTTL:  challengeTTL,
	}
}

// SetupRecovery enrolls a recovery phrase for a user in the basic state.
func (r *recoveryUseCase) SetupRecovery(ctx context.Context, userID, password string) (string, error) {
	phrase, err := r.phrases.Generate()
	if err != nil {
		return "", err
	}

	phraseHash, err := r.phrases.Hash(phrase)
	if err != nil {
		return "", err
	}

	err = r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		record, err := r.keyRepo.Get(txCtx, userID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return keysDomain.ErrWrongPassword
			}
			return err
		}

		if !record.MigrationState.CanTransition(keysDomain.MigrationStateUpgraded) {
			return keysDomain.ErrAlreadyEnrolled
		}

		wrapped, err := r.sealer.Open(txCtx, record.WrappedDekPassword)
		if err != nil {
			return err
		}

		dek, err := r.envelope.Unwrap(wrapped, password, record.PasswordKdfSalt, keysService.PurposePasswordWrap, userID)
		if err != nil {
			return keysDomain.ErrWrongPassword
		}
		defer keysDomain.Zero(dek)

		recoverySalt, err := r.envelope.GenerateSalt()
		if err != nil {
			return err
		}

		wrappedRecovery, err := r.envelope.Wrap(dek, phrase, recoverySalt, keysService.PurposeRecoveryWrap, userID)
		if err != nil {
			return err
		}

		sealedRecovery, err := r.sealer.Seal(txCtx, wrappedRecovery)
		if err != nil {
			return err
		}

		// The phrase rides along encrypted under the DEK so it can be shown
		// again later; the verifier hash alone can never reproduce it.
		encryptedPhrase, err := r.envelope.EncryptWithDek([]byte(phrase), dek, phraseAAD(userID))
		if err != nil {
			return err
		}

		sealedPhrase, err := r.sealer.Seal(txCtx, encryptedPhrase)
		if err != nil {
			return err
		}

		expectedVersion := record.Version
		record.Version++
		record.WrappedDekRecovery = sealedRecovery
		record.RecoveryKdfSalt = recoverySalt
		record.EncryptedPhrase = sealedPhrase
		record.PhraseHash = phraseHash
		record.MigrationState = keysDomain.MigrationStateUpgraded
		record.UpdatedAt = time.Now().UTC()

		return r.keyRepo.Update(txCtx, record, expectedVersion)
	})
	if err != nil {
		return "", err
	}

	return phrase, nil
}

// ConfirmSaved verifies the user wrote the phrase down by checking its last word.
func (r *recoveryUseCase) ConfirmSaved(ctx context.Context, userID, lastWord string) error {
	dek, unlocked := r.cache.GetIfUnlocked(userID)
	if !unlocked {
		return apperrors.Wrap(apperrors.ErrUnauthorized, "session is locked")
	}
	defer keysDomain.Zero(dek)

	record, err := r.keyRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !record.HasRecovery() {
		return keysDomain.ErrRecoveryNotEnrolled
	}

	phrase, err := r.decryptPhrase(ctx, record, dek, userID)
	if err != nil {
		return err
	}

	want, err := r.phrases.LastWord(phrase)
	if err != nil {
		return err
	}

	if r.phrases.Normalize(lastWord) != want {
		return recoveryDomain.ErrSaveNotConfirmed
	}

	return nil
}

// RestoreFromRecovery unwraps the DEK with the recovery phrase and rewraps it
// under a new password.
func (r *recoveryUseCase) RestoreFromRecovery(ctx context.Context, userID, phrase, newPassword string) error {
	if err := r.phrases.Validate(phrase); err != nil {
		// Malformed phrases fail the same way wrong phrases do.
		return keysDomain.ErrInvalidRecoveryCode
	}

	var dek []byte
	defer func() { keysDomain.Zero(dek) }()

	err := r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		record, err := r.keyRepo.Get(txCtx, userID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return keysDomain.ErrInvalidRecoveryCode
			}
			return err
		}

		if !record.HasRecovery() {
			// A record with no recovery wrap and a lost password is
			// cryptographically unreachable.
			return keysDomain.ErrLostCredentials
		}

		// Cheap verifier check before the expensive KDF unwrap.
		if !r.phrases.Verify(phrase, record.PhraseHash) {
			return keysDomain.ErrInvalidRecoveryCode
		}

		wrappedRecovery, err := r.sealer.Open(txCtx, record.WrappedDekRecovery)
		if err != nil {
			return err
		}

		normalized := r.phrases.Normalize(phrase)
		dek, err = r.envelope.Unwrap(wrappedRecovery, normalized, record.RecoveryKdfSalt, keysService.PurposeRecoveryWrap, userID)
		if err != nil {
			return keysDomain.ErrInvalidRecoveryCode
		}

		newSalt, err := r.envelope.GenerateSalt()
		if err != nil {
			return err
		}

		rewrapped, err := r.envelope.Wrap(dek, newPassword, newSalt, keysService.PurposePasswordWrap, userID)
		if err != nil {
			return err
		}

		sealed, err := r.sealer.Seal(txCtx, rewrapped)
		if err != nil {
			return err
		}

		// The recovery wrap and the stored phrase stay valid: only the
		// password side of the envelope changes.
		expectedVersion := record.Version
		record.Version++
		record.WrappedDekPassword = sealed
		record.PasswordKdfSalt = newSalt
		record.UpdatedAt = time.Now().UTC()

		if err := r.keyRepo.Update(txCtx, record, expectedVersion); err != nil {
			return err
		}

		if r.rotator != nil {
			if err := r.rotator.RotateCredential(txCtx, userID, newPassword); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.cache.Unlock(userID, dek)
	return nil
}

// IssueStepUpChallenge generates a one-time code and delivers it to the user.
func (r *recoveryUseCase) IssueStepUpChallenge(ctx context.Context, userID string) error {
	plainCode, codeHash, err := r.challenges.GenerateCode()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	challenge := &recoveryDomain.StepUpChallenge{
		ID:        uuid.New(),
		UserID:    userID,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(r.challengeTTL),
		CreatedAt: now,
	}

	if err := r.challengeRepo.Create(ctx, challenge); err != nil {
		return err
	}

	return r.sender.Send(ctx, userID, plainCode)
}

// RevealRecoveryCode re-displays the enrolled phrase after password and
// step-up verification.
func (r *recoveryUseCase) RevealRecoveryCode(ctx context.Context, userID, password, code string) (string, error) {
	record, err := r.keyRepo.Get(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return "", keysDomain.ErrWrongPassword
		}
		return "", err
	}
	if !record.HasRecovery() {
		return "", keysDomain.ErrRecoveryNotEnrolled
	}

	// The password proves the caller holds the primary credential.
	wrapped, err := r.sealer.Open(ctx, record.WrappedDekPassword)
	if err != nil {
		return "", err
	}

	dek, err := r.envelope.Unwrap(wrapped, password, record.PasswordKdfSalt, keysService.PurposePasswordWrap, userID)
	if err != nil {
		return "", keysDomain.ErrWrongPassword
	}
	defer keysDomain.Zero(dek)

	// The step-up code proves a fresh out-of-band check. Consume it before
	// revealing anything so the code can never work twice.
	challenge, err := r.challengeRepo.GetByHash(ctx, userID, r.challenges.HashCode(code))
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	if challenge.ConsumedAt != nil {
		return "", recoveryDomain.ErrChallengeConsumed
	}
	if !challenge.Usable(now) {
		return "", recoveryDomain.ErrChallengeExpired
	}

	if err := r.challengeRepo.Consume(ctx, challenge.ID, now); err != nil {
		return "", err
	}

	return r.decryptPhrase(ctx, record, dek, userID)
}

// decryptPhrase opens and decrypts the stored recovery phrase.
func (r *recoveryUseCase) decryptPhrase(
	ctx context.Context,
	record *keysDomain.KeyRecord,
	dek []byte,
	userID string,
) (string, error) {
	encryptedPhrase, err := r.sealer.Open(ctx, record.EncryptedPhrase)
	if err != nil {
		return "", err
	}

	phrase, err := r.envelope.DecryptWithDek(encryptedPhrase, dek, phraseAAD(userID))
	if err != nil {
		return "", keysDomain.ErrIntegrity
	}

	return string(phrase), nil
}

// phraseAAD binds the encrypted phrase to its owner.
func phraseAAD(userID string) []byte {
	return []byte(keysService.PurposePhrase + ":" + userID)
}
