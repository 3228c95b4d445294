// Package usecase defines the business logic for recovery enrollment,
// restoration, and step-up phrase reveal.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	recoveryDomain "github.com/prayerbox/keyguard/internal/recovery/domain"
)

// ChallengeRepository defines the interface for step-up challenge persistence.
type ChallengeRepository interface {
	// Create inserts a new step-up challenge.
	Create(ctx context.Context, challenge *recoveryDomain.StepUpChallenge) error

	// GetByHash retrieves the most recent challenge matching the user and code hash.
	// Returns ErrChallengeNotFound when none exists.
	GetByHash(ctx context.Context, userID, codeHash string) (*recoveryDomain.StepUpChallenge, error)

	// Consume marks a challenge as spent.
	// Returns ErrChallengeConsumed when it was already used.
	Consume(ctx context.Context, id uuid.UUID, consumedAt time.Time) error

	// DeleteExpired removes challenges whose expiry passed before the cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// CodeSender delivers a step-up code to the user out of band (email, SMS).
type CodeSender interface {
	Send(ctx context.Context, userID, code string) error
}

// RecoveryUseCase defines the business operations for the recovery credential.
//
// The recovery phrase is a full peer of the password: a KEK derived from it
// wraps the same DEK. The phrase itself is also stored encrypted under the
// DEK so it can be re-displayed to an authenticated user after a step-up check.
type RecoveryUseCase interface {
	// SetupRecovery enrolls a recovery phrase for a user in the basic state.
	//
	// Requires the current password. Generates a six-word phrase, wraps the
	// DEK under a phrase-derived KEK, stores the phrase encrypted under the
	// DEK plus a verifier hash, and moves the record to the upgraded state,
	// all in one transaction. Returns the phrase for one-time display.
	SetupRecovery(ctx context.Context, userID, password string) (string, error)

	// ConfirmSaved verifies the user wrote the phrase down by checking its
	// last word. The user must be unlocked. Returns ErrSaveNotConfirmed on
	// mismatch.
	ConfirmSaved(ctx context.Context, userID, lastWord string) error

	// RestoreFromRecovery unwraps the DEK with the recovery phrase and rewraps
	// it under a new password, for users who lost their password.
	//
	// Returns ErrInvalidRecoveryCode for a bad phrase or an absent record, and
	// ErrLostCredentials when the record exists but carries no recovery wrap
	// and the key material cannot be recovered.
	RestoreFromRecovery(ctx context.Context, userID, phrase, newPassword string) error

	// IssueStepUpChallenge generates a one-time code, persists its hash with a
	// TTL, and delivers it through the configured sender.
	IssueStepUpChallenge(ctx context.Context, userID string) error

	// RevealRecoveryCode re-displays the enrolled phrase to a user who proves
	// both their password and a fresh step-up code. The code is consumed on
	// success.
	RevealRecoveryCode(ctx context.Context, userID, password, code string) (string, error)
}
