package usecase

import (
	"context"
	"time"

	"github.com/prayerbox/keyguard/internal/metrics"
)

// recoveryUseCaseWithMetrics decorates RecoveryUseCase with duration
// instrumentation. Restore and reveal each run multiple KDF derivations, so
// their latency tracks the configured Argon2id cost directly.
type recoveryUseCaseWithMetrics struct {
	next    RecoveryUseCase
	metrics metrics.BusinessMetrics
}

// NewRecoveryUseCaseWithMetrics wraps a RecoveryUseCase with duration recording.
func NewRecoveryUseCaseWithMetrics(useCase RecoveryUseCase, m metrics.BusinessMetrics) RecoveryUseCase {
	return &recoveryUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// SetupRecovery records the duration of recovery enrollment operations.
func (r *recoveryUseCaseWithMetrics) SetupRecovery(ctx context.Context, userID, password string) (string, error) {
	start := time.Now()
	phrase, err := r.next.SetupRecovery(ctx, userID, password)

	r.metrics.RecordDuration(ctx, "recovery", "setup", time.Since(start), statusOf(err))

	return phrase, err
}

// ConfirmSaved records the duration of proof-of-save checks.
func (r *recoveryUseCaseWithMetrics) ConfirmSaved(ctx context.Context, userID, lastWord string) error {
	start := time.Now()
	err := r.next.ConfirmSaved(ctx, userID, lastWord)

	r.metrics.RecordDuration(ctx, "recovery", "confirm_saved", time.Since(start), statusOf(err))

	return err
}

// RestoreFromRecovery records the duration of restore operations.
func (r *recoveryUseCaseWithMetrics) RestoreFromRecovery(ctx context.Context, userID, phrase, newPassword string) error {
	start := time.Now()
	err := r.next.RestoreFromRecovery(ctx, userID, phrase, newPassword)

	r.metrics.RecordDuration(ctx, "recovery", "restore", time.Since(start), statusOf(err))

	return err
}

// IssueStepUpChallenge records the duration of challenge issuance.
func (r *recoveryUseCaseWithMetrics) IssueStepUpChallenge(ctx context.Context, userID string) error {
	start := time.Now()
	err := r.next.IssueStepUpChallenge(ctx, userID)

	r.metrics.RecordDuration(ctx, "recovery", "challenge", time.Since(start), statusOf(err))

	return err
}

// RevealRecoveryCode records the duration of step-up reveal operations.
func (r *recoveryUseCaseWithMetrics) RevealRecoveryCode(ctx context.Context, userID, password, code string) (string, error) {
	start := time.Now()
	phrase, err := r.next.RevealRecoveryCode(ctx, userID, password, code)

	r.metrics.RecordDuration(ctx, "recovery", "reveal", time.Since(start), statusOf(err))

	return phrase, err
}

// statusOf maps an operation result to a metrics status label.
func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
