package usecase

import (
	"context"
	"time"

	"github.com/prayerbox/keyguard/internal/metrics"
)

// keyUseCaseWithMetrics decorates KeyUseCase with duration instrumentation.
// The KDF makes these operations deliberately slow, so their latency
// distribution is the first thing to watch when tuning cost parameters.
type keyUseCaseWithMetrics struct {
	next    KeyUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyUseCaseWithMetrics wraps a KeyUseCase with duration recording.
func NewKeyUseCaseWithMetrics(useCase KeyUseCase, m metrics.BusinessMetrics) KeyUseCase {
	return &keyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Setup records the duration of envelope setup operations.
func (k *keyUseCaseWithMetrics) Setup(ctx context.Context, userID, password string) error {
	start := time.Now()
	err := k.next.Setup(ctx, userID, password)

	k.metrics.RecordDuration(ctx, "keys", "setup", time.Since(start), statusOf(err))

	return err
}

// Unlock records the duration of unlock operations.
func (k *keyUseCaseWithMetrics) Unlock(ctx context.Context, userID, password string) error {
	start := time.Now()
	err := k.next.Unlock(ctx, userID, password)

	k.metrics.RecordDuration(ctx, "keys", "unlock", time.Since(start), statusOf(err))

	return err
}

// Lock records the duration of lock operations.
func (k *keyUseCaseWithMetrics) Lock(ctx context.Context, userID string) error {
	start := time.Now()
	err := k.next.Lock(ctx, userID)

	k.metrics.RecordDuration(ctx, "keys", "lock", time.Since(start), statusOf(err))

	return err
}

// RotatePassword records the duration of password rotation operations.
func (k *keyUseCaseWithMetrics) RotatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	start := time.Now()
	err := k.next.RotatePassword(ctx, userID, currentPassword, newPassword)

	k.metrics.RecordDuration(ctx, "keys", "rotate_password", time.Since(start), statusOf(err))

	return err
}

// Diagnose records the duration of diagnosis operations.
func (k *keyUseCaseWithMetrics) Diagnose(ctx context.Context, userID string) (*Diagnosis, error) {
	start := time.Now()
	diagnosis, err := k.next.Diagnose(ctx, userID)

	k.metrics.RecordDuration(ctx, "keys", "diagnose", time.Since(start), statusOf(err))

	return diagnosis, err
}

// statusOf maps an operation result to a metrics status label.
func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
