package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMetrics captures RecordDuration calls for assertions.
type recordingMetrics struct {
	durations []recordedDuration
}

type recordedDuration struct {
	domain    string
	operation string
	status    string
}

func (r *recordingMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (r *recordingMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	r.durations = append(r.durations, recordedDuration{domain: domain, operation: operation, status: status})
}

// stubRecoveryUseCase implements RecoveryUseCase with configurable errors.
type stubRecoveryUseCase struct {
	err error
}

func (s *stubRecoveryUseCase) SetupRecovery(ctx context.Context, userID, password string) (string, error) {
	return "apple banana cherry delta echo foxtrot", s.err
}

func (s *stubRecoveryUseCase) ConfirmSaved(ctx context.Context, userID, lastWord string) error {
	return s.err
}

func (s *stubRecoveryUseCase) RestoreFromRecovery(ctx context.Context, userID, phrase, newPassword string) error {
	return s.err
}

func (s *stubRecoveryUseCase) IssueStepUpChallenge(ctx context.Context, userID string) error {
	return s.err
}

func (s *stubRecoveryUseCase) RevealRecoveryCode(ctx context.Context, userID, password, code string) (string, error) {
	return "apple banana cherry delta echo foxtrot", s.err
}

func TestRecoveryUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("records durations with success status", func(t *testing.T) {
		recorder := &recordingMetrics{}
		uc := NewRecoveryUseCaseWithMetrics(&stubRecoveryUseCase{}, recorder)

		_, err := uc.SetupRecovery(ctx, "user-1", "password")
		require.NoError(t, err)
		require.NoError(t, uc.ConfirmSaved(ctx, "user-1", "foxtrot"))
		require.NoError(t, uc.RestoreFromRecovery(ctx, "user-1", "phrase", "new"))
		require.NoError(t, uc.IssueStepUpChallenge(ctx, "user-1"))
		_, err = uc.RevealRecoveryCode(ctx, "user-1", "password", "12345678")
		require.NoError(t, err)

		require.Len(t, recorder.durations, 5)
		operations := make([]string, 0, len(recorder.durations))
		for _, d := range recorder.durations {
			assert.Equal(t, "recovery", d.domain)
			assert.Equal(t, "success", d.status)
			operations = append(operations, d.operation)
		}
		assert.Equal(t, []string{"setup", "confirm_saved", "restore", "challenge", "reveal"}, operations)
	})

	t.Run("records error status and passes the error through", func(t *testing.T) {
		recorder := &recordingMetrics{}
		wantErr := errors.New("boom")
		uc := NewRecoveryUseCaseWithMetrics(&stubRecoveryUseCase{err: wantErr}, recorder)

		err := uc.RestoreFromRecovery(ctx, "user-1", "phrase", "new")

		assert.ErrorIs(t, err, wantErr)
		require.Len(t, recorder.durations, 1)
		assert.Equal(t, "error", recorder.durations[0].status)
	})
}
