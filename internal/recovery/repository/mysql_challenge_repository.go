package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/prayerbox/keyguard/internal/database"
	apperrors "github.com/prayerbox/keyguard/internal/errors"
	recoveryDomain "github.com/prayerbox/keyguard/internal/recovery/domain"
)

// MySQLChallengeRepository implements step-up challenge persistence for MySQL.
// Uses BINARY(16) for UUIDs.
type MySQLChallengeRepository struct {
	db *sql.DB
}

// NewMySQLChallengeRepository creates a new MySQL challenge repository.
func NewMySQLChallengeRepository(db *sql.DB) *MySQLChallengeRepository {
	return &MySQLChallengeRepository{db: db}
}

// Create inserts a new step-up challenge.
func (m *MySQLChallengeRepository) Create(ctx context.Context, challenge *recoveryDomain.StepUpChallenge) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO stepup_challenges (id, user_id, code_hash, expires_at, consumed_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		challenge.ID[:],
		challenge.UserID,
		challenge.CodeHash,
		challenge.ExpiresAt,
		challenge.ConsumedAt,
		challenge.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create step-up challenge")
	}
	return nil
}

// GetByHash retrieves the most recent challenge matching the user and code hash.
func (m *MySQLChallengeRepository) GetByHash(
	ctx context.Context,
	userID, codeHash string,
) (*recoveryDomain.StepUpChallenge, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, code_hash, expires_at, consumed_at, created_at
			  FROM stepup_challenges
			  WHERE user_id = ? AND code_hash = ?
			  ORDER BY created_at DESC
			  LIMIT 1`

	var challenge recoveryDomain.StepUpChallenge
	var idBytes []byte
	err := querier.QueryRowContext(ctx, query, userID, codeHash).Scan(
		&idBytes,
		&challenge.UserID,
		&challenge.CodeHash,
		&challenge.ExpiresAt,
		&challenge.ConsumedAt,
		&challenge.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, recoveryDomain.ErrChallengeNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get step-up challenge")
	}

	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse challenge id")
	}
	challenge.ID = id

	return &challenge, nil
}

// Consume marks a challenge as spent. The consumed_at guard makes a code
// single-use even under concurrent verification attempts.
func (m *MySQLChallengeRepository) Consume(ctx context.Context, id uuid.UUID, consumedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE stepup_challenges
			  SET consumed_at = ?
			  WHERE id = ? AND consumed_at IS NULL`

	result, err := querier.ExecContext(ctx, query, consumedAt, id[:])
	if err != nil {
		return apperrors.Wrap(err, "failed to consume step-up challenge")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check consume result")
	}
	if affected == 0 {
		return recoveryDomain.ErrChallengeConsumed
	}

	return nil
}

// DeleteExpired removes challenges whose expiry passed before the cutoff.
func (m *MySQLChallengeRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM stepup_challenges WHERE expires_at < ?`, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired challenges")
	}

	return result.RowsAffected()
}
