// Package repository implements step-up challenge persistence for PostgreSQL and MySQL.
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

// PostgreSQLChallengeRepository implements step-up challenge persistence for PostgreSQL.
type PostgreSQLChallengeRepository struct {
	db *sql.DB
}

// NewPostgreSQLChallengeRepository creates a new PostgreSQL challenge repository.
func NewPostgreSQLChallengeRepository(db *sql.DB) *PostgreSQLChallengeRepository {
	return &PostgreSQLChallengeRepository{db: db}
}

// Create inserts a new step-up challenge.
func (p *PostgreSQLChallengeRepository) Create(ctx context.Context, challenge *recoveryDomain.StepUpChallenge) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO stepup_challenges (id, user_id, code_hash, expires_at, consumed_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		challenge.ID,
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
func (p *PostgreSQLChallengeRepository) GetByHash(
	ctx context.Context,
	userID, codeHash string,
) (*recoveryDomain.StepUpChallenge, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, code_hash, expires_at, consumed_at, created_at
			  FROM stepup_challenges
			  WHERE user_id = $1 AND code_hash = $2
			  ORDER BY created_at DESC
			  LIMIT 1`

	var challenge recoveryDomain.StepUpChallenge
	err := querier.QueryRowContext(ctx, query, userID, codeHash).Scan(
		&challenge.ID,
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

	return &challenge, nil
}

// Consume marks a challenge as spent. The consumed_at guard makes a code
// single-use even under concurrent verification attempts.
func (p *PostgreSQLChallengeRepository) Consume(ctx context.Context, id uuid.UUID, consumedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE stepup_challenges
			  SET consumed_at = $1
			  WHERE id = $2 AND consumed_at IS NULL`

	result, err := querier.ExecContext(ctx, query, consumedAt, id)
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
// Called periodically; expired rows are dead weight either way since
// verification checks expires_at.
func (p *PostgreSQLChallengeRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM stepup_challenges WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired challenges")
	}

	return result.RowsAffected()
}
