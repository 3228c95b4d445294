package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recoveryDomain "github.com/prayerbox/keyguard/internal/recovery/domain"
)

func testChallenge() *recoveryDomain.StepUpChallenge {
	now := time.Now().UTC().Truncate(time.Second)
	return &recoveryDomain.StepUpChallenge{
		ID:        uuid.New(),
		UserID:    "user-1",
		CodeHash:  "deadbeef",
		ExpiresAt: now.Add(10 * time.Minute),
		CreatedAt: now,
	}
}

func challengeColumns() []string {
	return []string{"id", "user_id", "code_hash", "expires_at", "consumed_at", "created_at"}
}

func TestPostgreSQLChallengeRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLChallengeRepository(db)
	challenge := testChallenge()

	mock.ExpectExec("INSERT INTO stepup_challenges").
		WithArgs(
			challenge.ID,
			challenge.UserID,
			challenge.CodeHash,
			challenge.ExpiresAt,
			challenge.ConsumedAt,
			challenge.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.Create(context.Background(), challenge))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLChallengeRepository_GetByHash(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLChallengeRepository(db)
		challenge := testChallenge()

		rows := sqlmock.NewRows(challengeColumns()).AddRow(
			challenge.ID,
			challenge.UserID,
			challenge.CodeHash,
			challenge.ExpiresAt,
			nil,
			challenge.CreatedAt,
		)

		mock.ExpectQuery("SELECT (.+) FROM stepup_challenges").
			WithArgs(challenge.UserID, challenge.CodeHash).
			WillReturnRows(rows)

		got, err := repo.GetByHash(context.Background(), challenge.UserID, challenge.CodeHash)
		require.NoError(t, err)
		assert.Equal(t, challenge.ID, got.ID)
		assert.Nil(t, got.ConsumedAt)
		assert.True(t, got.Usable(time.Now().UTC()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLChallengeRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM stepup_challenges").
			WithArgs("user-1", "nope").
			WillReturnRows(sqlmock.NewRows(challengeColumns()))

		_, err = repo.GetByHash(context.Background(), "user-1", "nope")
		assert.ErrorIs(t, err, recoveryDomain.ErrChallengeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLChallengeRepository_Consume(t *testing.T) {
	t.Run("marks challenge spent", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLChallengeRepository(db)
		id := uuid.New()

		mock.ExpectExec("UPDATE stepup_challenges").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Consume(context.Background(), id, time.Now().UTC()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already consumed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLChallengeRepository(db)
		id := uuid.New()

		mock.ExpectExec("UPDATE stepup_challenges").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Consume(context.Background(), id, time.Now().UTC())
		assert.ErrorIs(t, err, recoveryDomain.ErrChallengeConsumed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLChallengeRepository_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLChallengeRepository(db)

	mock.ExpectExec("DELETE FROM stepup_challenges").
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteExpired(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
