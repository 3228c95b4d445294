package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

func testKeyRecord() *keysDomain.KeyRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return &keysDomain.KeyRecord{
		UserID:             "user-1",
		Version:            1,
		Algorithm:          keysDomain.AESGCM,
		WrappedDekPassword: []byte("wrapped-password"),
		PasswordKdfSalt:    []byte("salt-password"),
		MigrationState:     keysDomain.MigrationStateBasic,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func recordColumns() []string {
	return []string{
		"user_id", "version", "algorithm", "wrapped_dek_password", "password_kdf_salt",
		"wrapped_dek_recovery", "recovery_kdf_salt", "encrypted_phrase", "phrase_hash",
		"migration_state", "created_at", "updated_at",
	}
}

func TestPostgreSQLKeyRecordRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLKeyRecordRepository(db)
	record := testKeyRecord()

	mock.ExpectExec("INSERT INTO key_records").
		WithArgs(
			record.UserID,
			record.Version,
			record.Algorithm,
			record.WrappedDekPassword,
			record.PasswordKdfSalt,
			record.WrappedDekRecovery,
			record.RecoveryKdfSalt,
			record.EncryptedPhrase,
			record.PhraseHash,
			record.MigrationState,
			record.CreatedAt,
			record.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), record)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLKeyRecordRepository_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLKeyRecordRepository(db)
		record := testKeyRecord()

		rows := sqlmock.NewRows(recordColumns()).AddRow(
			record.UserID,
			record.Version,
			record.Algorithm,
			record.WrappedDekPassword,
			record.PasswordKdfSalt,
			nil,
			nil,
			nil,
			"",
			record.MigrationState,
			record.CreatedAt,
			record.UpdatedAt,
		)

		mock.ExpectQuery("SELECT (.+) FROM key_records").
			WithArgs(record.UserID).
			WillReturnRows(rows)

		got, err := repo.Get(context.Background(), record.UserID)
		require.NoError(t, err)
		assert.Equal(t, record.UserID, got.UserID)
		assert.Equal(t, record.WrappedDekPassword, got.WrappedDekPassword)
		assert.Equal(t, keysDomain.MigrationStateBasic, got.MigrationState)
		assert.False(t, got.HasRecovery())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLKeyRecordRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM key_records").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(recordColumns()))

		got, err := repo.Get(context.Background(), "missing")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, keysDomain.ErrKeyRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLKeyRecordRepository_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLKeyRecordRepository(db)
		record := testKeyRecord()
		record.Version = 2

		mock.ExpectExec("UPDATE key_records").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Update(context.Background(), record, 1)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLKeyRecordRepository(db)
		record := testKeyRecord()
		record.Version = 2

		mock.ExpectExec("UPDATE key_records").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Update(context.Background(), record, 1)
		assert.ErrorIs(t, err, keysDomain.ErrStaleRecord)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
