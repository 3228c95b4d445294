package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

func TestMySQLKeyRecordRepository_CreateAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLKeyRecordRepository(db)
	record := testKeyRecord()

	mock.ExpectExec("INSERT INTO key_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), record))

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
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLKeyRecordRepository_UpdateStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLKeyRecordRepository(db)
	record := testKeyRecord()
	record.Version = 2

	mock.ExpectExec("UPDATE key_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), record, 1)
	assert.ErrorIs(t, err, keysDomain.ErrStaleRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}
