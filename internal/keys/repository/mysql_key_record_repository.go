package repository

import (
	"context"
	"database/sql"

	"github.com/prayerbox/keyguard/internal/database"
	apperrors "github.com/prayerbox/keyguard/internal/errors"
	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

// MySQLKeyRecordRepository implements key record persistence for MySQL.
// Uses VARBINARY columns with transaction support via database.GetTx().
type MySQLKeyRecordRepository struct {
	db *sql.DB
}

// NewMySQLKeyRecordRepository creates a new MySQL key record repository.
func NewMySQLKeyRecordRepository(db *sql.DB) *MySQLKeyRecordRepository {
	return &MySQLKeyRecordRepository{db: db}
}

// Create inserts a new key record into the MySQL database.
func (m *MySQLKeyRecordRepository) Create(ctx context.Context, record *keysDomain.KeyRecord) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO key_records (user_id, version, algorithm, wrapped_dek_password, password_kdf_salt,
				  wrapped_dek_recovery, recovery_kdf_salt, encrypted_phrase, phrase_hash,
				  migration_state, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create key record")
	}
	return nil
}

// Get retrieves a key record by user ID from the MySQL database.
func (m *MySQLKeyRecordRepository) Get(
	ctx context.Context,
	userID string,
) (*keysDomain.KeyRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT user_id, version, algorithm, wrapped_dek_password, password_kdf_salt,
				  wrapped_dek_recovery, recovery_kdf_salt, encrypted_phrase, phrase_hash,
				  migration_state, created_at, updated_at
			  FROM key_records
			  WHERE user_id = ?`

	var record keysDomain.KeyRecord
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&record.UserID,
		&record.Version,
		&record.Algorithm,
		&record.WrappedDekPassword,
		&record.PasswordKdfSalt,
		&record.WrappedDekRecovery,
		&record.RecoveryKdfSalt,
		&record.EncryptedPhrase,
		&record.PhraseHash,
		&record.MigrationState,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, keysDomain.ErrKeyRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get key record")
	}

	return &record, nil
}

// Update modifies an existing key record, guarded by the expected version.
// Returns ErrStaleRecord when a concurrent rewrap already bumped the version.
func (m *MySQLKeyRecordRepository) Update(
	ctx context.Context,
	record *keysDomain.KeyRecord,
	expectedVersion uint,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE key_records
			  SET version = ?,
				  algorithm = ?,
				  wrapped_dek_password = ?,
				  password_kdf_salt = ?,
				  wrapped_dek_recovery = ?,
				  recovery_kdf_salt = ?,
				  encrypted_phrase = ?,
				  phrase_hash = ?,
				  migration_state = ?,
				  updated_at = ?
			  WHERE user_id = ? AND version = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		record.Version,
		record.Algorithm,
		record.WrappedDekPassword,
		record.PasswordKdfSalt,
		record.WrappedDekRecovery,
		record.RecoveryKdfSalt,
		record.EncryptedPhrase,
		record.PhraseHash,
		record.MigrationState,
		record.UpdatedAt,
		record.UserID,
		expectedVersion,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update key record")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check update result")
	}
	if affected == 0 {
		return keysDomain.ErrStaleRecord
	}

	return nil
}
