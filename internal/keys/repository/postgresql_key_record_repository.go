// Package repository implements key record persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/prayerbox/keyguard/internal/database"
	apperrors "github.com/prayerbox/keyguard/internal/errors"
	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

// PostgreSQLKeyRecordRepository implements key record persistence for PostgreSQL.
// Uses native BYTEA columns with transaction support via database.GetTx().
type PostgreSQLKeyRecordRepository struct {
	db *sql.DB
}

// NewPostgreSQLKeyRecordRepository creates a new PostgreSQL key record repository.
func NewPostgreSQLKeyRecordRepository(db *sql.DB) *PostgreSQLKeyRecordRepository {
	return &PostgreSQLKeyRecordRepository{db: db}
}

// Create inserts a new key record into the PostgreSQL database.
func (p *PostgreSQLKeyRecordRepository) Create(ctx context.Context, record *keysDomain.KeyRecord) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO key_records (user_id, version, algorithm, wrapped_dek_password, password_kdf_salt,
				  wrapped_dek_recovery, recovery_kdf_salt, encrypted_phrase, phrase_hash,
				  migration_state, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

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

// Get retrieves a key record by user ID from the PostgreSQL database.
func (p *PostgreSQLKeyRecordRepository) Get(
	ctx context.Context,
	userID string,
) (*keysDomain.KeyRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT user_id, version, algorithm, wrapped_dek_password, password_kdf_salt,
				  wrapped_dek_recovery, recovery_kdf_salt, encrypted_phrase, phrase_hash,
				  migration_state, created_at, updated_at
			  FROM key_records
			  WHERE user_id = $1`

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
func (p *PostgreSQLKeyRecordRepository) Update(
	ctx context.Context,
	record *keysDomain.KeyRecord,
	expectedVersion uint,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE key_records
			  SET version = $1,
				  algorithm = $2,
				  wrapped_dek_password = $3,
				  password_kdf_salt = $4,
				  wrapped_dek_recovery = $5,
				  recovery_kdf_salt = $6,
				  encrypted_phrase = $7,
				  phrase_hash = $8,
				  migration_state = $9,
				  updated_at = $10
			  WHERE user_id = $11 AND version = $12`

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
