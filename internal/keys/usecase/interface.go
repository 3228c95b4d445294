// Package usecase defines the business logic for user key envelope management.
//
// This package contains interface definitions for repositories and use cases
// covering DEK setup, unlock, and password rotation. Implementations coordinate
// the envelope service for cryptographic operations, the repository for
// persistence, and the session cache for unlocked key material.
package usecase

import (
	"context"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

// KeyRecordRepository defines the interface for key record persistence.
//
// Implementations support transaction-aware operations through context
// propagation (via database.GetTx), enabling atomic rewrap workflows.
//
// Available implementations:
//   - PostgreSQLKeyRecordRepository: Uses native BYTEA types
//   - MySQLKeyRecordRepository: Uses VARBINARY/BLOB types
type KeyRecordRepository interface {
	// Create stores a new key record. Fails if the user already has one.
	Create(ctx context.Context, record *keysDomain.KeyRecord) error

	// Get retrieves the key record for a user.
	// Returns ErrKeyRecordNotFound when no record exists.
	Get(ctx context.Context, userID string) (*keysDomain.KeyRecord, error)

	// Update modifies an existing record, guarded by the expected version.
	// Returns ErrStaleRecord when a concurrent rewrap already bumped the version.
	Update(ctx context.Context, record *keysDomain.KeyRecord, expectedVersion uint) error
}

// CredentialRotator is invoked inside the password rotation transaction so the
// authentication credential and the key envelope change together or not at all.
//
// The default implementation is a no-op for deployments where authentication
// lives in a separate system that is updated first.
type CredentialRotator interface {
	RotateCredential(ctx context.Context, userID, newPassword string) error
}

// Diagnosis describes what a user can still do with their key material.
type Diagnosis struct {
	// State is the record's migration state (none when no record exists).
	State keysDomain.MigrationState

	// RecoveryAvailable reports whether a recovery wrap can unlock the DEK.
	RecoveryAvailable bool

	// Version is the record version, zero when no record exists.
	Version uint
}

// KeyUseCase defines the business operations on a user's key envelope.
//
// Unlocked DEKs never leave the process: Unlock places the DEK in the session
// cache, and content operations fetch it from there. Failed unlocks are
// indistinguishable from absent records.
type KeyUseCase interface {
	// Setup provisions the initial key envelope for a user.
	//
	// Generates a fresh DEK, wraps it under the password-derived KEK, and
	// persists the record in the basic state. The user is left unlocked.
	// Returns ErrAlreadyEnrolled if a record already exists.
	Setup(ctx context.Context, userID, password string) error

	// Unlock derives the password KEK, unwraps the DEK, and places it in the
	// session cache. Returns ErrWrongPassword for a bad password or an absent
	// record, without distinguishing between them.
	Unlock(ctx context.Context, userID, password string) error

	// Lock evicts the user's DEK from the session cache.
	Lock(ctx context.Context, userID string) error

	// RotatePassword rewraps the DEK under a KEK derived from the new password.
	//
	// The DEK itself does not change, so existing content stays readable. The
	// rewrap, the version bump, and the credential rotation happen in one
	// transaction, serialized per user. Returns ErrWrongPassword if the current
	// password fails to unwrap.
	RotatePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	// Diagnose reports the state of a user's key envelope without requiring
	// any credential. Used by clients to decide which recovery UI to show.
	Diagnose(ctx context.Context, userID string) (*Diagnosis, error)
}
