// Package domain defines the core models for envelope encryption of user data keys.
//
// Each user owns a single Data Encryption Key (DEK). The DEK is wrapped under a
// password-derived Key Encryption Key and, once recovery is enrolled, additionally
// under a recovery-phrase-derived KEK. Only wrapped forms are ever persisted.
package domain

import (
	"time"
)

// KeyRecord is the persisted envelope for a single user's DEK.
// The plaintext DEK never appears here: both wraps carry the AEAD nonce
// prepended to the ciphertext.
type KeyRecord struct {
	UserID             string         // Owning user identifier
	Version            uint           // Incremented on every rewrap (password rotation, recovery enrollment)
	Algorithm          Algorithm      // AEAD used for both wraps
	WrappedDekPassword []byte         // DEK wrapped under the password-derived KEK
	PasswordKdfSalt    []byte         // Salt for deriving the password KEK
	WrappedDekRecovery []byte         // DEK wrapped under the recovery KEK (nil until upgraded)
	RecoveryKdfSalt    []byte         // Salt for deriving the recovery KEK (nil until upgraded)
	EncryptedPhrase    []byte         // Recovery phrase encrypted under the DEK (nil until upgraded)
	PhraseHash         string         // Verifier hash of the normalized recovery phrase (empty until upgraded)
	MigrationState     MigrationState // Enrollment progress, monotonically increasing
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasRecovery reports whether the record carries a usable recovery wrap.
func (r *KeyRecord) HasRecovery() bool {
	return r.MigrationState == MigrationStateUpgraded &&
		len(r.WrappedDekRecovery) > 0 &&
		len(r.RecoveryKdfSalt) > 0
}
