// Package domain defines the wire format for encrypted content payloads.
package domain

import (
	"github.com/prayerbox/keyguard/internal/errors"
)

// SchemaVersion is the current encrypted blob format version.
// Bump it when the blob layout changes so old clients fail loudly
// instead of feeding garbage to the cipher.
const SchemaVersion = 1

// EncryptedBlob is the portable form of an encrypted payload.
//
// Ciphertext and IV are standard base64. The authentication tag rides inside
// the ciphertext. The context the payload was encrypted for is bound as AAD
// and is not part of the blob; decryption must present the same context.
type EncryptedBlob struct {
	Ciphertext    string `json:"ciphertext"`
	IV            string `json:"iv"`
	SchemaVersion int    `json:"schemaVersion"`
}

// Content error definitions.
var (
	// ErrUnsupportedSchema indicates the blob was produced by an unknown format version.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnsupportedSchema = errors.Wrap(errors.ErrInvalidInput, "unsupported blob schema version")

	// ErrSessionLocked indicates no unlocked DEK is available for the user.
	//
	// HTTP Status: 401 Unauthorized
	ErrSessionLocked = errors.Wrap(errors.ErrUnauthorized, "session is locked")
)
