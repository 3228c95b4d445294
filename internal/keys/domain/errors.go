package domain

import (
	"github.com/prayerbox/keyguard/internal/errors"
)

// Key management error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for key management failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305)
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// DEKs and derived KEKs must be exactly 32 bytes (256 bits) for both
	// AES-256-GCM and ChaCha20-Poly1305.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrFatalCrypto indicates a cryptographic primitive was invoked with
	// inputs that can never produce a safe result.
	//
	// Raised for missing or undersized KDF salts and empty secrets. Not
	// retryable: deriving a key from such inputs would silently weaken the
	// wrap, so the operation refuses instead.
	//
	// HTTP Status: 500 Internal Server Error
	ErrFatalCrypto = errors.Wrap(errors.ErrInternal, "crypto primitive misuse")

	// ErrWrongPassword indicates the password failed to unwrap the DEK.
	//
	// Deliberately indistinguishable from the record being absent so that
	// unlock attempts leak nothing about account existence.
	//
	// HTTP Status: 401 Unauthorized
	ErrWrongPassword = errors.Wrap(errors.ErrUnauthorized, "wrong password")

	// ErrInvalidRecoveryCode indicates the recovery phrase failed to unwrap the DEK.
	//
	// Returned for malformed phrases, phrases that fail the verifier hash,
	// and phrases that fail the AEAD unwrap, without distinguishing between them.
	//
	// HTTP Status: 401 Unauthorized
	ErrInvalidRecoveryCode = errors.Wrap(errors.ErrUnauthorized, "invalid recovery code")

	// ErrIntegrity indicates a payload failed AEAD authentication.
	//
	// This can mean tampering, corruption, or decryption under the wrong
	// context. The specific cause is not disclosed.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrIntegrity = errors.Wrap(errors.ErrInvalidInput, "integrity check failed")

	// ErrLostCredentials indicates no credential can ever unwrap the DEK again.
	//
	// Reached when the password is lost and the record carries no recovery
	// wrap. The data is cryptographically unreachable.
	//
	// HTTP Status: 410 Gone
	ErrLostCredentials = errors.Wrap(errors.ErrGone, "credentials lost")

	// ErrRecoveryNotEnrolled indicates the operation requires an upgraded record.
	//
	// Returned when a recovery-path operation is attempted while the record
	// is still in the basic state.
	//
	// HTTP Status: 409 Conflict
	ErrRecoveryNotEnrolled = errors.Wrap(errors.ErrConflict, "recovery not enrolled")

	// ErrAlreadyEnrolled indicates the user already has a key record.
	//
	// HTTP Status: 409 Conflict
	ErrAlreadyEnrolled = errors.Wrap(errors.ErrConflict, "key record already exists")

	// ErrKeyRecordNotFound indicates no key record exists for the user.
	//
	// Callers on the unlock paths must fold this into ErrWrongPassword or
	// ErrInvalidRecoveryCode before it reaches a client.
	//
	// HTTP Status: 404 Not Found
	ErrKeyRecordNotFound = errors.Wrap(errors.ErrNotFound, "key record not found")

	// ErrStaleRecord indicates an update raced with a concurrent rewrap.
	//
	// HTTP Status: 409 Conflict
	ErrStaleRecord = errors.Wrap(errors.ErrConflict, "key record version is stale")
)
