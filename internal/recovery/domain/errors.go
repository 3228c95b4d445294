package domain

import (
	"github.com/prayerbox/keyguard/internal/errors"
)

// Recovery flow error definitions.
var (
	// ErrChallengeNotFound indicates no matching step-up challenge exists.
	//
	// HTTP Status: 401 Unauthorized
	ErrChallengeNotFound = errors.Wrap(errors.ErrUnauthorized, "step-up challenge not found")

	// ErrChallengeExpired indicates the step-up code was presented too late.
	//
	// HTTP Status: 401 Unauthorized
	ErrChallengeExpired = errors.Wrap(errors.ErrUnauthorized, "step-up challenge expired")

	// ErrChallengeConsumed indicates the step-up code was already used.
	//
	// HTTP Status: 401 Unauthorized
	ErrChallengeConsumed = errors.Wrap(errors.ErrUnauthorized, "step-up challenge already used")

	// ErrMalformedPhrase indicates the recovery phrase has the wrong shape.
	//
	// Returned before any cryptographic work when the phrase is not exactly
	// six known words.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrMalformedPhrase = errors.Wrap(errors.ErrInvalidInput, "malformed recovery phrase")

	// ErrSaveNotConfirmed indicates the last-word check failed.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrSaveNotConfirmed = errors.Wrap(errors.ErrInvalidInput, "recovery phrase save not confirmed")
)
