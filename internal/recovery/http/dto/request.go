// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/prayerbox/keyguard/internal/validation"
)

// minPasswordLength is the minimum accepted password length for new passwords.
const minPasswordLength = 8

// phraseWordCount is the expected number of words in a recovery phrase.
const phraseWordCount = 6

// SetupRecoveryRequest contains the parameters for enrolling a recovery phrase.
type SetupRecoveryRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate checks if the setup recovery request is valid.
func (r *SetupRecoveryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
	)
}

// ConfirmSavedRequest contains the parameters for the save confirmation check.
type ConfirmSavedRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	LastWord string `json:"last_word" binding:"required"`
}

// Validate checks if the confirm saved request is valid.
func (r *ConfirmSavedRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.LastWord, validation.Required, customValidation.NotBlank),
	)
}

// RestoreRequest contains the parameters for restoring access with a recovery phrase.
type RestoreRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	Phrase      string `json:"phrase" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Validate checks if the restore request is valid.
// The phrase shape is checked here; word membership is left to the use case
// so malformed and wrong phrases fail identically there.
func (r *RestoreRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Phrase,
			validation.Required,
			customValidation.WordCount{Count: phraseWordCount},
		),
		validation.Field(&r.NewPassword,
			validation.Required,
			customValidation.PasswordStrength{MinLength: minPasswordLength},
		),
	)
}

// ChallengeRequest contains the parameters for issuing a step-up challenge.
type ChallengeRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Validate checks if the challenge request is valid.
func (r *ChallengeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
	)
}

// RevealRequest contains the parameters for revealing the enrolled phrase.
type RevealRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// Validate checks if the reveal request is valid.
func (r *RevealRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Code, validation.Required, customValidation.NotBlank),
	)
}
