// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/prayerbox/keyguard/internal/validation"
)

// minPasswordLength is the minimum accepted password length for new passwords.
const minPasswordLength = 8

// SetupKeyRequest contains the parameters for provisioning a key envelope.
type SetupKeyRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate checks if the setup request is valid.
func (r *SetupKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password,
			validation.Required,
			customValidation.PasswordStrength{MinLength: minPasswordLength},
		),
	)
}

// UnlockRequest contains the parameters for unlocking a session.
type UnlockRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate checks if the unlock request is valid.
func (r *UnlockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
	)
}

// LockRequest contains the parameters for locking a session.
type LockRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Validate checks if the lock request is valid.
func (r *LockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
	)
}

// RotatePasswordRequest contains the parameters for rotating the wrap password.
type RotatePasswordRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// Validate checks if the rotate password request is valid.
func (r *RotatePasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword,
			validation.Required,
			customValidation.PasswordStrength{MinLength: minPasswordLength},
		),
	)
}
