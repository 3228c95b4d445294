// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	contentDomain "github.com/prayerbox/keyguard/internal/content/domain"
	customValidation "github.com/prayerbox/keyguard/internal/validation"
)

// EncryptPayloadRequest contains the parameters for encrypting a payload.
// The plaintext is standard base64 so arbitrary bytes survive JSON transport.
type EncryptPayloadRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	ContextID string `json:"context_id" binding:"required"`
	Plaintext string `json:"plaintext" binding:"required"`
}

// Validate checks if the encrypt request is valid.
func (r *EncryptPayloadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.ContextID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Plaintext, validation.Required, customValidation.Base64),
	)
}

// DecryptPayloadRequest contains the parameters for decrypting a payload.
type DecryptPayloadRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	ContextID     string `json:"context_id" binding:"required"`
	Ciphertext    string `json:"ciphertext" binding:"required"`
	IV            string `json:"iv" binding:"required"`
	SchemaVersion int    `json:"schemaVersion" binding:"required"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptPayloadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.ContextID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Ciphertext, validation.Required, customValidation.Base64),
		validation.Field(&r.IV, validation.Required, customValidation.Base64),
		validation.Field(&r.SchemaVersion, validation.Required),
	)
}

// ToBlob converts the decrypt request body into the domain blob form.
func (r *DecryptPayloadRequest) ToBlob() *contentDomain.EncryptedBlob {
	return &contentDomain.EncryptedBlob{
		Ciphertext:    r.Ciphertext,
		IV:            r.IV,
		SchemaVersion: r.SchemaVersion,
	}
}
