package dto

import (
	contentDomain "github.com/prayerbox/keyguard/internal/content/domain"
)

// EncryptPayloadResponse carries the encrypted blob back to the caller.
type EncryptPayloadResponse struct {
	Ciphertext    string `json:"ciphertext"`
	IV            string `json:"iv"`
	SchemaVersion int    `json:"schemaVersion"`
}

// MapBlobToResponse converts a domain blob to an API response.
func MapBlobToResponse(blob *contentDomain.EncryptedBlob) EncryptPayloadResponse {
	return EncryptPayloadResponse{
		Ciphertext:    blob.Ciphertext,
		IV:            blob.IV,
		SchemaVersion: blob.SchemaVersion,
	}
}

// DecryptPayloadResponse carries the recovered plaintext as standard base64.
type DecryptPayloadResponse struct {
	Plaintext string `json:"plaintext"`
}
