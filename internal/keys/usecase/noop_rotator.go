package usecase

import (
	"context"
)

// NoOpCredentialRotator is a CredentialRotator for deployments where the
// authentication credential lives in a separate system updated by the caller
// before the envelope rotation is requested.
type NoOpCredentialRotator struct{}

// NewNoOpCredentialRotator creates a no-op CredentialRotator.
func NewNoOpCredentialRotator() *NoOpCredentialRotator {
	return &NoOpCredentialRotator{}
}

// RotateCredential does nothing.
func (n *NoOpCredentialRotator) RotateCredential(ctx context.Context, userID, newPassword string) error {
	return nil
}
