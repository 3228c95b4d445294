package service

import (
	"context"
	"fmt"
)

// RecordSealer applies an optional KMS-backed outer layer to blobs before
// they are persisted. When no keeper is configured the sealer passes blobs
// through unchanged, so callers never branch on deployment configuration.
type RecordSealer struct {
	keeper Keeper
}

// NewRecordSealer creates a RecordSealer. A nil keeper disables sealing.
func NewRecordSealer(keeper Keeper) *RecordSealer {
	return &RecordSealer{keeper: keeper}
}

// Seal encrypts the blob under the configured keeper.
func (s *RecordSealer) Seal(ctx context.Context, blob []byte) ([]byte, error) {
	if s.keeper == nil || blob == nil {
		return blob, nil
	}

	sealed, err := s.keeper.Encrypt(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to seal record blob: %w", err)
	}
	return sealed, nil
}

// Open decrypts a blob previously sealed with Seal.
func (s *RecordSealer) Open(ctx context.Context, blob []byte) ([]byte, error) {
	if s.keeper == nil || blob == nil {
		return blob, nil
	}

	opened, err := s.keeper.Decrypt(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to open record blob: %w", err)
	}
	return opened, nil
}

// Close releases the underlying keeper.
func (s *RecordSealer) Close() error {
	if s.keeper == nil {
		return nil
	}
	return s.keeper.Close()
}
