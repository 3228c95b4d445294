// Package domain defines the models for recovery enrollment and step-up verification.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// StepUpChallenge is a short-lived one-time code gating sensitive reveals.
//
// Only the SHA-256 hash of the code is persisted. A challenge is spent the
// moment it verifies successfully; ConsumedAt records when.
type StepUpChallenge struct {
	ID         uuid.UUID
	UserID     string
	CodeHash   string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Usable reports whether the challenge can still be consumed at the given time.
func (c *StepUpChallenge) Usable(now time.Time) bool {
	return c.ConsumedAt == nil && now.Before(c.ExpiresAt)
}
