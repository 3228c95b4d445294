package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		err := Wrap(ErrNotFound, "key record lookup")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "key record lookup: not found", err.Error())
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("preserves chain across multiple wraps", func(t *testing.T) {
		err := Wrap(Wrap(ErrInvalidInput, "inner"), "outer")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestIs(t *testing.T) {
	err := Wrap(ErrUnauthorized, "session expired")
	assert.True(t, Is(err, ErrUnauthorized))
	assert.False(t, Is(err, ErrNotFound))
}
