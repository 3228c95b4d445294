package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

func TestArgon2Kdf_Derive(t *testing.T) {
	kdf := NewArgon2Kdf(1, 8*1024, 1)

	salt, err := kdf.GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, 16)

	t.Run("deterministic for same inputs", func(t *testing.T) {
		key1, err := kdf.Derive("password", salt)
		require.NoError(t, err)
		key2, err := kdf.Derive("password", salt)
		require.NoError(t, err)
		assert.Equal(t, key1, key2)
		assert.Len(t, key1, 32)
	})

	t.Run("different secrets give different keys", func(t *testing.T) {
		key1, err := kdf.Derive("password", salt)
		require.NoError(t, err)
		key2, err := kdf.Derive("Password", salt)
		require.NoError(t, err)
		assert.NotEqual(t, key1, key2)
	})

	t.Run("different salts give different keys", func(t *testing.T) {
		otherSalt, err := kdf.GenerateSalt()
		require.NoError(t, err)

		key1, err := kdf.Derive("password", salt)
		require.NoError(t, err)
		key2, err := kdf.Derive("password", otherSalt)
		require.NoError(t, err)
		assert.NotEqual(t, key1, key2)
	})
}

func TestArgon2Kdf_DeriveMalformedInputs(t *testing.T) {
	kdf := NewArgon2Kdf(1, 8*1024, 1)

	t.Run("nil salt", func(t *testing.T) {
		key, err := kdf.Derive("password", nil)
		assert.ErrorIs(t, err, keysDomain.ErrFatalCrypto)
		assert.Nil(t, key)
	})

	t.Run("short salt", func(t *testing.T) {
		key, err := kdf.Derive("password", make([]byte, 8))
		assert.ErrorIs(t, err, keysDomain.ErrFatalCrypto)
		assert.Nil(t, key)
	})

	t.Run("empty secret", func(t *testing.T) {
		salt, err := kdf.GenerateSalt()
		require.NoError(t, err)

		key, err := kdf.Derive("", salt)
		assert.ErrorIs(t, err, keysDomain.ErrFatalCrypto)
		assert.Nil(t, key)
	})
}

func TestArgon2Kdf_GenerateSalt(t *testing.T) {
	kdf := NewArgon2Kdf(1, 8*1024, 1)

	salt1, err := kdf.GenerateSalt()
	require.NoError(t, err)
	salt2, err := kdf.GenerateSalt()
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
}
