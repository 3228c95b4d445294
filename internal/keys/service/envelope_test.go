package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

func newTestEnvelope(t *testing.T, alg keysDomain.Algorithm) *EnvelopeService {
	t.Helper()
	// Low KDF cost keeps the suite fast; production parameters come from config.
	kdf := NewArgon2Kdf(1, 8*1024, 1)
	return NewEnvelopeService(kdf, NewAEADManager(), alg)
}

func TestEnvelopeService_WrapUnwrap(t *testing.T) {
	for _, alg := range []keysDomain.Algorithm{keysDomain.AESGCM, keysDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			env := newTestEnvelope(t, alg)

			dek, err := env.GenerateDek()
			require.NoError(t, err)
			require.Len(t, dek, 32)

			salt, err := env.GenerateSalt()
			require.NoError(t, err)
			require.Len(t, salt, 16)

			blob, err := env.Wrap(dek, "correct horse", salt, PurposePasswordWrap, "user-1")
			require.NoError(t, err)
			assert.NotContains(t, string(blob), string(dek))

			unwrapped, err := env.Unwrap(blob, "correct horse", salt, PurposePasswordWrap, "user-1")
			require.NoError(t, err)
			assert.Equal(t, dek, unwrapped)
		})
	}
}

func TestEnvelopeService_UnwrapFailures(t *testing.T) {
	env := newTestEnvelope(t, keysDomain.AESGCM)

	dek, err := env.GenerateDek()
	require.NoError(t, err)
	salt, err := env.GenerateSalt()
	require.NoError(t, err)

	blob, err := env.Wrap(dek, "correct horse", salt, PurposePasswordWrap, "user-1")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := env.Unwrap(blob, "wrong horse", salt, PurposePasswordWrap, "user-1")
		assert.Error(t, err)
	})

	t.Run("wrong salt", func(t *testing.T) {
		otherSalt, err := env.GenerateSalt()
		require.NoError(t, err)
		_, err = env.Unwrap(blob, "correct horse", otherSalt, PurposePasswordWrap, "user-1")
		assert.Error(t, err)
	})

	t.Run("wrong purpose", func(t *testing.T) {
		_, err := env.Unwrap(blob, "correct horse", salt, PurposeRecoveryWrap, "user-1")
		assert.Error(t, err)
	})

	t.Run("wrong user", func(t *testing.T) {
		_, err := env.Unwrap(blob, "correct horse", salt, PurposePasswordWrap, "user-2")
		assert.Error(t, err)
	})

	t.Run("truncated blob", func(t *testing.T) {
		_, err := env.Unwrap(blob[:8], "correct horse", salt, PurposePasswordWrap, "user-1")
		assert.ErrorIs(t, err, keysDomain.ErrIntegrity)
	})

	t.Run("tampered blob", func(t *testing.T) {
		tampered := append([]byte(nil), blob...)
		tampered[len(tampered)-1] ^= 0xFF
		_, err := env.Unwrap(tampered, "correct horse", salt, PurposePasswordWrap, "user-1")
		assert.Error(t, err)
	})
}

func TestEnvelopeService_DualWrapEquivalence(t *testing.T) {
	// The same DEK wrapped under two independent credentials must unwrap to
	// identical bytes through either path.
	env := newTestEnvelope(t, keysDomain.AESGCM)

	dek, err := env.GenerateDek()
	require.NoError(t, err)

	passwordSalt, err := env.GenerateSalt()
	require.NoError(t, err)
	recoverySalt, err := env.GenerateSalt()
	require.NoError(t, err)

	passwordBlob, err := env.Wrap(dek, "my password", passwordSalt, PurposePasswordWrap, "user-1")
	require.NoError(t, err)
	recoveryBlob, err := env.Wrap(dek, "abandon ability able about above absent", recoverySalt, PurposeRecoveryWrap, "user-1")
	require.NoError(t, err)

	fromPassword, err := env.Unwrap(passwordBlob, "my password", passwordSalt, PurposePasswordWrap, "user-1")
	require.NoError(t, err)
	fromRecovery, err := env.Unwrap(recoveryBlob, "abandon ability able about above absent", recoverySalt, PurposeRecoveryWrap, "user-1")
	require.NoError(t, err)

	assert.Equal(t, fromPassword, fromRecovery)
}

func TestEnvelopeService_EncryptWithDek(t *testing.T) {
	env := newTestEnvelope(t, keysDomain.AESGCM)

	dek, err := env.GenerateDek()
	require.NoError(t, err)

	plaintext := []byte("six word recovery phrase here now")
	aad := []byte("phrase-encryption:user-1")

	blob, err := env.EncryptWithDek(plaintext, dek, aad)
	require.NoError(t, err)

	decrypted, err := env.DecryptWithDek(blob, dek, aad)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)

	t.Run("wrong aad fails", func(t *testing.T) {
		_, err := env.DecryptWithDek(blob, dek, []byte("phrase-encryption:user-2"))
		assert.Error(t, err)
	})

	t.Run("wrong dek fails", func(t *testing.T) {
		otherDek, err := env.GenerateDek()
		require.NoError(t, err)
		_, err = env.DecryptWithDek(blob, otherDek, aad)
		assert.Error(t, err)
	})
}

func TestEnvelopeService_RejectsMalformedSalt(t *testing.T) {
	env := newTestEnvelope(t, keysDomain.AESGCM)

	dek, err := env.GenerateDek()
	require.NoError(t, err)

	t.Run("wrap with nil salt", func(t *testing.T) {
		_, err := env.Wrap(dek, "correct horse", nil, PurposePasswordWrap, "user-1")
		assert.ErrorIs(t, err, keysDomain.ErrFatalCrypto)
	})

	t.Run("unwrap with nil salt", func(t *testing.T) {
		salt, err := env.GenerateSalt()
		require.NoError(t, err)
		blob, err := env.Wrap(dek, "correct horse", salt, PurposePasswordWrap, "user-1")
		require.NoError(t, err)

		_, err = env.Unwrap(blob, "correct horse", nil, PurposePasswordWrap, "user-1")
		assert.ErrorIs(t, err, keysDomain.ErrFatalCrypto)
	})
}

func TestEnvelopeService_WrapRejectsBadDek(t *testing.T) {
	env := newTestEnvelope(t, keysDomain.AESGCM)

	salt, err := env.GenerateSalt()
	require.NoError(t, err)

	_, err = env.Wrap([]byte("short"), "secret", salt, PurposePasswordWrap, "user-1")
	assert.ErrorIs(t, err, keysDomain.ErrInvalidKeySize)
}
