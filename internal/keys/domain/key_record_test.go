package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationState(t *testing.T) {
	t.Run("valid states", func(t *testing.T) {
		assert.True(t, MigrationStateNone.Valid())
		assert.True(t, MigrationStateBasic.Valid())
		assert.True(t, MigrationStateUpgraded.Valid())
		assert.False(t, MigrationState("partial").Valid())
	})

	t.Run("forward transitions only", func(t *testing.T) {
		assert.True(t, MigrationStateNone.CanTransition(MigrationStateBasic))
		assert.True(t, MigrationStateBasic.CanTransition(MigrationStateUpgraded))

		assert.False(t, MigrationStateNone.CanTransition(MigrationStateUpgraded))
		assert.False(t, MigrationStateBasic.CanTransition(MigrationStateNone))
		assert.False(t, MigrationStateUpgraded.CanTransition(MigrationStateBasic))
		assert.False(t, MigrationStateUpgraded.CanTransition(MigrationStateUpgraded))
	})
}

func TestKeyRecordHasRecovery(t *testing.T) {
	t.Run("basic record has no recovery", func(t *testing.T) {
		record := &KeyRecord{MigrationState: MigrationStateBasic}
		assert.False(t, record.HasRecovery())
	})

	t.Run("upgraded record with wrap and salt", func(t *testing.T) {
		record := &KeyRecord{
			MigrationState:     MigrationStateUpgraded,
			WrappedDekRecovery: []byte("wrapped"),
			RecoveryKdfSalt:    []byte("salt"),
		}
		assert.True(t, record.HasRecovery())
	})

	t.Run("upgraded state without material is not usable", func(t *testing.T) {
		record := &KeyRecord{MigrationState: MigrationStateUpgraded}
		assert.False(t, record.HasRecovery())
	})
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)

	// Zeroing nil must not panic
	Zero(nil)
}
