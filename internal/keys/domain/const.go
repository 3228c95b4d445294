package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data (AEAD),
// ensuring both confidentiality and authenticity of encrypted data.
//
// Algorithm selection guidelines:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on mobile devices or systems without AES-NI
//   - Both provide equivalent 256-bit security when used correctly
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// It uses a 256-bit key, a 12-byte nonce and a 16-byte authentication tag,
	// and performs well on hardware with AES-NI acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// It uses a 256-bit key, a 12-byte nonce and a 16-byte authentication tag,
	// with a constant-time software implementation suited to platforms without
	// AES hardware acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// MigrationState tracks how far a user's key material has progressed through
// the recovery enrollment flow. The state only ever moves forward.
type MigrationState string

const (
	// MigrationStateNone means no key record exists yet for the user.
	MigrationStateNone MigrationState = "none"

	// MigrationStateBasic means the DEK is wrapped under the password only.
	// Losing the password at this stage means losing the data.
	MigrationStateBasic MigrationState = "basic"

	// MigrationStateUpgraded means a recovery wrap exists alongside the
	// password wrap, so either credential can unlock the DEK.
	MigrationStateUpgraded MigrationState = "upgraded"
)

// Valid reports whether s is one of the known migration states.
func (s MigrationState) Valid() bool {
	switch s {
	case MigrationStateNone, MigrationStateBasic, MigrationStateUpgraded:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal forward step.
// Transitions never move backwards.
func (s MigrationState) CanTransition(next MigrationState) bool {
	switch s {
	case MigrationStateNone:
		return next == MigrationStateBasic
	case MigrationStateBasic:
		return next == MigrationStateUpgraded
	case MigrationStateUpgraded:
		return false
	}
	return false
}
