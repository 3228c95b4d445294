// Package service provides recovery phrase generation and step-up code services.
package service

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/allisson/go-pwdhash"
	"github.com/tyler-smith/go-bip39/wordlists"

	apperrors "github.com/prayerbox/keyguard/internal/errors"
	recoveryDomain "github.com/prayerbox/keyguard/internal/recovery/domain"
)

// phraseWordCount is the number of words in a recovery phrase.
// Six words drawn uniformly from a 2048-word list carry 66 bits of entropy.
const phraseWordCount = 6

// PhraseService generates, normalizes, and verifies six-word recovery phrases.
//
// Phrases are drawn from the standard 2048-word English mnemonic list, which
// was designed for unambiguous transcription: no two words share their first
// four letters.
type PhraseService interface {
	// Generate produces a fresh normalized six-word phrase.
	Generate() (string, error)

	// Normalize lowercases the phrase and collapses whitespace to single spaces.
	Normalize(phrase string) string

	// Validate checks that the normalized phrase is exactly six known words.
	Validate(phrase string) error

	// LastWord returns the final word of a valid phrase.
	LastWord(phrase string) (string, error)

	// Hash produces an Argon2id verifier hash of the normalized phrase.
	Hash(phrase string) (string, error)

	// Verify compares a phrase against its verifier hash in constant time.
	Verify(phrase, hash string) bool
}

// phraseService implements PhraseService.
type phraseService struct {
	hasher *pwdhash.PasswordHasher
	words  []string
	known  map[string]bool
}

// NewPhraseService creates a PhraseService backed by the English wordlist.
func NewPhraseService() PhraseService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	known := make(map[string]bool, len(wordlists.English))
	for _, w := range wordlists.English {
		known[w] = true
	}

	return &phraseService{
		hasher: hasher,
		words:  wordlists.English,
		known:  known,
	}
}

// Generate produces a fresh normalized six-word phrase.
// Each word is chosen uniformly and independently using crypto/rand.
func (p *phraseService) Generate() (string, error) {
	listLen := big.NewInt(int64(len(p.words)))

	picked := make([]string, phraseWordCount)
	for i := range picked {
		n, err := rand.Int(rand.Reader, listLen)
		if err != nil {
			return "", apperrors.Wrap(err, "failed to pick phrase word")
		}
		picked[i] = p.words[n.Int64()]
	}

	return strings.Join(picked, " "), nil
}

// Normalize lowercases the phrase and collapses whitespace to single spaces.
// Applied before every hash, wrap, and comparison so transcription quirks
// never cost a user their data.
func (p *phraseService) Normalize(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// Validate checks that the normalized phrase is exactly six known words.
func (p *phraseService) Validate(phrase string) error {
	words := strings.Fields(p.Normalize(phrase))
	if len(words) != phraseWordCount {
		return recoveryDomain.ErrMalformedPhrase
	}
	for _, w := range words {
		if !p.known[w] {
			return recoveryDomain.ErrMalformedPhrase
		}
	}
	return nil
}

// LastWord returns the final word of a valid phrase.
func (p *phraseService) LastWord(phrase string) (string, error) {
	if err := p.Validate(phrase); err != nil {
		return "", err
	}
	words := strings.Fields(p.Normalize(phrase))
	return words[len(words)-1], nil
}

// Hash produces an Argon2id verifier hash of the normalized phrase.
// The hash lets the server reject a mistyped phrase cheaply without it ever
// being able to recompute the recovery KEK (which also needs the KDF salt).
func (p *phraseService) Hash(phrase string) (string, error) {
	hashed, err := p.hasher.Hash([]byte(p.Normalize(phrase)))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash recovery phrase")
	}
	return hashed, nil
}

// Verify compares a phrase against its verifier hash in constant time.
func (p *phraseService) Verify(phrase, hash string) bool {
	ok, err := p.hasher.Verify([]byte(p.Normalize(phrase)), hash)
	if err != nil {
		return false
	}
	return ok
}
