package auth

import (
	"bytes"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is deliberately above the library default to keep
// offline brute-force expensive.
const bcryptCost = 12

// HashPassword derives a salted bcrypt hash of the password and
// returns it hex-encoded, the at-rest format of the accounts
// password column. The salt is generated fresh per call, so output
// differs between calls for the same input.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SecretKind tags how a stored credential secret is encoded.
type SecretKind int

const (
	// SecretPlaintext marks a legacy row that still stores the raw
	// password. Upgraded to SecretHashed on first successful login.
	SecretPlaintext SecretKind = iota
	// SecretHashed marks a hex-encoded bcrypt hash.
	SecretHashed
)

// Secret is a stored credential in tagged form. Tagging happens at
// parse time from the encoding itself: a value that hex-decodes to a
// bcrypt payload is hashed, anything else is legacy plaintext.
type Secret struct {
	Kind  SecretKind
	Value string
}

// ParseSecret classifies a stored password column value.
func ParseSecret(stored string) Secret {
	if raw, err := hex.DecodeString(stored); err == nil && bytes.HasPrefix(raw, []byte("$2")) {
		return Secret{Kind: SecretHashed, Value: stored}
	}
	return Secret{Kind: SecretPlaintext, Value: stored}
}

// Verify reports whether the candidate password matches the secret.
// A malformed hashed value verifies false rather than erroring; a
// stored secret that cannot be decoded can never match anything.
func (s Secret) Verify(candidate string) bool {
	switch s.Kind {
	case SecretHashed:
		raw, err := hex.DecodeString(s.Value)
		if err != nil {
			return false
		}
		return bcrypt.CompareHashAndPassword(raw, []byte(candidate)) == nil
	default:
		return subtle.ConstantTimeCompare([]byte(s.Value), []byte(candidate)) == 1
	}
}
