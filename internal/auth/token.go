package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenBytes is the entropy of session and reset tokens. 32 bytes
// gives 256 bits of randomness; guessing is infeasible.
const tokenBytes = 32

// generateToken returns a URL-safe random token string.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
