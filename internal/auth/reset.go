package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewResetToken generates a high-entropy single-use token for password
// recovery. The plaintext goes into the reset mail; only its digest is
// stored.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashResetToken returns the hex sha256 digest stored on the account.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
