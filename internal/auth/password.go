package auth

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is enforced by the signup, reset and change-password
// handlers, not by the hasher itself.
const MinPasswordLength = 6

// HashPassword produces a salted bcrypt digest; the salt is embedded in the
// output so nothing besides the digest needs to be stored.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored digest. A
// malformed digest is treated as a mismatch, never an error.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
