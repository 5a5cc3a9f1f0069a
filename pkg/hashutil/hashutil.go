// Package hashutil wraps bcrypt for credential storage and verification.
package hashutil

import "golang.org/x/crypto/bcrypt"

// HashPassword applies a salted adaptive hash to the password. Each call
// produces a different hash for the same input.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches the stored hash.
// Returns false for any mismatch, including malformed hash strings.
func VerifyPassword(password, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
