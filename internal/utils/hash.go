package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret returns a bcrypt hash of the provided secret.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecretHash compares a bcrypt hash with its possible plaintext equivalent.
func CheckSecretHash(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// CheckSecret compares two plaintext secrets in constant time.
func CheckSecret(expected, provided string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
