// Package auth implements the credential and session primitives for the
// panel: bcrypt password hashing, HMAC-signed session tokens, and the
// session cookie transport.
package auth

import "golang.org/x/crypto/bcrypt"

// passwordCost is the bcrypt work factor. Each hash embeds its own salt, so
// identical passwords still produce distinct hashes.
const passwordCost = 10

// HashPassword hashes a plaintext password for storage. The plaintext is
// never persisted or logged anywhere else.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// The comparison is constant-time inside bcrypt; a malformed hash yields
// false rather than an error, so callers can treat any mismatch uniformly.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
