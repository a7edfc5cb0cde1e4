// Package password provides one-way credential hashing.
package password

import "golang.org/x/crypto/bcrypt"

// Hash produces a salted bcrypt digest of the plaintext credential.
// The salt is embedded in the digest, so repeated calls yield distinct output.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest.
// A malformed digest compares as false, never as an error.
func Verify(plaintext string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
