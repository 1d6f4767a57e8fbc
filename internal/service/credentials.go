package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// prehash folds a password of any length into 44 bytes, below bcrypt's
// 72-byte input limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// hashPassword hashes a plaintext password using bcrypt over its SHA-256
// digest.
func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// isHashed reports whether stored is a bcrypt hash. Accounts persisted by
// earlier versions of the application carry the raw password instead.
func isHashed(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// passwordMatches compares a provided password with the stored credential,
// hashed or legacy plaintext.
func passwordMatches(stored, provided string) bool {
	if isHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), prehash(provided)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) == 1
}
