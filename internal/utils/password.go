package utils

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	digestSize = 20
	iterations = 10000
)

// HashPassword derives a salted PBKDF2 digest from the password and
// returns base64(salt || digest).
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(password), salt, iterations, digestSize, sha1.New)

	encoded := make([]byte, 0, saltSize+digestSize)
	encoded = append(encoded, salt...)
	encoded = append(encoded, digest...)
	return base64.StdEncoding.EncodeToString(encoded), nil
}

// CheckPasswordHash re-derives the digest using the salt stored in the
// encoded value and compares it in constant time. Returns false for any
// malformed stored value.
func CheckPasswordHash(password, stored string) bool {
	decoded, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return false
	}
	if len(decoded) != saltSize+digestSize {
		return false
	}

	salt := decoded[:saltSize]
	digest := pbkdf2.Key([]byte(password), salt, iterations, digestSize, sha1.New)

	return subtle.ConstantTimeCompare(decoded[saltSize:], digest) == 1
}
