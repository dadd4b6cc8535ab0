package util

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 12

	// bcrypt ignores (x/crypto rejects) input beyond this many bytes.
	bcryptMaxBytes = 72
)

// TruncatePassword cuts password to bcrypt's 72 byte limit. A multi-byte
// character split by the cut is dropped whole.
func TruncatePassword(password string) string {
	if len(password) <= bcryptMaxBytes {
		return password
	}
	cut := bcryptMaxBytes
	for cut > 0 && !utf8.RuneStart(password[cut]) {
		cut--
	}
	return password[:cut]
}

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(TruncatePassword(password)), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password.
// A malformed hash never matches.
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(TruncatePassword(password)))
	return err == nil
}
