package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "Valid password",
			password: "password123",
		},
		{
			name:     "Empty password",
			password: "", // bcrypt can hash empty strings
		},
		{
			name:     "Longer than bcrypt limit",
			password: strings.Repeat("x", 150),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)

			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.Contains(t, hash, "$2a$")
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "mySecurePassword123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	tests := []struct {
		name           string
		hashedPassword string
		password       string
		want           bool
	}{
		{
			name:           "Correct password",
			hashedPassword: hash,
			password:       password,
			want:           true,
		},
		{
			name:           "Incorrect password",
			hashedPassword: hash,
			password:       "wrongPassword",
			want:           false,
		},
		{
			name:           "Empty password",
			hashedPassword: hash,
			password:       "",
			want:           false,
		},
		{
			name:           "Invalid hash",
			hashedPassword: "invalid-hash",
			password:       password,
			want:           false,
		},
		{
			name:           "Empty hash",
			hashedPassword: "",
			password:       password,
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.hashedPassword, tt.password))
		})
	}
}

func TestVerifyPassword_AnyLength(t *testing.T) {
	passwords := []string{
		"",
		"a",
		strings.Repeat("b", 71),
		strings.Repeat("c", 72),
		strings.Repeat("d", 73),
		strings.Repeat("e", 200),
		strings.Repeat("a", 71) + "é",  // two-byte rune straddles the limit
		strings.Repeat("a", 70) + "日本", // three-byte rune straddles the limit
		strings.Repeat("🔑", 30),
	}

	for _, p := range passwords {
		hash, err := HashPassword(p)
		require.NoError(t, err, "len=%d", len(p))
		assert.True(t, VerifyPassword(hash, p), "len=%d", len(p))
	}
}

func TestVerifyPassword_IgnoresBytesBeyondLimit(t *testing.T) {
	prefix := strings.Repeat("k", 72)
	hash, err := HashPassword(prefix + "first-suffix")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, prefix+"second-suffix"))
	assert.True(t, VerifyPassword(hash, prefix))
	assert.False(t, VerifyPassword(hash, prefix[:71]))
}

func TestTruncatePassword(t *testing.T) {
	assert.Equal(t, "short", TruncatePassword("short"))

	exact := strings.Repeat("x", 72)
	assert.Equal(t, exact, TruncatePassword(exact))
	assert.Equal(t, exact, TruncatePassword(exact+"tail"))

	split := strings.Repeat("a", 71) + "é"
	got := TruncatePassword(split)
	assert.Equal(t, strings.Repeat("a", 71), got)
	assert.True(t, utf8.ValidString(got))

	emoji := strings.Repeat("🔑", 30) // 120 bytes, 4 per rune
	got = TruncatePassword(emoji)
	assert.Equal(t, 72, len(got))
	assert.True(t, utf8.ValidString(got))
}

func TestHashPasswordConsistency(t *testing.T) {
	password := "testPassword"

	hash1, err1 := HashPassword(password)
	hash2, err2 := HashPassword(password)

	assert.NoError(t, err1)
	assert.NoError(t, err2)

	// Hashes should be different (bcrypt uses salt)
	assert.NotEqual(t, hash1, hash2)

	assert.True(t, VerifyPassword(hash1, password))
	assert.True(t, VerifyPassword(hash2, password))
}
