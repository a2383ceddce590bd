package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", hash)
	assert.True(t, VerifyPassword("password1", hash))
	assert.False(t, VerifyPassword("password2", hash))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("password1")
	require.NoError(t, err)
	h2, err := HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestLongPasswordsHashAndVerify(t *testing.T) {
	// bcrypt caps input at 72 bytes; longer passwords are accepted by
	// truncation, the way the stored hashes were originally produced.
	long := strings.Repeat("a", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(long, hash))

	// Everything past byte 72 is ignored, so these collide.
	assert.True(t, VerifyPassword(strings.Repeat("a", 73), hash))
	assert.False(t, VerifyPassword(strings.Repeat("b", 100), hash))
}

func TestVerifyMalformedHashReturnsFalse(t *testing.T) {
	// A broken stored hash must read as a failed match, never a panic or a
	// distinguishable error.
	assert.False(t, VerifyPassword("password1", ""))
	assert.False(t, VerifyPassword("password1", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("password1", "$2a$zz$garbage"))
}
