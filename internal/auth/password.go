package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the stored hashes were created with.
const bcryptCost = 10

// bcryptInputLimit is bcrypt's hard input size. The Go implementation errors
// past it while the hashes in the database were created by a library that
// truncates, so both Hash and Verify truncate to stay compatible.
const bcryptInputLimit = 72

func truncateForBcrypt(plain string) []byte {
	b := []byte(plain)
	if len(b) > bcryptInputLimit {
		b = b[:bcryptInputLimit]
	}
	return b
}

// HashPassword transforms a plaintext password into a storable bcrypt hash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncateForBcrypt(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash. A malformed
// hash verifies as false; callers collapse every failure into one generic
// invalid-credentials response so nothing leaks about the cause.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncateForBcrypt(plain)) == nil
}
