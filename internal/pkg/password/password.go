// Package password wraps bcrypt hashing for user credentials. The cost
// factor is a deployment constant, not a knob exposed to callers.
package password

import "golang.org/x/crypto/bcrypt"

// Hash returns a salted bcrypt hash of plain. Each call embeds a fresh
// random salt, so equal inputs produce different hashes.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches the stored hash. A malformed hash
// yields false, never an error.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
