// Package cryptox implements credential hashing for local accounts.
//
// Passwords are hashed with bcrypt. The cost factor is tunable through the
// server configuration; DefaultCost keeps interactive login latency
// acceptable while remaining expensive to brute-force.
package cryptox

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used when the configured value is zero.
const DefaultCost = bcrypt.DefaultCost

// HashPassword produces a salted bcrypt hash of the given password.
// A cost of 0 selects DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
// A malformed or foreign hash format yields false, never an error.
func CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
