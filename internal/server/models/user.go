// Package models defines the persistent data structures shared by
// repositories and services.
package models

import "time"

// DefaultRole is assigned to every new account. Authorization policy beyond
// this single tag lives outside the auth service.
const DefaultRole = "user"

// User is an identity record. ID is an opaque UUID assigned at creation and
// never changed. Email is the case-insensitive lookup key used by both local
// login and OAuth matching.
//
// PasswordHash is never empty: OAuth-only accounts store the bcrypt hash of a
// randomly generated secret that is never disclosed, so they cannot log in
// interactively until an explicit set-password flow grants them one.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string

	IsActive   bool
	IsVerified bool

	Nickname string
	Avatar   string
	Bio      string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt time.Time
	LastLoginIP string
}
