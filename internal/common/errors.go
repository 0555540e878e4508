// Package common contains shared sentinel errors and small helpers used
// across the auth service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Authentication errors. The message is deliberately generic so that
	// callers cannot distinguish an unknown email from a wrong password.
	ErrorUnauthorized = errors.New("invalid credentials, incorrect email or password")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Validation / input errors.
	ErrorValidation = errors.New("validation error")

	// OAuth-specific errors.
	ErrorNoVerifiedEmail = errors.New("no verified email in provider account")
	ErrorUpstream        = errors.New("upstream provider error")
)
