// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist or is not
	// visible to the caller (forbidden and not-found are collapsed on purpose).
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates an absent, expired, or unresolved session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a failed login. The same value covers
	// unknown usernames and wrong passwords so account existence never leaks.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrValidation indicates missing or malformed client input.
	ErrValidation = errors.New("validation")
)
