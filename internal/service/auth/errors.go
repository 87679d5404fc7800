package auth

import "errors"

// Common authentication service errors.
var (
	// ErrInvalidToken indicates the access token format is invalid or its
	// signature doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the access token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMalformedToken indicates the access token parsed but is missing
	// the expected subject claim, or could not be parsed at all.
	ErrMalformedToken = errors.New("malformed authentication token")

	// ErrSessionNotFound indicates no session matches the presented refresh
	// token. Covers unknown and expired tokens alike, so callers cannot
	// distinguish a token that never existed from one that aged out.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSecurityBreach indicates an already-consumed refresh token was
	// presented again. By the time this error surfaces, every session of the
	// affected user has been revoked; the error cannot be used to skip that
	// side effect.
	ErrSecurityBreach = errors.New("security breach detected: all sessions revoked")
)
