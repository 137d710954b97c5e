package auth

import "errors"

// Token validation failures. The API maps ErrExpiredToken to
// "Token expired" and the rest to "Invalid token".
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")

	// ErrMissingSubject is returned for a well-signed token whose sub claim
	// does not name a user.
	ErrMissingSubject = errors.New("authentication token has no subject")
)
