package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, expired, or its
	// signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a bearer token was expected but not provided,
	// or the Authorization header did not use the Bearer scheme
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrUnknownUser indicates a structurally valid token whose subject no
	// longer resolves to a stored user (e.g., the account was deleted after
	// the token was issued)
	ErrUnknownUser = errors.New("user not found")

	// ErrInvalidCredentials indicates an email/password pair that does not
	// match a stored account
	ErrInvalidCredentials = errors.New("invalid credentials")
)
