package app

import "errors"

// Typed errors for the session app layer. These enable transport mapping without
// relying on SDK-specific error types. Callers wrap them with the underlying message.
var (
	// ErrAuth indicates the bearer token was rejected or resolved to no user.
	ErrAuth = errors.New("authentication failed")
	// ErrProfile indicates the profile lookup failed or found no row.
	ErrProfile = errors.New("profile lookup failed")
	// ErrProfileUpdate indicates the Stripe customer id could not be saved on the profile.
	ErrProfileUpdate = errors.New("failed to update profile")
	// ErrGateway indicates a failure from the Stripe gateway / API calls.
	ErrGateway = errors.New("stripe error")
)
