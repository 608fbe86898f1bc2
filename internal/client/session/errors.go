package session

import "errors"

var (
	// ErrEmptyCredential is returned by Authenticate for an empty credential.
	ErrEmptyCredential = errors.New("empty credential")

	// ErrLivenessCheck wraps a failed introspection call.
	ErrLivenessCheck = errors.New("credential liveness check failed")
)
