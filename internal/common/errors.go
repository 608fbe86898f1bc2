// Package common defines shared constants, sentinel errors and small helpers
// used across the comic reader client. Callers should use errors.Is to match
// the errors.
package common

import "errors"

var (
	// ErrAuthRequired is returned when an operation needs a signed-in reader.
	// The UI prompts for login; the operation is not retried.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInvalidArgument reports malformed user input such as an out-of-range score.
	ErrInvalidArgument = errors.New("invalid argument")
)
