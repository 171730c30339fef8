// Package common defines shared constants and sentinel errors used across
// the shop client engine. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrAuthRequired means the operation needs an authenticated user and no
	// network call was made. Callers should prompt for login.
	ErrAuthRequired = errors.New("login required")

	// ErrAuthRejected means the backend refused the bearer token. Every
	// occurrence must end in the same cleanup as an explicit logout.
	ErrAuthRejected = errors.New("session rejected by server")

	// ErrValidation marks client-side precondition failures. Operations
	// failing this way never reached the network.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")
)
