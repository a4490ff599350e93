package health

import "errors"

var (
	// ErrCheckTimeout marks a check abandoned at its deadline.
	ErrCheckTimeout = errors.New("health: check timed out")

	// ErrCheckerNotFound is returned by Check for an unregistered name.
	ErrCheckerNotFound = errors.New("health: no checker registered")
)
