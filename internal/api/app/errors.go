package app

import "errors"

var (
	// ErrInvalidInput marks a request rejected before any work started.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable is returned when the needed component is not configured.
	ErrUnavailable = errors.New("not configured")
)
