package errors

import "errors"

var (
	// ErrInvalidArgument is a generic sentinel for invalid input. Handlers
	// map it to a client-error status; everything else surfaces as a
	// generic server error with the detail kept in the logs.
	ErrInvalidArgument = errors.New("invalid argument")
)
