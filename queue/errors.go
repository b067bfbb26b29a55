package queue

import "errors"

var (
	// ErrInvalidArgument is returned for a non-positive capacity or a malformed push.
	ErrInvalidArgument = errors.New("queue: invalid argument")
	// ErrAllocationFailure is returned when the backing array cannot grow any further.
	ErrAllocationFailure = errors.New("queue: allocation failure")
)
