package emulator

import "errors"

var (
	// ErrConfigNil indicates that a nil Config was provided.
	ErrConfigNil = errors.New("config is nil")

	// ErrNilLine indicates that a required GPIO line was not provided.
	ErrNilLine = errors.New("line must not be nil")

	// ErrInvalidMode indicates an operating mode outside the 2-bit range.
	ErrInvalidMode = errors.New("invalid operating mode")

	// ErrInvalidBaudRate indicates a non-positive baud rate.
	ErrInvalidBaudRate = errors.New("invalid baud rate")
)
