package ushio

import "errors"

var (
	// ErrBufferFull indicates that the transmit ring buffer cannot take the
	// requested bytes. The buffer is left unchanged.
	ErrBufferFull = errors.New("transmit buffer full")

	// ErrEmptyTable indicates that an empty query table was provided.
	ErrEmptyTable = errors.New("query table is empty")

	// ErrInvalidSequence indicates a query or reply sequence outside the
	// 1 to MaxSequenceLen byte range the protocol defines.
	ErrInvalidSequence = errors.New("invalid query table sequence")

	// ErrInvalidTimeout indicates a non-positive command timeout.
	ErrInvalidTimeout = errors.New("command timeout must be positive")
)
