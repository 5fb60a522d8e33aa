package codec

import "errors"

var (
	// ErrInvalidData represents general invalid data.
	ErrInvalidData = errors.New("invalid data")
	// ErrOutOfRange represents logic accessing data in out of range.
	ErrOutOfRange = errors.New("out of range")
	// ErrInvalidArgument represents construction from invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnreadBytes represents extra bytes not read.
	ErrUnreadBytes = errors.New("unread bytes exist")
)
