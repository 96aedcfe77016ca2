package model

import "errors"

var (
	// ErrNotFound is returned when a pool, token or on-chain resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when caller input fails validation.
	ErrInvalidArgument = errors.New("invalid argument")
)
