package tools

import "errors"

var (
	// ErrToolNotFound is returned when no link of the chain owns a tool name.
	ErrToolNotFound = errors.New("tool not found")

	// ErrInvalidArguments wraps schema validation failures.
	ErrInvalidArguments = errors.New("invalid arguments")
)
