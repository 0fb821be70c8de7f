package option

import "errors"

// Option errors. Callers classify failures with errors.Is; the string and
// bulk protocols only report success or failure.
var (
	// ErrInvalidFormat is returned when a string does not parse for the expected type.
	ErrInvalidFormat = errors.New("option: invalid format")

	// ErrInvalidChoice is returned when a string is not one of the enumerated choices.
	ErrInvalidChoice = errors.New("option: invalid choice")

	// ErrOutOfRange is returned when a value violates the descriptor constraints.
	ErrOutOfRange = errors.New("option: value out of range")

	// ErrNotEditable is returned for access to hidden options and writes to
	// disabled or read-only ones.
	ErrNotEditable = errors.New("option: not editable")

	// ErrUnsupportedOperation is returned for reads of gamma tables and buttons.
	ErrUnsupportedOperation = errors.New("option: unsupported operation")

	// ErrNotFound is returned when a name does not resolve in the registry.
	ErrNotFound = errors.New("option: not found")

	// ErrBackend wraps failures reported by the backend.
	ErrBackend = errors.New("option: backend failure")
)
