package toolinfo

import "errors"

// Registry errors.
var (
	// ErrToolNotFound is returned when no tool is registered under an
	// identifier.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolNil is returned when registering a nil tool.
	ErrToolNil = errors.New("tool cannot be nil")

	// ErrIdentifierEmpty is returned when registering under an empty
	// identifier.
	ErrIdentifierEmpty = errors.New("tool identifier cannot be empty")

	// ErrToolAlreadyRegistered is returned when registering a duplicate
	// identifier.
	ErrToolAlreadyRegistered = errors.New("tool already registered")
)
