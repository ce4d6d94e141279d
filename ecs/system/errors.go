package system

import "errors"

var (
	// ErrMissingDependency is returned when a character component or a
	// collaborator the operation needs is absent.
	ErrMissingDependency = errors.New("droplet: missing dependency")
	// ErrInvalidState is returned when None is requested as a target state.
	ErrInvalidState = errors.New("droplet: invalid material state")
	// ErrUnresolvedDescription is returned when no movement strategy exists
	// for a state.
	ErrUnresolvedDescription = errors.New("droplet: unresolved material state description")
)
