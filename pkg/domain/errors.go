package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is matched by every *InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrUnknownOperation is returned when an operation name is not one of the four lifecycle
// operations.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrTableNotFound is returned when a table ID cannot be found in the store.
var ErrTableNotFound = errors.New("table not found")

// InvalidTransitionError is returned by a mutating operation whose guard fails.
// Current is the progress at the time of the rejected call.
type InvalidTransitionError struct {
	Op      Operation
	Current Progress
}

func (e *InvalidTransitionError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("game state is in %s", e.Current)
	}
	return fmt.Sprintf("cannot %s: game state is in %s", e.Op, e.Current)
}

// Is makes errors.Is(err, ErrInvalidTransition) hold.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
