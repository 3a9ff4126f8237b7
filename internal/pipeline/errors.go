package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound means the referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidState means the task already left the recorded state; the
	// duplicate invocation was rejected with no side effects.
	ErrInvalidState = errors.New("task is not in recorded state")
)

// PersistenceError is a failed repository write. When a write fails after
// the task was already marked scored, Compensated reports whether the
// best-effort transition to error succeeded.
type PersistenceError struct {
	Op          string
	Compensated bool
	Err         error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func AsPersistenceError(err error) (*PersistenceError, bool) {
	var pe *PersistenceError
	ok := errors.As(err, &pe)
	return pe, ok
}
