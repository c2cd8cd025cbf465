// Package errors defines the error kinds shared by the fleet, reservation and
// notification services. Callers wrap the sentinels with fmt.Errorf("%w: ...")
// and test for them with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrCapacityExceeded       = errors.New("capacity exceeded")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadyRefunded        = errors.New("already refunded")
	ErrTransientDependency    = errors.New("transient dependency failure")
	ErrInvalidState           = errors.New("invalid state")
	ErrInvalidInput           = errors.New("invalid input")
)

// NotFound wraps ErrNotFound with the missing entity
func NotFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}

// Transient wraps a dependency failure so it is classified as retryable
func Transient(dependency string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransientDependency, dependency, err)
}

// InvalidTransition wraps ErrInvalidStateTransition with the attempted move
func InvalidTransition(from, event string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidStateTransition, event, from)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsRetryable reports whether the caller may retry the operation unchanged
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientDependency)
}
