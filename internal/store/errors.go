package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation or violates
	// a referential constraint. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrVersionMismatch is returned by conditional writes when the row is no
	// longer at the version the caller expected.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrLockTimeout is returned when a row lock could not be acquired within
	// the configured lock timeout.
	ErrLockTimeout = errors.New("lock wait timeout")

	// ErrSerializationFailure is returned when the database aborted a
	// transaction because it could not be serialized or deadlocked.
	// The whole transaction may be retried.
	ErrSerializationFailure = errors.New("serialization failure")

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryableError reports whether the failed transaction can be re-run as a whole.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrSerializationFailure)
}
