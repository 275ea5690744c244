package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers classify them with errors.Is; the API layer maps each category to
// an HTTP status code.
var (
	// ErrNotFound is the category of every "absent entity" error.
	ErrNotFound = errors.New("not found")

	// ErrConflict is the category of errors caused by the current state of a
	// resource rather than by the request itself.
	ErrConflict = errors.New("conflict")

	// ErrTaskNotFound indicates that the task does not exist.
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)

	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrTaskModified is returned when an update lost the version race.
	// The caller must re-read the task and resubmit.
	ErrTaskModified = fmt.Errorf("%w: task was modified by another user", ErrConflict)

	// ErrUrgentTaskNotDeletable blocks deletion of urgent tasks.
	ErrUrgentTaskNotDeletable = fmt.Errorf("%w: cannot delete a task that is urgent", ErrConflict)

	// ErrEmailExists indicates that the email is already registered.
	ErrEmailExists = fmt.Errorf("%w: email already registered", ErrConflict)

	// ErrLockTimeout is returned when the task row lock could not be acquired in time.
	ErrLockTimeout = errors.New("timed out waiting for task lock")

	// ErrTaskContended is returned when an assignment kept failing to
	// serialize against concurrent writers after every retry.
	ErrTaskContended = errors.New("task is being modified concurrently")

	// ErrParentTaskNotFound is a validation error: the proposed parent does not exist.
	ErrParentTaskNotFound = domain.NewValidationError("", "parent task not found", nil)

	// ErrAssignedUserNotFound is a validation error: the proposed assignee does not exist.
	ErrAssignedUserNotFound = domain.NewValidationError("", "assigned user not found", nil)

	// ErrCircularDependency is a validation error: the proposed parent chain loops back.
	ErrCircularDependency = domain.NewValidationError("", "circular dependency detected in task hierarchy", nil)
)

// TaskServiceError wraps unexpected errors from the task and user services with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "assign_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Store errors with a service meaning are translated to the matching sentinel,
// and service sentinels and validation errors are returned without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrVersionMismatch):
		return ErrTaskModified
	case errors.Is(err, store.ErrLockTimeout):
		return ErrLockTimeout
	case errors.Is(err, store.ErrEmailExists):
		return ErrEmailExists
	case errors.Is(err, store.ErrSerializationFailure):
		return ErrTaskContended
	}

	if errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrLockTimeout) ||
		errors.Is(err, ErrTaskContended) ||
		errors.Is(err, domain.ErrValidation) {
		return err
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
