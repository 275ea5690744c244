package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Methods documented as loading associations populate AssignedUser,
// ParentTask and the direct Subtasks of every returned task.
type TaskStore interface {
	// Create inserts a new task row. It does not write an audit record.
	// Returns ErrInvalidEntity if a referenced user or parent is missing.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task without associations.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetForUpdate retrieves a task and takes an exclusive row lock on it that
	// is held until the surrounding transaction ends.
	// Must be called on a store bound to a transaction with WithTx.
	// Returns ErrTaskNotFound if the task does not exist, ErrLockTimeout if the
	// lock could not be acquired in time.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetParentID returns the parent of the given task, or nil for a root task.
	// Returns ErrTaskNotFound if the task does not exist.
	GetParentID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)

	// GetWithSubtasks retrieves a task with its associations loaded.
	// Returns ErrTaskNotFound if the task does not exist.
	GetWithSubtasks(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns the tasks matching filter with associations loaded,
	// oldest first.
	List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)

	// ListUnassigned returns the tasks without an assignee, associations loaded.
	ListUnassigned(ctx context.Context) ([]*domain.Task, error)

	// ListAssignedTo returns the tasks assigned to userID, associations loaded.
	ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// UpdateIfVersion writes the mutable fields and the Version of task, only
	// if the stored row is still at expectedVersion. UpdatedAt is set by the
	// store and copied back into task.
	// Returns ErrVersionMismatch if no row matched (including a missing row).
	UpdateIfVersion(ctx context.Context, task *domain.Task, expectedVersion int) error

	// DeleteSubtasks deletes the direct children of parentID and returns how
	// many rows were removed. Grandchildren are not touched.
	DeleteSubtasks(ctx context.Context, parentID uuid.UUID) (int64, error)

	// Delete removes a task. Its audit records are removed with it.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetLockTimeout bounds lock waits for the rest of the current transaction.
	SetLockTimeout(ctx context.Context, timeout time.Duration) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
