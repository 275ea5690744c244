package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the workflow label of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusUrgent     TaskStatus = "urgent"
)

// InitialTaskVersion is the version every task starts at.
const InitialTaskVersion = 1

// Validation errors for Task
var (
	ErrEmptyTaskID            = NewValidationError("id", "cannot be empty", ErrInvalidID)
	ErrTaskFieldsRequired     = NewValidationError("", "title and description are required fields", nil)
	ErrEmptyTaskTitle         = NewValidationError("title", "cannot be empty", nil)
	ErrInvalidTaskStatus      = NewValidationError("status", "is not a valid task status", nil)
	ErrInvalidTaskVersion     = NewValidationError("version", "must be at least 1", nil)
	ErrTaskIsOwnParent        = NewValidationError("parent_task_id", "cannot reference the task itself", nil)
	ErrInvalidExpectedVersion = NewValidationError("version", "expected version must be at least 1", nil)
	ErrParentPatchConflict    = NewValidationError("parent_task_id", "cannot be set and cleared at once", nil)
)

// Task represents a unit of work. Tasks may be nested under a parent task
// and may be assigned to a single user. Version starts at 1 and is bumped
// exactly once per successful update.
type Task struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
	ParentTaskID   *uuid.UUID `json:"parent_task_id"`
	Priority       string     `json:"priority,omitempty"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Eagerly loaded associations; populated by read operations only.
	AssignedUser *User   `json:"assigned_user,omitempty"`
	ParentTask   *Task   `json:"parent_task,omitempty"`
	Subtasks     []*Task `json:"subtasks,omitempty"`
}

// NewTaskInput carries the caller-supplied fields for a new task.
type NewTaskInput struct {
	Title          string
	Description    string
	Status         TaskStatus
	AssignedUserID *uuid.UUID
	ParentTaskID   *uuid.UUID
	Priority       string
}

// NewTask creates a new Task from the given input. Status defaults to
// pending, the version to 1, and the timestamps to now.
// Returns an error if validation fails.
func NewTask(in NewTaskInput) (*Task, error) {
	if in.Title == "" || in.Description == "" {
		return nil, ErrTaskFieldsRequired
	}

	status := in.Status
	if status == "" {
		status = TaskStatusPending
	}

	now := time.Now().UTC()
	task := &Task{
		ID:             uuid.New(),
		Title:          in.Title,
		Description:    in.Description,
		Status:         status,
		AssignedUserID: in.AssignedUserID,
		ParentTaskID:   in.ParentTaskID,
		Priority:       in.Priority,
		Version:        InitialTaskVersion,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}
	if t.Version < InitialTaskVersion {
		return ErrInvalidTaskVersion
	}
	if t.ParentTaskID != nil && *t.ParentTaskID == t.ID {
		return ErrTaskIsOwnParent
	}
	return nil
}

// IsUrgent reports whether the task is in the urgent state, which blocks deletion.
func (t *Task) IsUrgent() bool {
	return t.Status == TaskStatusUrgent
}

// IsValidTaskStatus checks if the given status is a known TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusUrgent:
		return true
	default:
		return false
	}
}

// TaskPatch is a partial update. Nil fields are left untouched.
// ClearParent detaches the task from its parent, making it a root task.
// ExpectedVersion, when set, is the version the caller last observed; the
// update only applies if the row is still at that version.
type TaskPatch struct {
	Title           *string
	Description     *string
	Status          *TaskStatus
	Priority        *string
	ParentTaskID    *uuid.UUID
	ClearParent     bool
	ExpectedVersion *int
}

// Validate checks the fields present in the patch.
func (p TaskPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return ErrEmptyTaskTitle
	}
	if p.Status != nil && !IsValidTaskStatus(*p.Status) {
		return ErrInvalidTaskStatus
	}
	if p.ExpectedVersion != nil && *p.ExpectedVersion < InitialTaskVersion {
		return ErrInvalidExpectedVersion
	}
	if p.ClearParent && p.ParentTaskID != nil {
		return ErrParentPatchConflict
	}
	return nil
}

// TaskFilter narrows a task listing. A zero filter matches every task.
type TaskFilter struct {
	Status TaskStatus
}

// DeleteResult is returned by a successful task deletion.
type DeleteResult struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	DeletedTaskID uuid.UUID `json:"deleted_task_id"`
}
