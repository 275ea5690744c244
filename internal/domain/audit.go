package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskAuditRecord is an immutable snapshot of a task at one version.
// There is exactly one record per (TaskID, Version).
type TaskAuditRecord struct {
	TaskID         uuid.UUID  `json:"task_id"`
	Version        int        `json:"version"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewTaskAuditRecord snapshots the task at its current version.
func NewTaskAuditRecord(task *Task) *TaskAuditRecord {
	return &TaskAuditRecord{
		TaskID:         task.ID,
		Version:        task.Version,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		AssignedUserID: copyUUID(task.AssignedUserID),
		UpdatedAt:      task.UpdatedAt,
		CreatedAt:      time.Now().UTC(),
	}
}

// TaskVersion is the state of a task at one point of its history.
// Subtasks are only attached when the entry comes from the live row.
type TaskVersion struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Subtasks       []*Task    `json:"subtasks,omitempty"`
}

// HistoryMetadata describes when and for whom a history was fetched.
type HistoryMetadata struct {
	FetchTimestamp time.Time `json:"fetch_timestamp"`
	UserID         uuid.UUID `json:"user_id"`
}

// TaskHistory maps task id to version to the task state at that version.
type TaskHistory struct {
	Data     map[uuid.UUID]map[int]TaskVersion `json:"data"`
	Metadata HistoryMetadata                   `json:"metadata"`
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
