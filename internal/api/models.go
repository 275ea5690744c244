package api

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
)

// CreateTaskRequest is the payload of POST /api/tasks. Title and
// description presence is enforced by the domain so the client sees the
// combined "required fields" message.
type CreateTaskRequest struct {
	Title          string     `json:"title"            validate:"max=255"`
	Description    string     `json:"description"      validate:"max=10000"`
	Status         string     `json:"status"           validate:"omitempty,oneof=pending in_progress completed urgent"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
	ParentTaskID   *uuid.UUID `json:"parent_task_id"`
	Priority       string     `json:"priority"         validate:"max=32"`
}

func (r CreateTaskRequest) toInput() domain.NewTaskInput {
	return domain.NewTaskInput{
		Title:          r.Title,
		Description:    r.Description,
		Status:         domain.TaskStatus(r.Status),
		AssignedUserID: r.AssignedUserID,
		ParentTaskID:   r.ParentTaskID,
		Priority:       r.Priority,
	}
}

// UpdateTaskRequest is the payload of PUT /api/tasks/{id}. Absent fields keep
// their current value; an explicit null parent_task_id detaches the task and
// an empty priority clears it. Version, or an If-Match header, carries the
// version the client last read.
type UpdateTaskRequest struct {
	Title        *string      `json:"title"          validate:"omitempty,max=255"`
	Description  *string      `json:"description"    validate:"omitempty,max=10000"`
	Status       *string      `json:"status"         validate:"omitempty,oneof=pending in_progress completed urgent"`
	Priority     *string      `json:"priority"       validate:"omitempty,max=32"`
	ParentTaskID nullableUUID `json:"parent_task_id"`
	Version      *int         `json:"version"        validate:"omitempty,gte=1"`
}

// nullableUUID tells an absent field apart from an explicit null.
type nullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON is only called when the field is present, including for null.
func (n *nullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

func (r UpdateTaskRequest) toPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:           r.Title,
		Description:     r.Description,
		Priority:        r.Priority,
		ExpectedVersion: r.Version,
	}
	if r.ParentTaskID.Set {
		patch.ParentTaskID = r.ParentTaskID.Value
		patch.ClearParent = r.ParentTaskID.Value == nil
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// CreateUserRequest is the payload of POST /api/users.
type CreateUserRequest struct {
	Name  string `json:"name"  validate:"max=255"`
	Email string `json:"email" validate:"max=320"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
