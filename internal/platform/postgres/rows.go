package postgres

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
)

// taskRow holds the scan targets for taskColumns.
type taskRow struct {
	t        domain.Task
	status   string
	assignee uuid.NullUUID
	parent   uuid.NullUUID
}

func (r *taskRow) dest() []any {
	return []any{
		&r.t.ID,
		&r.t.Title,
		&r.t.Description,
		&r.status,
		&r.assignee,
		&r.parent,
		&r.t.Priority,
		&r.t.Version,
		&r.t.CreatedAt,
		&r.t.UpdatedAt,
	}
}

func (r *taskRow) task() *domain.Task {
	t := r.t
	t.Status = domain.TaskStatus(r.status)
	t.AssignedUserID = uuidPtr(r.assignee)
	t.ParentTaskID = uuidPtr(r.parent)
	return &t
}

// nullTaskRow scans the columns of a LEFT JOINed task.
type nullTaskRow struct {
	id          uuid.NullUUID
	title       sql.NullString
	description sql.NullString
	status      sql.NullString
	assignee    uuid.NullUUID
	parent      uuid.NullUUID
	priority    sql.NullString
	version     sql.NullInt64
	createdAt   sql.NullTime
	updatedAt   sql.NullTime
}

func (r *nullTaskRow) dest() []any {
	return []any{
		&r.id,
		&r.title,
		&r.description,
		&r.status,
		&r.assignee,
		&r.parent,
		&r.priority,
		&r.version,
		&r.createdAt,
		&r.updatedAt,
	}
}

func (r *nullTaskRow) task() *domain.Task {
	if !r.id.Valid {
		return nil
	}
	return &domain.Task{
		ID:             r.id.UUID,
		Title:          r.title.String,
		Description:    r.description.String,
		Status:         domain.TaskStatus(r.status.String),
		AssignedUserID: uuidPtr(r.assignee),
		ParentTaskID:   uuidPtr(r.parent),
		Priority:       r.priority.String,
		Version:        int(r.version.Int64),
		CreatedAt:      r.createdAt.Time,
		UpdatedAt:      r.updatedAt.Time,
	}
}

// nullUserRow scans the columns of a LEFT JOINed user.
type nullUserRow struct {
	id        uuid.NullUUID
	name      sql.NullString
	email     sql.NullString
	createdAt sql.NullTime
	updatedAt sql.NullTime
}

func (r *nullUserRow) dest() []any {
	return []any{&r.id, &r.name, &r.email, &r.createdAt, &r.updatedAt}
}

func (r *nullUserRow) user() *domain.User {
	if !r.id.Valid {
		return nil
	}
	return &domain.User{
		ID:        r.id.UUID,
		Name:      r.name.String,
		Email:     r.email.String,
		CreatedAt: r.createdAt.Time,
		UpdatedAt: r.updatedAt.Time,
	}
}
