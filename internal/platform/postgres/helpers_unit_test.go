package postgres

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/stretchr/testify/require"
)

var (
	taskCols = []string{
		"id", "title", "description", "status", "assigned_user_id", "parent_task_id",
		"priority", "version", "created_at", "updated_at",
	}
	userCols = []string{"id", "name", "email", "created_at", "updated_at"}
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testTask(title string) *domain.Task {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: title + " description",
		Status:      domain.TaskStatusPending,
		Version:     domain.InitialTaskVersion,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func uuidValue(id *uuid.UUID) driver.Value {
	if id == nil {
		return nil
	}
	return id.String()
}

func taskValues(t *domain.Task) []driver.Value {
	return []driver.Value{
		t.ID.String(),
		t.Title,
		t.Description,
		string(t.Status),
		uuidValue(t.AssignedUserID),
		uuidValue(t.ParentTaskID),
		t.Priority,
		int64(t.Version),
		t.CreatedAt,
		t.UpdatedAt,
	}
}

func nullValues(n int) []driver.Value {
	return make([]driver.Value, n)
}

func userValues(u *domain.User) []driver.Value {
	return []driver.Value{u.ID.String(), u.Name, u.Email, u.CreatedAt, u.UpdatedAt}
}

func joinedCols() []string {
	cols := append([]string{}, taskCols...)
	cols = append(cols, userCols...)
	return append(cols, taskCols...)
}

func joined(parts ...[]driver.Value) []driver.Value {
	var out []driver.Value
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
