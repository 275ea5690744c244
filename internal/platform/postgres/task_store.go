package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/platform/logger"
	"github.com/phrazzld/tasktrail-api/internal/store"
)

const taskColumns = `t.id, t.title, t.description, t.status, t.assigned_user_id, t.parent_task_id,
		t.priority, t.version, t.created_at, t.updated_at`

// taskWithAssociationsQuery selects tasks joined with their assignee and parent.
// Callers append a WHERE clause and taskOrdering.
const taskWithAssociationsQuery = `
	SELECT ` + taskColumns + `,
		u.id, u.name, u.email, u.created_at, u.updated_at,
		p.id, p.title, p.description, p.status, p.assigned_user_id, p.parent_task_id,
		p.priority, p.version, p.created_at, p.updated_at
	FROM tasks t
	LEFT JOIN users u ON u.id = t.assigned_user_id
	LEFT JOIN tasks p ON p.id = t.parent_task_id
`

const taskOrdering = ` ORDER BY t.created_at ASC, t.id ASC`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, status, assigned_user_id, parent_task_id,
			priority, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		nullUUID(task.AssignedUserID),
		nullUUID(task.ParentTaskID),
		task.Priority,
		task.Version,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	return s.getOne(ctx, "get", query, id)
}

// GetForUpdate implements store.TaskStore.GetForUpdate
func (s *PostgresTaskStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1 FOR UPDATE`
	return s.getOne(ctx, "lock", query, id)
}

func (s *PostgresTaskStore) getOne(ctx context.Context, op, query string, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var row taskRow
	if err := s.db.QueryRowContext(ctx, query, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to read task",
			slog.String("operation", op),
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return row.task(), nil
}

// GetParentID implements store.TaskStore.GetParentID
func (s *PostgresTaskStore) GetParentID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	var parent uuid.NullUUID
	err := s.db.QueryRowContext(ctx,
		`SELECT parent_task_id FROM tasks WHERE id = $1`, id,
	).Scan(&parent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return uuidPtr(parent), nil
}

// GetWithSubtasks implements store.TaskStore.GetWithSubtasks
func (s *PostgresTaskStore) GetWithSubtasks(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	tasks, err := s.listWithAssociations(ctx, `WHERE t.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task not found",
			slog.String("task_id", id.String()))
		return nil, store.ErrTaskNotFound
	}
	return tasks[0], nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if filter.Status != "" {
		return s.listWithAssociations(ctx, `WHERE t.status = $1`, string(filter.Status))
	}
	return s.listWithAssociations(ctx, "")
}

// ListUnassigned implements store.TaskStore.ListUnassigned
func (s *PostgresTaskStore) ListUnassigned(ctx context.Context) ([]*domain.Task, error) {
	return s.listWithAssociations(ctx, `WHERE t.assigned_user_id IS NULL`)
}

// ListAssignedTo implements store.TaskStore.ListAssignedTo
func (s *PostgresTaskStore) ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return s.listWithAssociations(ctx, `WHERE t.assigned_user_id = $1`, userID)
}

// listWithAssociations runs taskWithAssociationsQuery with the given WHERE
// clause, then loads the direct subtasks of every returned task.
func (s *PostgresTaskStore) listWithAssociations(
	ctx context.Context,
	where string,
	args ...any,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, taskWithAssociationsQuery+where+taskOrdering, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var (
			row    taskRow
			user   nullUserRow
			parent nullTaskRow
		)
		dest := append(row.dest(), user.dest()...)
		dest = append(dest, parent.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		task := row.task()
		task.AssignedUser = user.user()
		task.ParentTask = parent.task()
		task.Subtasks = []*domain.Task{}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	_ = rows.Close()

	if err := s.attachSubtasks(ctx, tasks); err != nil {
		return nil, err
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

func (s *PostgresTaskStore) attachSubtasks(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Task, len(tasks))
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.parent_task_id = ANY($1::uuid[])` + taskOrdering
	rows, err := s.db.QueryContext(ctx, query, uuidArray(ids))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load subtasks",
			slog.String("error", err.Error()))
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var row taskRow
		if err := rows.Scan(row.dest()...); err != nil {
			return fmt.Errorf("failed to scan subtask: %w", err)
		}
		sub := row.task()
		if parent, ok := byID[*sub.ParentTaskID]; ok {
			parent.Subtasks = append(parent.Subtasks, sub)
		}
	}
	if err := rows.Err(); err != nil {
		return MapError(err)
	}
	return nil
}

// UpdateIfVersion implements store.TaskStore.UpdateIfVersion
func (s *PostgresTaskStore) UpdateIfVersion(ctx context.Context, task *domain.Task, expectedVersion int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if task.Version != expectedVersion+1 {
		return fmt.Errorf("%w: version must advance from %d to %d, got %d",
			store.ErrInvalidEntity, expectedVersion, expectedVersion+1, task.Version)
	}
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	updatedAt := time.Now().UTC()
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, assigned_user_id = $4,
			parent_task_id = $5, priority = $6, version = $7, updated_at = $8
		WHERE id = $9 AND version = $10
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		nullUUID(task.AssignedUserID),
		nullUUID(task.ParentTaskID),
		task.Priority,
		task.Version,
		updatedAt,
		task.ID,
		expectedVersion,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrVersionMismatch); err != nil {
		if errors.Is(err, store.ErrVersionMismatch) {
			log.Info("task version changed before update",
				slog.String("task_id", task.ID.String()),
				slog.Int("expected_version", expectedVersion))
		}
		return err
	}

	task.UpdatedAt = updatedAt
	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.Int("version", task.Version))
	return nil
}

// DeleteSubtasks implements store.TaskStore.DeleteSubtasks
func (s *PostgresTaskStore) DeleteSubtasks(ctx context.Context, parentID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE parent_task_id = $1`, parentID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete subtasks",
			slog.String("error", err.Error()),
			slog.String("parent_task_id", parentID.String()))
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// SetLockTimeout implements store.TaskStore.SetLockTimeout
// The setting is transaction-local and reverts at commit or rollback.
func (s *PostgresTaskStore) SetLockTimeout(ctx context.Context, timeout time.Duration) error {
	value := fmt.Sprintf("%dms", timeout.Milliseconds())
	if _, err := s.db.ExecContext(ctx, `SELECT set_config('lock_timeout', $1, true)`, value); err != nil {
		return MapError(err)
	}
	return nil
}
