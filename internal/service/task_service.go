package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/config"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/platform/logger"
	"github.com/phrazzld/tasktrail-api/internal/store"
	"github.com/sethvargo/go-retry"
)

// DeleteSuccessMessage is the message of every successful DeleteResult.
const DeleteSuccessMessage = "Task and its subtasks were successfully deleted"

// assignRetryBase is the first backoff interval after a serialization failure.
const assignRetryBase = 10 * time.Millisecond

// TaskService provides the task operations exposed to the API layer.
type TaskService interface {
	// CreateTask validates the input and the parent hierarchy, then inserts
	// the task at version 1 together with its first audit record.
	CreateTask(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error)

	// GetAllTasks lists tasks matching filter with associations loaded.
	GetAllTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)

	// GetTaskWithSubtasks returns one task with associations loaded.
	GetTaskWithSubtasks(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetUnassignedTasks lists tasks without an assignee.
	GetUnassignedTasks(ctx context.Context) ([]*domain.Task, error)

	// GetAssignedTasksForUser lists the tasks of an existing user.
	GetAssignedTasksForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// AssignTask sets the assignee under an exclusive row lock.
	AssignTask(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error)

	// UpdateTask applies patch with an optimistic version check.
	UpdateTask(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes a non-urgent task and its direct subtasks.
	DeleteTask(ctx context.Context, id uuid.UUID) (*domain.DeleteResult, error)

	// GetUserTaskHistory returns the version history of every task assigned to userID.
	GetUserTaskHistory(ctx context.Context, userID uuid.UUID) (*domain.TaskHistory, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	db     *sql.DB
	tasks  store.TaskStore
	audits store.TaskAuditStore
	users  store.UserStore
	cfg    config.TasksConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	db *sql.DB,
	tasks store.TaskStore,
	audits store.TaskAuditStore,
	users store.UserStore,
	cfg config.TasksConfig,
	logger *slog.Logger,
) (TaskService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", nil)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", nil)
	}
	if audits == nil {
		return nil, domain.NewValidationError("audits", "cannot be nil", nil)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxHierarchyDepth <= 0 {
		cfg.MaxHierarchyDepth = DefaultMaxHierarchyDepth
	}

	return &taskServiceImpl{
		db:     db,
		tasks:  tasks,
		audits: audits,
		users:  users,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "task_service")),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(in)
	if err != nil {
		log.Debug("rejected task input", slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		if task.ParentTaskID != nil {
			if err := s.checkHierarchy(ctx, tasks, task.ID, *task.ParentTaskID); err != nil {
				return err
			}
		}
		if task.AssignedUserID != nil {
			exists, err := s.users.WithTx(tx).Exists(ctx, *task.AssignedUserID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrAssignedUserNotFound
			}
		}

		if err := tasks.Create(ctx, task); err != nil {
			return err
		}
		return s.audits.WithTx(tx).Create(ctx, domain.NewTaskAuditRecord(task))
	})
	if err != nil {
		log.Warn("task creation failed", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to create task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.Int("version", task.Version))
	return task, nil
}

// checkHierarchy validates linking taskID under parentID.
func (s *taskServiceImpl) checkHierarchy(ctx context.Context, tasks store.TaskStore, taskID, parentID uuid.UUID) error {
	if parentID == taskID {
		return ErrCircularDependency
	}

	cycle, err := hasCycle(ctx, tasks.GetParentID, taskID, parentID, s.cfg.MaxHierarchyDepth)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrParentTaskNotFound
		}
		return err
	}
	if cycle {
		logger.FromContextOrDefault(ctx, s.logger).Warn("circular task hierarchy rejected",
			slog.String("task_id", taskID.String()),
			slog.String("parent_task_id", parentID.String()))
		return ErrCircularDependency
	}
	return nil
}

// GetAllTasks implements TaskService.GetAllTasks
func (s *taskServiceImpl) GetAllTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if filter.Status != "" && !domain.IsValidTaskStatus(filter.Status) {
		return nil, domain.ErrInvalidTaskStatus
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, NewTaskServiceError("get_all_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetTaskWithSubtasks implements TaskService.GetTaskWithSubtasks
func (s *taskServiceImpl) GetTaskWithSubtasks(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetWithSubtasks(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task_with_subtasks", "failed to get task", err)
	}
	return task, nil
}

// GetUnassignedTasks implements TaskService.GetUnassignedTasks
func (s *taskServiceImpl) GetUnassignedTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListUnassigned(ctx)
	if err != nil {
		return nil, NewTaskServiceError("get_unassigned_tasks", "failed to list unassigned tasks", err)
	}
	return tasks, nil
}

// GetAssignedTasksForUser implements TaskService.GetAssignedTasksForUser
func (s *taskServiceImpl) GetAssignedTasksForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, NewTaskServiceError("get_assigned_tasks", "failed to look up user", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	tasks, err := s.tasks.ListAssignedTo(ctx, userID)
	if err != nil {
		return nil, NewTaskServiceError("get_assigned_tasks", "failed to list assigned tasks", err)
	}
	return tasks, nil
}

// AssignTask implements TaskService.AssignTask
//
// The transaction runs at serializable isolation and holds the task row lock
// from the read to the commit. If the database aborts it with a
// serialization failure the whole transaction is re-run against the new
// state, up to cfg.AssignMaxRetries times.
func (s *taskServiceImpl) AssignTask(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))

	var assigned *domain.Task
	attempt := 0
	backoff := retry.WithMaxRetries(s.cfg.AssignMaxRetries,
		retry.WithJitterPercent(20, retry.NewExponential(assignRetryBase)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := s.assignOnce(ctx, taskID, userID, &assigned)
		if store.IsRetryableError(err) {
			log.Info("task assignment not serializable, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		log.Warn("task assignment failed", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("assign_task", "failed to assign task", err)
	}

	log.Info("task assigned", slog.Int("version", assigned.Version))
	return assigned, nil
}

func (s *taskServiceImpl) assignOnce(ctx context.Context, taskID, userID uuid.UUID, out **domain.Task) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	return store.RunInTransactionWithOptions(ctx, s.db, opts, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		if s.cfg.LockTimeout > 0 {
			if err := tasks.SetLockTimeout(ctx, s.cfg.LockTimeout); err != nil {
				return err
			}
		}

		task, err := tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}

		exists, err := s.users.WithTx(tx).Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		expected := task.Version
		task.AssignedUserID = &userID
		task.Version = expected + 1
		if err := tasks.UpdateIfVersion(ctx, task, expected); err != nil {
			return err
		}
		if err := s.audits.WithTx(tx).Create(ctx, domain.NewTaskAuditRecord(task)); err != nil {
			return err
		}

		*out = task
		return nil
	})
}

// UpdateTask implements TaskService.UpdateTask
//
// The row is locked, then written with a conditional update keyed on the
// version the caller observed (patch.ExpectedVersion, or the locked row's
// version when absent). A mismatch fails with ErrTaskModified; there is no
// automatic retry.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("task_id", id.String()))

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		currentVersion := task.Version
		if patch.ExpectedVersion != nil {
			currentVersion = *patch.ExpectedVersion
		}

		if patch.ParentTaskID != nil && !sameID(task.ParentTaskID, patch.ParentTaskID) {
			if err := s.checkHierarchy(ctx, tasks, task.ID, *patch.ParentTaskID); err != nil {
				return err
			}
		}

		applyPatch(task, patch)
		task.Version = currentVersion + 1

		if err := tasks.UpdateIfVersion(ctx, task, currentVersion); err != nil {
			return err
		}
		if err := s.audits.WithTx(tx).Create(ctx, domain.NewTaskAuditRecord(task)); err != nil {
			return err
		}

		updated, err = tasks.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrVersionMismatch) {
			log.Info("task update rejected, version changed")
		} else {
			log.Warn("task update failed", slog.String("error", err.Error()))
		}
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	log.Info("task updated", slog.Int("version", updated.Version))
	return updated, nil
}

func applyPatch(task *domain.Task, patch domain.TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.ParentTaskID != nil {
		parent := *patch.ParentTaskID
		task.ParentTaskID = &parent
	}
	if patch.ClearParent {
		task.ParentTaskID = nil
	}
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DeleteTask implements TaskService.DeleteTask
//
// Only the direct subtasks are deleted. Their own children keep existing with
// a NULL parent.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) (*domain.DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("task_id", id.String()))

	var removed int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if task.IsUrgent() {
			return ErrUrgentTaskNotDeletable
		}

		removed, err = tasks.DeleteSubtasks(ctx, id)
		if err != nil {
			return err
		}
		return tasks.Delete(ctx, id)
	})
	if err != nil {
		log.Warn("task deletion failed", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", slog.Int64("subtasks_deleted", removed))
	return &domain.DeleteResult{
		Success:       true,
		Message:       DeleteSuccessMessage,
		DeletedTaskID: id,
	}, nil
}

// GetUserTaskHistory implements TaskService.GetUserTaskHistory
//
// Tasks and audit records are read in one repeatable-read, read-only
// transaction so both come from the same snapshot. An unknown user yields an
// empty history.
func (s *taskServiceImpl) GetUserTaskHistory(ctx context.Context, userID uuid.UUID) (*domain.TaskHistory, error) {
	var (
		tasks   []*domain.Task
		records []*domain.TaskAuditRecord
	)

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := store.RunInTransactionWithOptions(ctx, s.db, opts, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		tasks, err = s.tasks.WithTx(tx).ListAssignedTo(ctx, userID)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(tasks))
		for i, t := range tasks {
			ids[i] = t.ID
		}
		records, err = s.audits.WithTx(tx).ListForTasks(ctx, ids)
		return err
	})
	if err != nil {
		return nil, NewTaskServiceError("get_user_task_history", "failed to load task history", err)
	}

	history := buildTaskHistory(userID, tasks, records, s.now())
	logger.FromContextOrDefault(ctx, s.logger).Debug("task history built",
		slog.String("user_id", userID.String()),
		slog.Int("tasks", len(tasks)),
		slog.Int("audit_records", len(records)))
	return history, nil
}
