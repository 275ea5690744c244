//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrail-api/internal/store"
	"github.com/phrazzld/tasktrail-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func insertUser(t *testing.T, tx *sql.Tx, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Test User", email)
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresUserStore(tx, discard).Create(context.Background(), user))
	return user
}

func insertTask(t *testing.T, tx *sql.Tx, title string, parent, assignee *uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.NewTaskInput{
		Title:          title,
		Description:    title + " description",
		ParentTaskID:   parent,
		AssignedUserID: assignee,
	})
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresTaskStore(tx, discard).Create(context.Background(), task))
	return task
}

func TestUserStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, discard)
		user := insertUser(t, tx, "ada-"+uuid.NewString()+"@example.com")

		got, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)

		exists, err := users.Exists(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = users.Exists(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		// Last statement: a constraint violation aborts the transaction.
		dup, err := domain.NewUser("Other", user.Email)
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)
	})
}

func TestTaskStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := postgres.NewPostgresTaskStore(tx, discard)
		user := insertUser(t, tx, "grace-"+uuid.NewString()+"@example.com")

		parent := insertTask(t, tx, "parent", nil, &user.ID)
		child := insertTask(t, tx, "child", &parent.ID, nil)
		grandchild := insertTask(t, tx, "grandchild", &child.ID, nil)

		t.Run("associations", func(t *testing.T) {
			got, err := tasks.GetWithSubtasks(ctx, parent.ID)
			require.NoError(t, err)
			require.NotNil(t, got.AssignedUser)
			assert.Equal(t, user.ID, got.AssignedUser.ID)
			require.Len(t, got.Subtasks, 1)
			assert.Equal(t, child.ID, got.Subtasks[0].ID)

			got, err = tasks.GetWithSubtasks(ctx, child.ID)
			require.NoError(t, err)
			require.NotNil(t, got.ParentTask)
			assert.Equal(t, parent.ID, got.ParentTask.ID)
		})

		t.Run("parent lookup", func(t *testing.T) {
			id, err := tasks.GetParentID(ctx, grandchild.ID)
			require.NoError(t, err)
			require.NotNil(t, id)
			assert.Equal(t, child.ID, *id)

			id, err = tasks.GetParentID(ctx, parent.ID)
			require.NoError(t, err)
			assert.Nil(t, id)
		})

		t.Run("listings", func(t *testing.T) {
			assigned, err := tasks.ListAssignedTo(ctx, user.ID)
			require.NoError(t, err)
			require.Len(t, assigned, 1)
			assert.Len(t, assigned[0].Subtasks, 1)

			unassigned, err := tasks.ListUnassigned(ctx)
			require.NoError(t, err)
			ids := make(map[uuid.UUID]bool)
			for _, task := range unassigned {
				ids[task.ID] = true
			}
			assert.True(t, ids[child.ID])
			assert.False(t, ids[parent.ID])
		})

		t.Run("conditional update", func(t *testing.T) {
			locked, err := tasks.GetForUpdate(ctx, child.ID)
			require.NoError(t, err)

			locked.Title = "child v2"
			locked.Version = 2
			require.NoError(t, tasks.UpdateIfVersion(ctx, locked, 1))

			stale := *locked
			stale.Title = "lost update"
			stale.Version = 2
			assert.ErrorIs(t, tasks.UpdateIfVersion(ctx, &stale, 1), store.ErrVersionMismatch)

			got, err := tasks.GetByID(ctx, child.ID)
			require.NoError(t, err)
			assert.Equal(t, "child v2", got.Title)
			assert.Equal(t, 2, got.Version)
		})

		t.Run("one level cascade", func(t *testing.T) {
			removed, err := tasks.DeleteSubtasks(ctx, parent.ID)
			require.NoError(t, err)
			assert.EqualValues(t, 1, removed)
			require.NoError(t, tasks.Delete(ctx, parent.ID))

			orphan, err := tasks.GetByID(ctx, grandchild.ID)
			require.NoError(t, err)
			assert.Nil(t, orphan.ParentTaskID)

			_, err = tasks.GetByID(ctx, child.ID)
			assert.ErrorIs(t, err, store.ErrTaskNotFound)
			assert.ErrorIs(t, tasks.Delete(ctx, parent.ID), store.ErrTaskNotFound)
		})
	})
}

func TestTaskAuditStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		audits := postgres.NewPostgresTaskAuditStore(tx, discard)
		task := insertTask(t, tx, "audited", nil, nil)

		first := domain.NewTaskAuditRecord(task)
		require.NoError(t, audits.Create(ctx, first))

		task.Version = 2
		task.Title = "audited v2"
		task.UpdatedAt = time.Now().UTC()
		require.NoError(t, audits.Create(ctx, domain.NewTaskAuditRecord(task)))

		assert.ErrorIs(t, audits.Create(ctx, first), store.ErrDuplicate)
	})
}

func TestTaskStore_LockTimeout_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	var taskID uuid.UUID
	testdb.ResetTables(t, db)
	func() {
		tx, err := db.Begin()
		require.NoError(t, err)
		taskID = insertTask(t, tx, "contended", nil, nil).ID
		require.NoError(t, tx.Commit())
	}()

	holder, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback() }()
	_, err = postgres.NewPostgresTaskStore(holder, discard).GetForUpdate(ctx, taskID)
	require.NoError(t, err)

	waiter, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = waiter.Rollback() }()

	tasks := postgres.NewPostgresTaskStore(waiter, discard)
	require.NoError(t, tasks.SetLockTimeout(ctx, 100*time.Millisecond))
	_, err = tasks.GetForUpdate(ctx, taskID)
	assert.ErrorIs(t, err, store.ErrLockTimeout)
}
