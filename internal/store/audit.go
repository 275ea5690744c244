package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
)

// TaskAuditStore persists the append-only task version snapshots.
type TaskAuditStore interface {
	// Create appends an audit record.
	// Returns ErrDuplicate if a record for the same task and version exists.
	Create(ctx context.Context, record *domain.TaskAuditRecord) error

	// ListForTasks returns every record of the given tasks ordered by task id
	// then version, both ascending. An empty id list yields no records.
	ListForTasks(ctx context.Context, taskIDs []uuid.UUID) ([]*domain.TaskAuditRecord, error)

	// WithTx returns a new TaskAuditStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskAuditStore
}
