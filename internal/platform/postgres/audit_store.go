package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/platform/logger"
	"github.com/phrazzld/tasktrail-api/internal/store"
)

// PostgresTaskAuditStore implements the store.TaskAuditStore interface.
type PostgresTaskAuditStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskAuditStore creates a new PostgreSQL implementation of the TaskAuditStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskAuditStore(db store.DBTX, logger *slog.Logger) *PostgresTaskAuditStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskAuditStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_audit_store")),
	}
}

var _ store.TaskAuditStore = (*PostgresTaskAuditStore)(nil)

// WithTx implements store.TaskAuditStore.WithTx
func (s *PostgresTaskAuditStore) WithTx(tx *sql.Tx) store.TaskAuditStore {
	return &PostgresTaskAuditStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskAuditStore.Create
func (s *PostgresTaskAuditStore) Create(ctx context.Context, record *domain.TaskAuditRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO task_audits (task_id, version, title, description, status, assigned_user_id, updated_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.TaskID,
		record.Version,
		record.Title,
		record.Description,
		string(record.Status),
		nullUUID(record.AssignedUserID),
		record.UpdatedAt,
		record.CreatedAt,
	)
	if err != nil {
		log.Error("failed to write task audit record",
			slog.String("error", err.Error()),
			slog.String("task_id", record.TaskID.String()),
			slog.Int("version", record.Version))
		return MapError(err)
	}

	log.Debug("task audit record written",
		slog.String("task_id", record.TaskID.String()),
		slog.Int("version", record.Version))
	return nil
}

// ListForTasks implements store.TaskAuditStore.ListForTasks
func (s *PostgresTaskAuditStore) ListForTasks(
	ctx context.Context,
	taskIDs []uuid.UUID,
) ([]*domain.TaskAuditRecord, error) {
	if len(taskIDs) == 0 {
		return []*domain.TaskAuditRecord{}, nil
	}

	query := `
		SELECT task_id, version, title, description, status, assigned_user_id, updated_at, created_at
		FROM task_audits
		WHERE task_id = ANY($1::uuid[])
		ORDER BY task_id ASC, version ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuidArray(taskIDs))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list task audit records",
			slog.String("error", err.Error()),
			slog.Int("task_count", len(taskIDs)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*domain.TaskAuditRecord, 0)
	for rows.Next() {
		var (
			r        domain.TaskAuditRecord
			status   string
			assignee uuid.NullUUID
		)
		if err := rows.Scan(
			&r.TaskID,
			&r.Version,
			&r.Title,
			&r.Description,
			&status,
			&assignee,
			&r.UpdatedAt,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task audit record: %w", err)
		}
		r.Status = domain.TaskStatus(status)
		r.AssignedUserID = uuidPtr(assignee)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return records, nil
}

// uuidArray renders ids as a PostgreSQL array literal for a $n::uuid[] parameter.
func uuidArray(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := id.UUID
	return &v
}
