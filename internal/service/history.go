package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
)

// buildTaskHistory merges audit records with the live tasks.
//
// The result is seeded from records. A live task whose current version has no
// record is added as that version, with its subtasks attached; an audited
// version is never overwritten by the live row.
func buildTaskHistory(
	userID uuid.UUID,
	tasks []*domain.Task,
	records []*domain.TaskAuditRecord,
	fetchedAt time.Time,
) *domain.TaskHistory {
	data := make(map[uuid.UUID]map[int]domain.TaskVersion, len(tasks))

	for _, r := range records {
		versions, ok := data[r.TaskID]
		if !ok {
			versions = make(map[int]domain.TaskVersion)
			data[r.TaskID] = versions
		}
		versions[r.Version] = domain.TaskVersion{
			Title:          r.Title,
			Description:    r.Description,
			Status:         r.Status,
			AssignedUserID: r.AssignedUserID,
			UpdatedAt:      r.UpdatedAt,
		}
	}

	for _, t := range tasks {
		versions, ok := data[t.ID]
		if !ok {
			versions = make(map[int]domain.TaskVersion)
			data[t.ID] = versions
		}
		if _, audited := versions[t.Version]; audited {
			continue
		}
		versions[t.Version] = domain.TaskVersion{
			Title:          t.Title,
			Description:    t.Description,
			Status:         t.Status,
			AssignedUserID: t.AssignedUserID,
			UpdatedAt:      t.UpdatedAt,
			Subtasks:       t.Subtasks,
		}
	}

	return &domain.TaskHistory{
		Data: data,
		Metadata: domain.HistoryMetadata{
			FetchTimestamp: fetchedAt,
			UserID:         userID,
		},
	}
}
