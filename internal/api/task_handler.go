package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrail-api/internal/api/shared"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/platform/logger"
	"github.com/phrazzld/tasktrail-api/internal/redact"
	"github.com/phrazzld/tasktrail-api/internal/service"
)

// TaskHandler serves the /api/tasks routes.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	w.Header().Set("ETag", versionETag(task.Version))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// ListTasks handles GET /api/tasks with an optional ?status= filter.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter := domain.TaskFilter{Status: domain.TaskStatus(r.URL.Query().Get("status"))}

	tasks, err := h.tasks.GetAllTasks(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(tasks))
}

// GetTaskWithSubtasks handles GET /api/tasks/{taskID}/with-subtasks.
func (h *TaskHandler) GetTaskWithSubtasks(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.GetTaskWithSubtasks(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	w.Header().Set("ETag", versionETag(task.Version))
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// ListUnassigned handles GET /api/tasks/unassigned.
func (h *TaskHandler) ListUnassigned(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.GetUnassignedTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get unassigned tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(tasks))
}

// ListAssignedToUser handles GET /api/tasks/user/{userID}.
func (h *TaskHandler) ListAssignedToUser(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.tasks.GetAssignedTasksForUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get assigned tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(tasks))
}

// AssignTask handles PATCH /api/tasks/{taskID}/assign/{userID}.
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := getPathUUID(r, "taskID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	userID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.AssignTask(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to assign task")
		return
	}

	log.Debug("task assigned",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	w.Header().Set("ETag", versionETag(task.Version))
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PUT /api/tasks/{taskID}. The expected version comes from
// the body or an If-Match header; when both are given they must agree.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := getPathUUID(r, "taskID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	headerVersion, ok, err := getIfMatchVersion(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if ok {
		if req.Version != nil && *req.Version != headerVersion {
			HandleAPIError(w, r,
				domain.NewValidationError("version", "does not match the If-Match header", nil), "")
			return
		}
		req.Version = &headerVersion
	}

	task, err := h.tasks.UpdateTask(r.Context(), taskID, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	w.Header().Set("ETag", versionETag(task.Version))
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{taskID}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.tasks.DeleteTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetUserTaskHistory handles GET /api/tasks/user/{userID}/history.
func (h *TaskHandler) GetUserTaskHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	history, err := h.tasks.GetUserTaskHistory(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task history")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, history)
}

// nonNil makes empty listings encode as [] rather than null.
func nonNil(tasks []*domain.Task) []*domain.Task {
	if tasks == nil {
		return []*domain.Task{}
	}
	return tasks
}
