package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasktrail-api/internal/api/shared"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/service"
)

// MapErrorToStatusCode maps service and domain errors to HTTP status codes
// without leaking the error types to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, domain.ErrValidation), errors.As(err, &verrs):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict

	// The lock holder will finish; the client may retry.
	case errors.Is(err, service.ErrLockTimeout), errors.Is(err, service.ErrTaskContended):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verr *domain.ValidationError
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, service.ErrTaskModified):
		return "Task was modified by another user"
	case errors.Is(err, service.ErrUrgentTaskNotDeletable):
		return "Cannot delete a task that is urgent"
	case errors.Is(err, service.ErrEmailExists):
		return "Email already registered"
	case errors.Is(err, service.ErrLockTimeout):
		return "Task is locked by another operation, try again later"
	case errors.Is(err, service.ErrTaskContended):
		return "Task is being changed concurrently, try again later"
	case errors.As(err, &verrs):
		return SanitizeValidationError(verrs)
	case errors.As(err, &verr):
		// Domain validation messages are written for clients.
		return verr.Error()
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	first := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(first.Field()), getValidationTagMessage(first.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted error. A non-empty fallback replaces the generic message of
// unexpected errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
