package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrail-api/internal/domain"
)

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// getIfMatchVersion reads the task version from an If-Match header.
// Both `3` and `"3"` (optionally weak, W/"3") are accepted. The second
// return value is false when the header is absent.
func getIfMatchVersion(r *http.Request) (int, bool, error) {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" {
		return 0, false, nil
	}

	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	version, err := strconv.Atoi(raw)
	if err != nil || version < domain.InitialTaskVersion {
		return 0, false, domain.NewValidationError("If-Match", "must be a task version", domain.ErrInvalidFormat)
	}
	return version, true, nil
}

// versionETag formats a task version as a strong entity tag.
func versionETag(version int) string {
	return `"` + strconv.Itoa(version) + `"`
}
