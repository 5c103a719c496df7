package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
)

// LogHandler serves the internal log maintenance endpoint.
type LogHandler struct {
	activityService *service.ActivityService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(activityService *service.ActivityService) *LogHandler {
	return &LogHandler{
		activityService: activityService,
	}
}

// PruneResponse reports how many activity log entries were removed.
type PruneResponse struct {
	Deleted int64 `json:"deleted"`
}

// PruneLogs deletes activity log entries older than the before parameter.
// Protected by the internal API key middleware.
//
// Endpoint: DELETE /api/internal/logs?before=2024-01-01
// Response: 200 OK with PruneResponse
// Error: 400 Bad Request if before is missing or malformed
// Error: 401 Unauthorized if the API key or time token is invalid (middleware)
// Error: 500 Internal Server Error if deletion fails
func (h *LogHandler) PruneLogs(w http.ResponseWriter, r *http.Request) {
	before, err := request.ParsePruneBefore(r.URL.Query().Get("before"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid before parameter", err.Error())
		return
	}

	n, err := h.activityService.PruneBefore(r.Context(), before)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDeleteLogs.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, PruneResponse{Deleted: n})
}
