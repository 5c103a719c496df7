package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
)

// ScreenerHandler serves the predefined stock screens.
type ScreenerHandler struct {
	screenerService *service.ScreenerService
}

// NewScreenerHandler creates a new ScreenerHandler.
func NewScreenerHandler(screenerService *service.ScreenerService) *ScreenerHandler {
	return &ScreenerHandler{
		screenerService: screenerService,
	}
}

// Catalog lists the available screens.
//
// Endpoint: GET /api/screener
// Response: 200 OK with array of model.Screen
func (h *ScreenerHandler) Catalog(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.screenerService.Catalog())
}

// Run executes a screen and returns its admissible results.
//
// Endpoint: GET /api/screener/{screenId}
// Response: 200 OK with model.ScreenerRun
// Error: 404 Not Found if the screen id is unknown
// Error: 409 Conflict if a newer screener request replaced this one
// Error: 502 Bad Gateway if the screener fetch fails
func (h *ScreenerHandler) Run(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	run, err := h.screenerService.Run(r.Context(), uid, chi.URLParam(r, "screenId"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrScreenerFetch.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, run)
}
