package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
	"github.com/ndewijer/Stock-Research-Backend/internal/validation"
)

// WatchlistHandler refreshes client-owned watchlists. Nothing is stored server side.
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
	}
}

// Refresh updates prices of the posted entries and flags crossed alerts.
//
// Endpoint: POST /api/watchlist/refresh
// Request Body: RefreshWatchlistRequest (entries)
// Response: 200 OK with array of model.WatchlistEntry in request order
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 502 Bad Gateway if the finance API fails
func (h *WatchlistHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RefreshWatchlistRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRefreshWatchlist(&req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	entries, err := h.watchlistService.Refresh(r.Context(), req.Entries)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFinanceAPI.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}
