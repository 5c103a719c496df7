package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
	"github.com/ndewijer/Stock-Research-Backend/internal/validation"
)

// StockHandler handles the search page: quotes, charts, news and trending symbols.
type StockHandler struct {
	searchService *service.SearchService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(searchService *service.SearchService) *StockHandler {
	return &StockHandler{
		searchService: searchService,
	}
}

// Quotes returns the latest quotes for a comma-separated symbol list.
// Unknown symbols are left out. A newer search by the same user supersedes this one.
//
// Endpoint: GET /api/stock/quote?symbols=AAPL,MSFT
// Response: 200 OK with array of model.Quote
// Error: 400 Bad Request if symbols is missing or malformed
// Error: 409 Conflict if a newer search replaced this request
// Error: 502 Bad Gateway if the finance API fails
func (h *StockHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	symbols, err := validation.ParseSymbols(r.URL.Query().Get("symbols"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid symbols", err.Error())
		return
	}

	quotes, err := h.searchService.Quotes(r.Context(), uid, symbols)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFinanceAPI.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quotes)
}

// Trending returns the most searched symbols.
//
// Endpoint: GET /api/stock/trending?limit=10
// Response: 200 OK with array of model.SymbolCounter
// Error: 400 Bad Request if limit is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *StockHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, err := request.ParseTrendingLimit(r.URL.Query().Get("limit"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid limit", err.Error())
		return
	}

	counters, err := h.searchService.Trending(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTrending.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, counters)
}

// Chart returns the daily price chart of a symbol.
//
// Endpoint: GET /api/stock/{symbol}/chart?range=1mo
// Response: 200 OK with model.Chart
// Error: 400 Bad Request if the symbol or range is invalid
// Error: 404 Not Found if the symbol is unknown
// Error: 502 Bad Gateway if the finance API fails or returns an unexpected shape
func (h *StockHandler) Chart(w http.ResponseWriter, r *http.Request) {
	symbol, err := validation.NormalizeSymbol(chi.URLParam(r, "symbol"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
		return
	}

	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = request.DefaultChartRange
	}
	if err := validation.ValidateChartRange(rng); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid range", err.Error())
		return
	}

	chart, err := h.searchService.Chart(r.Context(), symbol, rng)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFinanceAPI.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, chart)
}

// News returns recent headlines for a symbol.
//
// Endpoint: GET /api/stock/{symbol}/news
// Response: 200 OK with array of model.NewsItem
// Error: 400 Bad Request if the symbol is invalid
// Error: 502 Bad Gateway if the finance API fails
func (h *StockHandler) News(w http.ResponseWriter, r *http.Request) {
	symbol, err := validation.NormalizeSymbol(chi.URLParam(r, "symbol"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
		return
	}

	news, err := h.searchService.News(r.Context(), symbol)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFinanceAPI.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, news)
}
