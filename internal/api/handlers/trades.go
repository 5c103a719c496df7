package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/portfolio"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
)

// uploadField is the multipart form field carrying the trade file.
const uploadField = "file"

// TradeHandler handles trade file uploads.
type TradeHandler struct {
	tradeService   *service.TradeService
	riskService    *service.RiskService
	maxUploadBytes int64
}

// NewTradeHandler creates a new TradeHandler accepting uploads up to maxUploadBytes.
func NewTradeHandler(tradeService *service.TradeService, riskService *service.RiskService, maxUploadBytes int64) *TradeHandler {
	return &TradeHandler{
		tradeService:   tradeService,
		riskService:    riskService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Analyze parses an uploaded trade file and returns positions, statistics and the daily series.
//
// Endpoint: POST /api/trades/analyze?month=2024-02&tab=win
// Request Body: multipart/form-data with the file in field "file"
// Response: 200 OK with model.TradeAnalysis
// Error: 400 Bad Request if the file is missing, unreadable, empty or a filter is invalid
// Error: 413 Request Entity Too Large if the upload exceeds the size limit
func (h *TradeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	month, err := request.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid month", err.Error())
		return
	}
	tab, err := portfolio.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid tab", err.Error())
		return
	}

	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	analysis, err := h.tradeService.Analyze(r.Context(), uid, file, month, tab)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAnalyzeTrades.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, analysis)
}

// Risk asks the assistant to score the risk tolerance shown by an uploaded trade file
// and stores the result on the profile.
//
// Endpoint: POST /api/trades/risk
// Request Body: multipart/form-data with the file in field "file"
// Response: 200 OK with model.RiskAnalysis
// Error: 400 Bad Request if the file is missing, unreadable or empty
// Error: 502 Bad Gateway if the assistant fails or answers in an unexpected format
func (h *TradeHandler) Risk(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	analysis, err := h.riskService.Analyze(r.Context(), uid, file)
	if err != nil {
		respondServiceError(w, err, "failed to analyze risk")
		return
	}

	response.RespondJSON(w, http.StatusOK, analysis)
}

// openUpload returns the uploaded trade file, writing the error response itself on failure.
func (h *TradeHandler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if r.ContentLength > h.maxUploadBytes {
		response.RespondError(w, http.StatusRequestEntityTooLarge, "file too large", nil)
		return nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(w, http.StatusRequestEntityTooLarge, "file too large", err.Error())
			return nil, false
		}
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrUnreadableTradeFile.Error(), err.Error())
		return nil, false
	}

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.RespondError(w, http.StatusBadRequest, "file is required", nil)
			return nil, false
		}
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrUnreadableTradeFile.Error(), err.Error())
		return nil, false
	}

	return file, true
}

