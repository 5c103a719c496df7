package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/auth"
	"github.com/ndewijer/Stock-Research-Backend/internal/validation"
)

// maxJSONBodyBytes caps JSON request bodies.
const maxJSONBodyBytes = 1 << 20

// parseJSON decodes the request body into a T, rejecting unknown fields and trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return req, errors.New("invalid JSON: unexpected data after object")
	}

	return req, nil
}

// requireUID returns the signed-in user id placed in the context by RequireSession.
// It writes a 401 and returns false when there is none.
func requireUID(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrMissingSession.Error(), nil)
		return "", false
	}
	return uid, true
}

// errorStatus maps a service error onto an HTTP status and user-facing message.
// Errors without a known sentinel get fallback and a 500.
func errorStatus(err error, fallback string) (int, string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return http.StatusBadRequest, "validation failed"
	}

	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			return m.status, m.err.Error()
		}
	}

	return http.StatusInternalServerError, fallback
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{apperrors.ErrSuperseded, http.StatusConflict},
	{apperrors.ErrUserNotFound, http.StatusNotFound},
	{apperrors.ErrConversationNotFound, http.StatusNotFound},
	{apperrors.ErrSymbolNotFound, http.StatusNotFound},
	{apperrors.ErrScreenNotFound, http.StatusNotFound},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperrors.ErrInvalidSession, http.StatusUnauthorized},
	{apperrors.ErrMissingSession, http.StatusUnauthorized},
	{apperrors.ErrEmailInUse, http.StatusConflict},
	{apperrors.ErrQuestionLimitReached, http.StatusForbidden},
	{apperrors.ErrUnreadableTradeFile, http.StatusBadRequest},
	{apperrors.ErrEmptyTradeFile, http.StatusBadRequest},
	{apperrors.ErrInvalidRiskResponse, http.StatusBadGateway},
	{apperrors.ErrScreenerFetch, http.StatusBadGateway},
	{apperrors.ErrInvalidFormat, http.StatusBadGateway},
	{apperrors.ErrFinanceAPI, http.StatusBadGateway},
	{apperrors.ErrLLMRequest, http.StatusBadGateway},
}

// respondServiceError writes err using errorStatus. Validation errors carry their field map
// as details; everything else carries the error text.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	status, msg := errorStatus(err, fallback)

	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, status, msg, verr.Fields)
		return
	}

	response.RespondError(w, status, msg, err.Error())
}
