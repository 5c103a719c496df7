package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
	"github.com/ndewijer/Stock-Research-Backend/internal/validation"
)

// ProfileHandler handles the signed-in user's profile and activity log.
type ProfileHandler struct {
	profileService  *service.ProfileService
	activityService *service.ActivityService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService, activityService *service.ActivityService) *ProfileHandler {
	return &ProfileHandler{
		profileService:  profileService,
		activityService: activityService,
	}
}

// GetProfile returns the signed-in user's profile, including the last risk snapshot.
//
// Endpoint: GET /api/profile
// Response: 200 OK with model.UserProfile
// Error: 404 Not Found if the profile was deleted after the session was issued
// Error: 500 Internal Server Error if retrieval fails
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), uid)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveProfile.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile changes names and subscription tier. Omitted fields are left alone.
//
// Endpoint: PUT /api/profile
// Request Body: UpdateProfileRequest (all fields optional, at least one required)
// Response: 200 OK with updated model.UserProfile
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the profile does not exist
// Error: 500 Internal Server Error if update fails
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.UpdateProfileRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateProfile(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), uid, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateProfile.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, profile)
}

// Activity lists the signed-in user's activity log, newest first.
//
// Endpoint: GET /api/activity?actions=search,chat&limit=50
// Response: 200 OK with array of model.ActivityLog
// Error: 400 Bad Request if a filter is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *ProfileHandler) Activity(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	filters, err := request.ParseActivityFilters(r.URL.Query().Get("actions"), r.URL.Query().Get("limit"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	logs, err := h.activityService.List(r.Context(), uid, filters)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveActivity.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, logs)
}
