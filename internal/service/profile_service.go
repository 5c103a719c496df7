package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
)

// ProfileService handles reading and editing the signed-in user's profile.
type ProfileService struct {
	profileRepo     *repository.ProfileRepository
	activityService *ActivityService
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profileRepo *repository.ProfileRepository, activityService *ActivityService) *ProfileService {
	return &ProfileService{
		profileRepo:     profileRepo,
		activityService: activityService,
	}
}

// GetProfile retrieves the profile of uid.
func (s *ProfileService) GetProfile(ctx context.Context, uid string) (model.UserProfile, error) {
	return s.profileRepo.GetProfile(ctx, uid)
}

// UpdateProfile applies the provided fields to the stored profile.
// Writes are last-write-wins.
//
// Returns:
//   - apperrors.ErrUserNotFound if the profile no longer exists
//   - error wrapping apperrors.ErrFailedToUpdateProfile if the write fails
func (s *ProfileService) UpdateProfile(ctx context.Context, uid string, req request.UpdateProfileRequest) (model.UserProfile, error) {
	profile, err := s.profileRepo.GetProfile(ctx, uid)
	if err != nil {
		return model.UserProfile{}, err
	}

	changed := []string{}
	if req.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*req.FirstName)
		changed = append(changed, "firstName")
	}
	if req.LastName != nil {
		profile.LastName = strings.TrimSpace(*req.LastName)
		changed = append(changed, "lastName")
	}
	if req.SubscriptionTier != nil {
		profile.SubscriptionTier = *req.SubscriptionTier
		changed = append(changed, "subscriptionTier")
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.UpdateProfile(ctx, profile); err != nil {
		return model.UserProfile{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToUpdateProfile, err)
	}

	s.activityService.Record(ctx, uid, model.ActionProfileEdit, strings.Join(changed, ","))

	return profile, nil
}
