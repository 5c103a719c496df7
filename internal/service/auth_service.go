package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/auth"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
)

// AuthService handles sign-up and sign-in.
type AuthService struct {
	profileRepo     *repository.ProfileRepository
	activityService *ActivityService
	sessions        *auth.SessionManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	profileRepo *repository.ProfileRepository,
	activityService *ActivityService,
	sessions *auth.SessionManager,
) *AuthService {
	return &AuthService{
		profileRepo:     profileRepo,
		activityService: activityService,
		sessions:        sessions,
	}
}

// SignUp creates a free-tier profile and issues a session for it.
//
// Emails are compared case-insensitively; they are stored lower-cased.
//
// Returns:
//   - apperrors.ErrEmailInUse if a profile with the email already exists
//   - error if hashing, storing or issuing the session fails
func (s *AuthService) SignUp(ctx context.Context, req request.SignUpRequest) (model.Session, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return model.Session{}, err
	}

	now := time.Now().UTC()
	profile := model.UserProfile{
		UID:              uuid.New().String(),
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            normalizeEmail(req.Email),
		SubscriptionTier: model.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
		LastLoginAt:      &now,
	}

	if err := s.profileRepo.InsertProfile(ctx, profile, hash); err != nil {
		return model.Session{}, err
	}

	s.activityService.Record(ctx, profile.UID, model.ActionSignUp, "")

	return s.issue(profile)
}

// SignIn verifies the credentials, stamps the login time and issues a session.
//
// An unknown email and a wrong password both return apperrors.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, req request.SignInRequest) (model.Session, error) {
	uid, hash, err := s.profileRepo.GetCredentials(ctx, normalizeEmail(req.Email))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return model.Session{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, err
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		return model.Session{}, err
	}

	if err := s.profileRepo.SetLastLogin(ctx, uid, time.Now().UTC()); err != nil {
		return model.Session{}, fmt.Errorf("failed to update last login: %w", err)
	}

	profile, err := s.profileRepo.GetProfile(ctx, uid)
	if err != nil {
		return model.Session{}, err
	}

	s.activityService.Record(ctx, uid, model.ActionSignIn, "")

	return s.issue(profile)
}

func (s *AuthService) issue(profile model.UserProfile) (model.Session, error) {
	token, expiresAt, err := s.sessions.Issue(profile.UID)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile:   profile,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
