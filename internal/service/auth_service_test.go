package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a free profile and a verifiable session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		sessions := testutil.NewTestSessionManager(t)
		svc := testutil.NewTestAuthService(t, db, sessions)

		session, err := svc.SignUp(ctx, request.SignUpRequest{
			Email:     "  Jane@Example.com ",
			Password:  "s3cret-password",
			FirstName: "Jane",
			LastName:  "Doe",
		})
		if err != nil {
			t.Fatalf("SignUp() returned unexpected error: %v", err)
		}

		if session.Profile.Email != "jane@example.com" {
			t.Errorf("Expected normalized email, got %q", session.Profile.Email)
		}
		if session.Profile.SubscriptionTier != model.TierFree {
			t.Errorf("Expected free tier, got %s", session.Profile.SubscriptionTier)
		}

		uid, err := sessions.Verify(session.Token)
		if err != nil {
			t.Fatalf("Verify() returned unexpected error: %v", err)
		}
		if uid != session.Profile.UID {
			t.Errorf("Expected token for %s, got %s", session.Profile.UID, uid)
		}

		if n := testutil.CountRows(t, db, "user_log"); n != 1 {
			t.Errorf("Expected 1 activity entry, got %d", n)
		}
	})

	t.Run("email already in use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db, testutil.NewTestSessionManager(t))
		testutil.NewProfile().WithEmail("taken@example.com").Build(t, db)

		_, err := svc.SignUp(ctx, request.SignUpRequest{Email: "TAKEN@example.com", Password: "whatever123"})
		if !errors.Is(err, apperrors.ErrEmailInUse) {
			t.Errorf("Expected ErrEmailInUse, got %v", err)
		}
	})
}

// TestAuthService_SignIn tests credential checks on sign-in.
//
// WHY: An unknown email and a wrong password must be indistinguishable to the caller,
// and only a successful sign-in may stamp the login time.
func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db, testutil.NewTestSessionManager(t))
		p := testutil.NewProfile().WithEmail("sam@example.com").Build(t, db)

		session, err := svc.SignIn(ctx, request.SignInRequest{Email: "Sam@example.com", Password: testutil.DefaultPassword})
		if err != nil {
			t.Fatalf("SignIn() returned unexpected error: %v", err)
		}

		if session.Profile.UID != p.UID {
			t.Errorf("Expected profile %s, got %s", p.UID, session.Profile.UID)
		}
		if session.Profile.LastLoginAt == nil {
			t.Error("Expected LastLoginAt to be set")
		}
		if session.Token == "" {
			t.Error("Expected a session token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db, testutil.NewTestSessionManager(t))
		testutil.NewProfile().WithEmail("sam@example.com").Build(t, db)

		_, err := svc.SignIn(ctx, request.SignInRequest{Email: "sam@example.com", Password: "not the password"})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
		if n := testutil.CountRows(t, db, "user_log"); n != 0 {
			t.Errorf("Expected no activity for a failed sign-in, got %d", n)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db, testutil.NewTestSessionManager(t))

		_, err := svc.SignIn(ctx, request.SignInRequest{Email: "ghost@example.com", Password: testutil.DefaultPassword})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}
