package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

func TestProfileRepository_InsertAndGet(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewProfileRepository(db)

		created := testutil.NewProfile().WithEmail("jane@example.com").WithQuestionCount(2).Build(t, db)

		got, err := repo.GetProfile(ctx, created.UID)
		if err != nil {
			t.Fatalf("GetProfile() returned unexpected error: %v", err)
		}

		if got.Email != "jane@example.com" {
			t.Errorf("Expected email jane@example.com, got %s", got.Email)
		}
		if got.QuestionCount != 2 {
			t.Errorf("Expected question count 2, got %d", got.QuestionCount)
		}
		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("Expected CreatedAt %v, got %v", created.CreatedAt, got.CreatedAt)
		}
		if got.LastLoginAt != nil {
			t.Errorf("Expected nil LastLoginAt, got %v", got.LastLoginAt)
		}
		if got.RiskAnalysis != nil {
			t.Errorf("Expected nil RiskAnalysis, got %+v", got.RiskAnalysis)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewProfileRepository(db)
		testutil.NewProfile().WithEmail("dup@example.com").Build(t, db)

		now := time.Now().UTC()
		err := repo.InsertProfile(ctx, model.UserProfile{
			UID:              testutil.MakeID(),
			Email:            "dup@example.com",
			SubscriptionTier: model.TierFree,
			CreatedAt:        now,
			UpdatedAt:        now,
		}, "hash")

		if !errors.Is(err, apperrors.ErrEmailInUse) {
			t.Errorf("Expected ErrEmailInUse, got %v", err)
		}
	})

	t.Run("unknown uid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewProfileRepository(db)

		_, err := repo.GetProfile(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestProfileRepository_Updates(t *testing.T) {
	ctx := context.Background()

	t.Run("update, login, question count and risk snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewProfileRepository(db)
		p := testutil.CreateProfile(t, db)

		p.FirstName = "Ada"
		p.SubscriptionTier = model.TierPro
		p.UpdatedAt = time.Now().UTC()
		if err := repo.UpdateProfile(ctx, p); err != nil {
			t.Fatalf("UpdateProfile() returned unexpected error: %v", err)
		}

		login := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
		if err := repo.SetLastLogin(ctx, p.UID, login); err != nil {
			t.Fatalf("SetLastLogin() returned unexpected error: %v", err)
		}

		if err := repo.IncrementQuestionCount(ctx, p.UID, login); err != nil {
			t.Fatalf("IncrementQuestionCount() returned unexpected error: %v", err)
		}

		ra := model.RiskAnalysis{
			RiskScore:   7,
			RiskLevel:   model.RiskAggressive,
			Explanation: "Concentrated positions.",
			AnalyzedAt:  login,
		}
		if err := repo.SetRiskAnalysis(ctx, p.UID, ra); err != nil {
			t.Fatalf("SetRiskAnalysis() returned unexpected error: %v", err)
		}

		got, err := repo.GetProfile(ctx, p.UID)
		if err != nil {
			t.Fatalf("GetProfile() returned unexpected error: %v", err)
		}

		if got.FirstName != "Ada" || got.SubscriptionTier != model.TierPro {
			t.Errorf("Expected updated name and tier, got %s/%s", got.FirstName, got.SubscriptionTier)
		}
		if got.LastLoginAt == nil || !got.LastLoginAt.Equal(login) {
			t.Errorf("Expected LastLoginAt %v, got %v", login, got.LastLoginAt)
		}
		if got.QuestionCount != 1 {
			t.Errorf("Expected question count 1, got %d", got.QuestionCount)
		}
		if got.RiskAnalysis == nil || got.RiskAnalysis.RiskLevel != model.RiskAggressive || got.RiskAnalysis.RiskScore != 7 {
			t.Errorf("Expected stored risk analysis, got %+v", got.RiskAnalysis)
		}
	})

	t.Run("updates of a missing profile report not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewProfileRepository(db)
		uid := testutil.MakeID()

		if err := repo.SetLastLogin(ctx, uid, time.Now()); !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("SetLastLogin: expected ErrUserNotFound, got %v", err)
		}
		if err := repo.IncrementQuestionCount(ctx, uid, time.Now()); !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("IncrementQuestionCount: expected ErrUserNotFound, got %v", err)
		}
		if err := repo.UpdateProfile(ctx, model.UserProfile{UID: uid}); !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("UpdateProfile: expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("corrupt risk snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewProfileRepository(db)
		p := testutil.CreateProfile(t, db)

		if _, err := db.Exec(`UPDATE user_profile SET risk_analysis = '{broken' WHERE uid = ?`, p.UID); err != nil {
			t.Fatalf("Failed to corrupt row: %v", err)
		}

		_, err := repo.GetProfile(ctx, p.UID)
		if !errors.Is(err, apperrors.ErrDataInconsistency) {
			t.Errorf("Expected ErrDataInconsistency, got %v", err)
		}
	})
}

func TestProfileRepository_GetCredentials(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewProfileRepository(db)
	p := testutil.NewProfile().WithEmail("creds@example.com").Build(t, db)

	uid, hash, err := repo.GetCredentials(ctx, "creds@example.com")
	if err != nil {
		t.Fatalf("GetCredentials() returned unexpected error: %v", err)
	}
	if uid != p.UID {
		t.Errorf("Expected uid %s, got %s", p.UID, uid)
	}
	if hash == "" || hash == testutil.DefaultPassword {
		t.Errorf("Expected a bcrypt hash, got %q", hash)
	}

	if _, _, err := repo.GetCredentials(ctx, "nobody@example.com"); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
