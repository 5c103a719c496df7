package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

func TestProfileService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only provided fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestProfileService(t, db)
		p := testutil.CreateProfile(t, db)

		first := " Grace "
		tier := model.TierPro
		updated, err := svc.UpdateProfile(ctx, p.UID, request.UpdateProfileRequest{
			FirstName:        &first,
			SubscriptionTier: &tier,
		})
		if err != nil {
			t.Fatalf("UpdateProfile() returned unexpected error: %v", err)
		}

		if updated.FirstName != "Grace" {
			t.Errorf("Expected trimmed first name, got %q", updated.FirstName)
		}
		if updated.LastName != p.LastName {
			t.Errorf("Expected last name unchanged, got %q", updated.LastName)
		}
		if updated.SubscriptionTier != model.TierPro {
			t.Errorf("Expected pro tier, got %s", updated.SubscriptionTier)
		}

		stored, err := svc.GetProfile(ctx, p.UID)
		if err != nil {
			t.Fatalf("GetProfile() returned unexpected error: %v", err)
		}
		if stored.FirstName != "Grace" || stored.SubscriptionTier != model.TierPro {
			t.Errorf("Expected update to be stored, got %+v", stored)
		}

		logs, err := testutil.NewTestActivityService(t, db).List(ctx, p.UID, model.ActivityFilters{Limit: 10})
		if err != nil {
			t.Fatalf("List() returned unexpected error: %v", err)
		}
		if len(logs) != 1 || logs[0].Action != model.ActionProfileEdit || logs[0].Detail != "firstName,subscriptionTier" {
			t.Errorf("Expected one profile_edit entry listing the fields, got %+v", logs)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestProfileService(t, db)

		name := "x"
		_, err := svc.UpdateProfile(ctx, testutil.MakeID(), request.UpdateProfileRequest{FirstName: &name})
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestActivityService_PruneBefore(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestActivityService(t, db)
	uid := testutil.MakeID()
	now := time.Now().UTC()

	testutil.CreateActivity(t, db, uid, model.ActionSearch, now.AddDate(0, 0, -100))
	testutil.CreateActivity(t, db, uid, model.ActionSearch, now)

	n, err := svc.PruneBefore(ctx, now.AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("PruneBefore() returned unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 pruned entry, got %d", n)
	}
}
