package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

func TestConversationService(t *testing.T) {
	ctx := context.Background()

	t.Run("create, get, list and delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestConversationService(t, db)
		p := testutil.CreateProfile(t, db)

		created, err := svc.CreateConversation(ctx, p.UID, "  Semis  ")
		if err != nil {
			t.Fatalf("CreateConversation() returned unexpected error: %v", err)
		}
		if created.Title != "Semis" {
			t.Errorf("Expected trimmed title, got %q", created.Title)
		}

		got, err := svc.GetConversation(ctx, p.UID, created.ID)
		if err != nil {
			t.Fatalf("GetConversation() returned unexpected error: %v", err)
		}
		if len(got.Messages) != 0 {
			t.Errorf("Expected no messages, got %d", len(got.Messages))
		}

		list, err := svc.ListConversations(ctx, p.UID)
		if err != nil {
			t.Fatalf("ListConversations() returned unexpected error: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("Expected 1 conversation, got %d", len(list))
		}

		if err := svc.DeleteConversation(ctx, p.UID, created.ID); err != nil {
			t.Fatalf("DeleteConversation() returned unexpected error: %v", err)
		}
		if _, err := svc.GetConversation(ctx, p.UID, created.ID); !errors.Is(err, apperrors.ErrConversationNotFound) {
			t.Errorf("Expected ErrConversationNotFound after delete, got %v", err)
		}
	})
}
