package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

func TestConversationRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice when no conversations exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewConversationRepository(db)
		p := testutil.CreateProfile(t, db)

		got, err := repo.ListConversations(ctx, p.UID)
		if err != nil {
			t.Fatalf("ListConversations() returned unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", got)
		}
	})

	t.Run("newest first and scoped to the user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewConversationRepository(db)
		p := testutil.CreateProfile(t, db)
		other := testutil.CreateProfile(t, db)

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		older := testutil.NewConversation(p.UID).WithTitle("older").WithCreatedAt(base).Build(t, db)
		newer := testutil.NewConversation(p.UID).WithTitle("newer").WithCreatedAt(base.Add(time.Hour)).Build(t, db)
		testutil.NewConversation(other.UID).Build(t, db)

		got, err := repo.ListConversations(ctx, p.UID)
		if err != nil {
			t.Fatalf("ListConversations() returned unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 conversations, got %d", len(got))
		}
		if got[0].ID != newer.ID || got[1].ID != older.ID {
			t.Errorf("Expected newest first, got %s then %s", got[0].Title, got[1].Title)
		}
		if got[0].Messages != nil {
			t.Errorf("Expected listing without messages, got %d", len(got[0].Messages))
		}
	})
}

// TestConversationRepository_Messages verifies message ordering and ownership checks.
//
// WHY: Chat history is rendered in stored order, and one user must never be able to
// read or write another user's conversation by guessing its id.
func TestConversationRepository_Messages(t *testing.T) {
	ctx := context.Background()

	t.Run("messages come back in append order with panel data", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewConversationRepository(db)
		p := testutil.CreateProfile(t, db)
		c := testutil.NewConversation(p.UID).
			WithMessage(model.RoleUser, "price of AAPL?").
			Build(t, db)

		answer := model.ChatMessage{
			ID:        testutil.MakeID(),
			Role:      model.RoleAssistant,
			Text:      "Here is the latest quote.",
			Ticker:    "AAPL",
			Data:      json.RawMessage(`{"quote":{"symbol":"AAPL"}}`),
			Timestamp: time.Now().UTC(),
		}
		if err := repo.AppendMessage(ctx, p.UID, c.ID, answer); err != nil {
			t.Fatalf("AppendMessage() returned unexpected error: %v", err)
		}

		got, err := repo.GetConversation(ctx, p.UID, c.ID)
		if err != nil {
			t.Fatalf("GetConversation() returned unexpected error: %v", err)
		}
		if len(got.Messages) != 2 {
			t.Fatalf("Expected 2 messages, got %d", len(got.Messages))
		}
		if got.Messages[0].Role != model.RoleUser || got.Messages[1].Role != model.RoleAssistant {
			t.Errorf("Expected user then assistant, got %s then %s", got.Messages[0].Role, got.Messages[1].Role)
		}
		if got.Messages[1].Ticker != "AAPL" {
			t.Errorf("Expected ticker AAPL, got %q", got.Messages[1].Ticker)
		}
		if string(got.Messages[1].Data) != `{"quote":{"symbol":"AAPL"}}` {
			t.Errorf("Expected panel data to round trip, got %s", got.Messages[1].Data)
		}
		if got.Messages[0].Data != nil {
			t.Errorf("Expected no data on the question, got %s", got.Messages[0].Data)
		}
	})

	t.Run("another user's conversation is not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewConversationRepository(db)
		owner := testutil.CreateProfile(t, db)
		intruder := testutil.CreateProfile(t, db)
		c := testutil.NewConversation(owner.UID).Build(t, db)

		if _, err := repo.GetConversation(ctx, intruder.UID, c.ID); !errors.Is(err, apperrors.ErrConversationNotFound) {
			t.Errorf("GetConversation: expected ErrConversationNotFound, got %v", err)
		}

		msg := model.ChatMessage{ID: testutil.MakeID(), Role: model.RoleUser, Text: "hi", Timestamp: time.Now()}
		if err := repo.AppendMessage(ctx, intruder.UID, c.ID, msg); !errors.Is(err, apperrors.ErrConversationNotFound) {
			t.Errorf("AppendMessage: expected ErrConversationNotFound, got %v", err)
		}

		if err := repo.DeleteConversation(ctx, intruder.UID, c.ID); !errors.Is(err, apperrors.ErrConversationNotFound) {
			t.Errorf("DeleteConversation: expected ErrConversationNotFound, got %v", err)
		}
	})

	t.Run("delete cascades to messages", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewConversationRepository(db)
		p := testutil.CreateProfile(t, db)
		c := testutil.NewConversation(p.UID).
			WithMessage(model.RoleUser, "one").
			WithMessage(model.RoleAssistant, "two").
			Build(t, db)

		if err := repo.DeleteConversation(ctx, p.UID, c.ID); err != nil {
			t.Fatalf("DeleteConversation() returned unexpected error: %v", err)
		}

		if n := testutil.CountRows(t, db, "chat_message"); n != 0 {
			t.Errorf("Expected messages to be deleted, %d remain", n)
		}
	})
}
