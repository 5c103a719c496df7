package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

func setupConversationHandler(t *testing.T, completer *testutil.MockCompleter, finance *testutil.MockFinanceClient, limit int) (*ConversationHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewConversationHandler(
		testutil.NewTestConversationService(t, db),
		testutil.NewTestChatService(t, db, completer, finance, limit),
	), db
}

//nolint:gocyclo // Test functions naturally have many branches for different scenarios
func TestConversationHandler_CRUD(t *testing.T) {
	t.Run("list returns only the user's conversations", func(t *testing.T) {
		handler, db := setupConversationHandler(t, testutil.NewMockCompleter(""), testutil.NewMockFinanceClient(), 0)
		p := testutil.CreateProfile(t, db)
		other := testutil.CreateProfile(t, db)
		testutil.NewConversation(p.UID).WithTitle("Mine").Build(t, db)
		testutil.NewConversation(other.UID).WithTitle("Theirs").Build(t, db)

		w := httptest.NewRecorder()
		handler.ListConversations(w, testutil.NewAuthedRequest(http.MethodGet, "/api/conversation", nil, p.UID, nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got []model.Conversation
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&got)

		if len(got) != 1 || got[0].Title != "Mine" {
			t.Errorf("Expected only own conversation, got %+v", got)
		}
	})

	t.Run("create returns 201", func(t *testing.T) {
		handler, db := setupConversationHandler(t, testutil.NewMockCompleter(""), testutil.NewMockFinanceClient(), 0)
		p := testutil.CreateProfile(t, db)

		w := httptest.NewRecorder()
		handler.CreateConversation(w, testutil.NewAuthedRequest(http.MethodPost, "/api/conversation",
			strings.NewReader(`{"title":"Semis"}`), p.UID, nil))

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if n := testutil.CountRows(t, db, "conversation"); n != 1 {
			t.Errorf("Expected 1 conversation row, got %d", n)
		}
	})

	t.Run("create returns 400 for an empty title", func(t *testing.T) {
		handler, db := setupConversationHandler(t, testutil.NewMockCompleter(""), testutil.NewMockFinanceClient(), 0)
		p := testutil.CreateProfile(t, db)

		w := httptest.NewRecorder()
		handler.CreateConversation(w, testutil.NewAuthedRequest(http.MethodPost, "/api/conversation",
			strings.NewReader(`{"title":"  "}`), p.UID, nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("get returns ordered messages", func(t *testing.T) {
		handler, db := setupConversationHandler(t, testutil.NewMockCompleter(""), testutil.NewMockFinanceClient(), 0)
		p := testutil.CreateProfile(t, db)
		c := testutil.NewConversation(p.UID).
			WithMessage(model.RoleUser, "price of AAPL?").
			WithMessage(model.RoleAssistant, "AAPL is at 190").
			Build(t, db)

		w := httptest.NewRecorder()
		handler.GetConversation(w, testutil.NewAuthedRequest(http.MethodGet, "/api/conversation/"+c.ID, nil, p.UID,
			map[string]string{"uuid": c.ID}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got model.Conversation
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&got)

		if len(got.Messages) != 2 || got.Messages[0].Role != model.RoleUser {
			t.Errorf("Expected user message first, got %+v", got.Messages)
		}
	})

	t.Run("get returns 404 for another user's conversation", func(t *testing.T) {
		handler, db := setupConversationHandler(t, testutil.NewMockCompleter(""), testutil.NewMockFinanceClient(), 0)
		owner := testutil.CreateProfile(t, db)
		p := testutil.CreateProfile(t, db)
		c := testutil.NewConversation(owner.UID).Build(t, db)

		w := httptest.NewRecorder()
		handler.GetConversation(w, testutil.NewAuthedRequest(http.MethodGet, "/api/conversation/"+c.ID, nil, p.UID,
			map[string]string{"uuid": c.ID}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("delete returns 204 then 404", func(t *testing.T) {
		handler, db := setupConversationHandler(t, testutil.NewMockCompleter(""), testutil.NewMockFinanceClient(), 0)
		p := testutil.CreateProfile(t, db)
		c := testutil.NewConversation(p.UID).WithMessage(model.RoleUser, "hi").Build(t, db)
		params := map[string]string{"uuid": c.ID}

		w := httptest.NewRecorder()
		handler.DeleteConversation(w, testutil.NewAuthedRequest(http.MethodDelete, "/api/conversation/"+c.ID, nil, p.UID, params))
		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
		if n := testutil.CountRows(t, db, "chat_message"); n != 0 {
			t.Errorf("Expected messages to be deleted, got %d", n)
		}

		w = httptest.NewRecorder()
		handler.DeleteConversation(w, testutil.NewAuthedRequest(http.MethodDelete, "/api/conversation/"+c.ID, nil, p.UID, params))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestConversationHandler_Chat(t *testing.T) {
	t.Run("answers a price question in a new conversation", func(t *testing.T) {
		finance := testutil.NewMockFinanceClient().WithQuote("AAPL", 190)
		handler, db := setupConversationHandler(t, testutil.NewMockCompleter("price AAPL"), finance, 0)
		p := testutil.CreateProfile(t, db)

		w := httptest.NewRecorder()
		handler.Chat(w, testutil.NewAuthedRequest(http.MethodPost, "/api/chat",
			strings.NewReader(`{"question":"What is Apple trading at?"}`), p.UID, nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var reply model.ChatReply
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&reply)

		if reply.ConversationID == "" {
			t.Error("Expected a new conversation id")
		}
		if reply.Intent.Function != "price" || reply.Intent.Ticker != "AAPL" {
			t.Errorf("Expected price/AAPL intent, got %+v", reply.Intent)
		}
		if reply.Answer.Ticker != "AAPL" {
			t.Errorf("Expected answer about AAPL, got %+v", reply.Answer)
		}
	})

	t.Run("returns 403 once the free limit is used", func(t *testing.T) {
		handler, db := setupConversationHandler(t, testutil.NewMockCompleter("price AAPL"), testutil.NewMockFinanceClient(), 3)
		p := testutil.NewProfile().WithQuestionCount(3).Build(t, db)

		w := httptest.NewRecorder()
		handler.Chat(w, testutil.NewAuthedRequest(http.MethodPost, "/api/chat",
			strings.NewReader(`{"question":"AAPL?"}`), p.UID, nil))

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 502 when the assistant fails", func(t *testing.T) {
		completer := testutil.NewMockCompleter("")
		completer.Err = errLLMDown
		handler, db := setupConversationHandler(t, completer, testutil.NewMockFinanceClient(), 0)
		p := testutil.CreateProfile(t, db)

		w := httptest.NewRecorder()
		handler.Chat(w, testutil.NewAuthedRequest(http.MethodPost, "/api/chat",
			strings.NewReader(`{"question":"AAPL?"}`), p.UID, nil))

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for a malformed conversation id", func(t *testing.T) {
		handler, db := setupConversationHandler(t, testutil.NewMockCompleter("price AAPL"), testutil.NewMockFinanceClient(), 0)
		p := testutil.CreateProfile(t, db)

		w := httptest.NewRecorder()
		handler.Chat(w, testutil.NewAuthedRequest(http.MethodPost, "/api/chat",
			strings.NewReader(`{"question":"AAPL?","conversationId":"nope"}`), p.UID, nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
