package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/assistant"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

// TestChatService_Ask tests the question flow from classification to stored answer.
//
// WHY: The chat flow touches the model, the finance API and four tables. Each intent
// must produce the right panel, and the bookkeeping (messages, question count,
// activity, symbol counters) must only reflect what actually happened.
//
//nolint:gocyclo // Test functions naturally have high complexity due to many test cases
func TestChatService_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("price intent starts a conversation and stores both turns", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.CreateProfile(t, db)
		completer := testutil.NewMockCompleter("price aapl")
		finance := testutil.NewMockFinanceClient().WithQuote("AAPL", 190)
		svc := testutil.NewTestChatService(t, db, completer, finance, 0)

		reply, err := svc.Ask(ctx, p.UID, request.ChatRequest{Question: "What is Apple trading at?"})
		if err != nil {
			t.Fatalf("Ask() returned unexpected error: %v", err)
		}

		if reply.Intent != (model.Intent{Function: "price", Ticker: "AAPL"}) {
			t.Errorf("Expected price/AAPL intent, got %+v", reply.Intent)
		}
		if reply.ConversationID == "" {
			t.Fatal("Expected a new conversation id")
		}
		if reply.Answer.Ticker != "AAPL" {
			t.Errorf("Expected answer ticker AAPL, got %q", reply.Answer.Ticker)
		}

		var panel model.ChatPanel
		if err := json.Unmarshal(reply.Answer.Data, &panel); err != nil {
			t.Fatalf("Failed to decode panel: %v", err)
		}
		if panel.Quote == nil || panel.Quote.Price != 190 {
			t.Errorf("Expected quote panel at 190, got %+v", panel.Quote)
		}

		conv, err := repository.NewConversationRepository(db).GetConversation(ctx, p.UID, reply.ConversationID)
		if err != nil {
			t.Fatalf("GetConversation() returned unexpected error: %v", err)
		}
		if conv.Title != "What is Apple trading at?" {
			t.Errorf("Expected title from question, got %q", conv.Title)
		}
		if len(conv.Messages) != 2 {
			t.Fatalf("Expected 2 stored messages, got %d", len(conv.Messages))
		}

		profile, err := repository.NewProfileRepository(db).GetProfile(ctx, p.UID)
		if err != nil {
			t.Fatalf("GetProfile() returned unexpected error: %v", err)
		}
		if profile.QuestionCount != 1 {
			t.Errorf("Expected question count 1, got %d", profile.QuestionCount)
		}

		top, err := repository.NewSymbolCounterRepository(db).TopSymbols(ctx, 5)
		if err != nil {
			t.Fatalf("TopSymbols() returned unexpected error: %v", err)
		}
		if len(top) != 1 || top[0].Symbol != "AAPL" {
			t.Errorf("Expected AAPL counter, got %+v", top)
		}

		reqs := completer.Requests()
		if len(reqs) != 1 || reqs[0].System != assistant.IntentSystemPrompt || reqs[0].JSON {
			t.Errorf("Expected one plain intent request, got %+v", reqs)
		}
	})

	t.Run("appends to an existing conversation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.CreateProfile(t, db)
		conv := testutil.NewConversation(p.UID).WithMessage(model.RoleUser, "earlier").Build(t, db)
		svc := testutil.NewTestChatService(t, db,
			testutil.NewMockCompleter("news TSLA"),
			testutil.NewMockFinanceClient().WithNews("TSLA", 3), 0)

		reply, err := svc.Ask(ctx, p.UID, request.ChatRequest{ConversationID: conv.ID, Question: "tesla news?"})
		if err != nil {
			t.Fatalf("Ask() returned unexpected error: %v", err)
		}
		if reply.ConversationID != conv.ID {
			t.Errorf("Expected conversation %s, got %s", conv.ID, reply.ConversationID)
		}

		var panel model.ChatPanel
		if err := json.Unmarshal(reply.Answer.Data, &panel); err != nil {
			t.Fatalf("Failed to decode panel: %v", err)
		}
		if len(panel.News) != 3 {
			t.Errorf("Expected 3 headlines, got %d", len(panel.News))
		}

		got, err := repository.NewConversationRepository(db).GetConversation(ctx, p.UID, conv.ID)
		if err != nil {
			t.Fatalf("GetConversation() returned unexpected error: %v", err)
		}
		if len(got.Messages) != 3 || got.Messages[0].Text != "earlier" {
			t.Errorf("Expected new turns after the existing message, got %d messages", len(got.Messages))
		}
	})

	t.Run("chart and overview panels", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.CreateProfile(t, db)
		finance := testutil.NewMockFinanceClient().
			WithChart("MSFT", 20).
			WithQuote("MSFT", 410).
			WithNews("MSFT", 2)
		completer := testutil.NewMockCompleter("chart MSFT")
		svc := testutil.NewTestChatService(t, db, completer, finance, 0)

		reply, err := svc.Ask(ctx, p.UID, request.ChatRequest{Question: "msft chart"})
		if err != nil {
			t.Fatalf("Ask() returned unexpected error: %v", err)
		}
		var chartPanel model.ChatPanel
		if err := json.Unmarshal(reply.Answer.Data, &chartPanel); err != nil {
			t.Fatalf("Failed to decode panel: %v", err)
		}
		if chartPanel.Chart == nil || len(chartPanel.Chart.Points) != 20 {
			t.Errorf("Expected 20-point chart, got %+v", chartPanel.Chart)
		}

		completer.Reply = "overview MSFT"
		reply, err = svc.Ask(ctx, p.UID, request.ChatRequest{ConversationID: reply.ConversationID, Question: "tell me about microsoft"})
		if err != nil {
			t.Fatalf("Ask() returned unexpected error: %v", err)
		}
		var overview model.ChatPanel
		if err := json.Unmarshal(reply.Answer.Data, &overview); err != nil {
			t.Fatalf("Failed to decode panel: %v", err)
		}
		if overview.Quote == nil || len(overview.News) != 2 {
			t.Errorf("Expected quote and news in overview, got %+v", overview)
		}
	})

	t.Run("unclassifiable question gets help text and no counter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.CreateProfile(t, db)
		finance := testutil.NewMockFinanceClient()
		svc := testutil.NewTestChatService(t, db, testutil.NewMockCompleter("I am not sure what you mean"), finance, 0)

		reply, err := svc.Ask(ctx, p.UID, request.ChatRequest{Question: "hello"})
		if err != nil {
			t.Fatalf("Ask() returned unexpected error: %v", err)
		}

		if !reply.Intent.IsUnknown() {
			t.Errorf("Expected unknown intent, got %+v", reply.Intent)
		}
		if reply.Answer.Text != assistant.HelpText {
			t.Errorf("Expected help text, got %q", reply.Answer.Text)
		}
		if reply.Answer.Data != nil || reply.Answer.Ticker != "" {
			t.Errorf("Expected no panel, got ticker %q data %s", reply.Answer.Ticker, reply.Answer.Data)
		}
		if n := testutil.CountRows(t, db, "symbol_counter"); n != 0 {
			t.Errorf("Expected no symbol counters, got %d", n)
		}
		if finance.Calls("GetQuotes") != 0 {
			t.Error("Expected no finance calls for an unknown intent")
		}
	})

	t.Run("unknown ticker is answered, not failed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.CreateProfile(t, db)
		svc := testutil.NewTestChatService(t, db, testutil.NewMockCompleter("price ZZZZ"), testutil.NewMockFinanceClient(), 0)

		reply, err := svc.Ask(ctx, p.UID, request.ChatRequest{Question: "price of zzzz"})
		if err != nil {
			t.Fatalf("Ask() returned unexpected error: %v", err)
		}
		if reply.Answer.Text != assistant.NotFoundText("ZZZZ") {
			t.Errorf("Expected not-found text, got %q", reply.Answer.Text)
		}
		if n := testutil.CountRows(t, db, "symbol_counter"); n != 0 {
			t.Errorf("Expected no symbol counters, got %d", n)
		}
	})

	t.Run("free tier question cap", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		free := testutil.NewProfile().WithQuestionCount(3).Build(t, db)
		pro := testutil.NewProfile().Pro().WithQuestionCount(3).Build(t, db)
		svc := testutil.NewTestChatService(t, db, testutil.NewMockCompleter("unknown UNKNOWN"), testutil.NewMockFinanceClient(), 3)

		if _, err := svc.Ask(ctx, free.UID, request.ChatRequest{Question: "hi"}); !errors.Is(err, apperrors.ErrQuestionLimitReached) {
			t.Errorf("Expected ErrQuestionLimitReached for free user, got %v", err)
		}
		if n := testutil.CountRows(t, db, "conversation"); n != 0 {
			t.Errorf("Expected no conversation for a rejected question, got %d", n)
		}

		if _, err := svc.Ask(ctx, pro.UID, request.ChatRequest{Question: "hi"}); err != nil {
			t.Errorf("Expected pro user to be uncapped, got %v", err)
		}
	})

	t.Run("model failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.CreateProfile(t, db)
		completer := testutil.NewMockCompleter("")
		completer.Err = apperrors.ErrLLMRequest
		svc := testutil.NewTestChatService(t, db, completer, testutil.NewMockFinanceClient(), 0)

		conv := testutil.NewConversation(p.UID).Build(t, db)

		_, err := svc.Ask(ctx, p.UID, request.ChatRequest{ConversationID: conv.ID, Question: "price of aapl"})
		if !errors.Is(err, apperrors.ErrLLMRequest) {
			t.Errorf("Expected ErrLLMRequest, got %v", err)
		}

		stored, err := testutil.NewTestConversationService(t, db).GetConversation(ctx, p.UID, conv.ID)
		if err != nil {
			t.Fatalf("GetConversation() returned unexpected error: %v", err)
		}
		if len(stored.Messages) != 2 {
			t.Fatalf("Expected question and failure answer, got %d messages", len(stored.Messages))
		}
		last := stored.Messages[1]
		if last.Role != model.RoleAssistant || last.Text != assistant.FailureText {
			t.Errorf("Expected assistant failure answer, got %+v", last)
		}

		profile, err := repository.NewProfileRepository(db).GetProfile(ctx, p.UID)
		if err != nil {
			t.Fatalf("GetProfile() returned unexpected error: %v", err)
		}
		if profile.QuestionCount != p.QuestionCount {
			t.Errorf("Expected question count unchanged at %d, got %d", p.QuestionCount, profile.QuestionCount)
		}
	})

	t.Run("finance failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.CreateProfile(t, db)
		finance := testutil.NewMockFinanceClient().WithError(apperrors.ErrFinanceAPI)
		svc := testutil.NewTestChatService(t, db, testutil.NewMockCompleter("price AAPL"), finance, 0)

		conv := testutil.NewConversation(p.UID).Build(t, db)

		_, err := svc.Ask(ctx, p.UID, request.ChatRequest{ConversationID: conv.ID, Question: "price of aapl"})
		if !errors.Is(err, apperrors.ErrFinanceAPI) {
			t.Errorf("Expected ErrFinanceAPI, got %v", err)
		}

		stored, err := testutil.NewTestConversationService(t, db).GetConversation(ctx, p.UID, conv.ID)
		if err != nil {
			t.Fatalf("GetConversation() returned unexpected error: %v", err)
		}
		if n := len(stored.Messages); n != 2 || stored.Messages[n-1].Text != assistant.FailureText {
			t.Errorf("Expected failure answer as last turn, got %+v", stored.Messages)
		}
	})

	t.Run("someone else's conversation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		owner := testutil.CreateProfile(t, db)
		other := testutil.CreateProfile(t, db)
		conv := testutil.NewConversation(owner.UID).Build(t, db)
		svc := testutil.NewTestChatService(t, db, testutil.NewMockCompleter("price AAPL"), testutil.NewMockFinanceClient(), 0)

		_, err := svc.Ask(ctx, other.UID, request.ChatRequest{ConversationID: conv.ID, Question: "hi"})
		if !errors.Is(err, apperrors.ErrConversationNotFound) {
			t.Errorf("Expected ErrConversationNotFound, got %v", err)
		}
	})
}
