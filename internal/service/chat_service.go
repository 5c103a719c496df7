package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/assistant"
	"github.com/ndewijer/Stock-Research-Backend/internal/llm"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
	"github.com/ndewijer/Stock-Research-Backend/internal/yahoo"
)

// chatChartRange is the range of the chart panel.
const chatChartRange = "1mo"

// ChatService answers stock questions: the model classifies the question and the
// answer panel is built from finance API data.
type ChatService struct {
	conversationRepo    *repository.ConversationRepository
	profileRepo         *repository.ProfileRepository
	counterRepo         *repository.SymbolCounterRepository
	conversationService *ConversationService
	activityService     *ActivityService
	completer           llm.Completer
	financeClient       yahoo.Client
	freeQuestionLimit   int
	logger              *zap.Logger
}

// NewChatService creates a new ChatService. A freeQuestionLimit of 0 disables the cap.
func NewChatService(
	conversationRepo *repository.ConversationRepository,
	profileRepo *repository.ProfileRepository,
	counterRepo *repository.SymbolCounterRepository,
	conversationService *ConversationService,
	activityService *ActivityService,
	completer llm.Completer,
	financeClient yahoo.Client,
	freeQuestionLimit int,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		conversationRepo:    conversationRepo,
		profileRepo:         profileRepo,
		counterRepo:         counterRepo,
		conversationService: conversationService,
		activityService:     activityService,
		completer:           completer,
		financeClient:       financeClient,
		freeQuestionLimit:   freeQuestionLimit,
		logger:              logger,
	}
}

// Ask answers one question and stores both turns in the conversation.
//
// Flow:
//  1. Enforces the free-tier question cap
//  2. Starts a conversation titled after the question when none is given
//  3. Appends the question, then asks the model for "<intent> <TICKER>"
//  4. Builds the panel for the intent (quote, news, one-month chart, or quote and news)
//  5. Appends the answer with ticker and panel data
//  6. Bumps the user's question count, logs the activity and bumps the symbol counter
//
// A ticker the finance API does not know is answered with a not-found message rather
// than an error. Unclassifiable questions are answered with help text. When the model or
// the finance API fails, a failure answer is stored so the question never stays unanswered,
// and the question does not count toward the cap.
//
// Returns:
//   - apperrors.ErrQuestionLimitReached if a free-tier user is over the cap
//   - apperrors.ErrConversationNotFound if the conversation is not the user's
//   - error wrapping apperrors.ErrLLMRequest or apperrors.ErrFinanceAPI on upstream failure
func (s *ChatService) Ask(ctx context.Context, uid string, req request.ChatRequest) (model.ChatReply, error) {
	profile, err := s.profileRepo.GetProfile(ctx, uid)
	if err != nil {
		return model.ChatReply{}, err
	}
	if s.overLimit(profile) {
		return model.ChatReply{}, apperrors.ErrQuestionLimitReached
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		c, err := s.conversationService.CreateConversation(ctx, uid, assistant.TitleFrom(req.Question))
		if err != nil {
			return model.ChatReply{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateConversation, err)
		}
		conversationID = c.ID
	}

	question := model.ChatMessage{
		ID:        uuid.New().String(),
		Role:      model.RoleUser,
		Text:      strings.TrimSpace(req.Question),
		Timestamp: time.Now().UTC(),
	}
	if err := s.conversationRepo.AppendMessage(ctx, uid, conversationID, question); err != nil {
		return model.ChatReply{}, err
	}

	reply, err := s.completer.Complete(ctx, llm.Request{
		Purpose: "intent",
		System:  assistant.IntentSystemPrompt,
		Prompt:  question.Text,
	})
	if err != nil {
		s.appendFailure(ctx, uid, conversationID)
		return model.ChatReply{}, err
	}
	intent := assistant.ParseIntent(reply)

	answer := model.ChatMessage{
		ID:   uuid.New().String(),
		Role: model.RoleAssistant,
		Text: assistant.HelpText,
	}

	found := false
	if assistant.Known(intent) {
		panel, name, err := s.buildPanel(ctx, intent)
		switch {
		case errors.Is(err, apperrors.ErrSymbolNotFound):
			answer.Text = assistant.NotFoundText(intent.Ticker)
		case err != nil:
			s.appendFailure(ctx, uid, conversationID)
			return model.ChatReply{}, err
		default:
			data, err := json.Marshal(panel)
			if err != nil {
				return model.ChatReply{}, fmt.Errorf("failed to encode chat panel: %w", err)
			}
			answer.Text = assistant.Answer(intent, name)
			answer.Data = data
			found = true
		}
		answer.Ticker = intent.Ticker
	}

	answer.Timestamp = time.Now().UTC()
	if err := s.conversationRepo.AppendMessage(ctx, uid, conversationID, answer); err != nil {
		return model.ChatReply{}, err
	}

	if err := s.profileRepo.IncrementQuestionCount(ctx, uid, answer.Timestamp); err != nil {
		s.logger.Warn("Failed to increment question count", zap.String("uid", uid), zap.Error(err))
	}
	s.activityService.Record(ctx, uid, model.ActionChat, intent.Function+" "+intent.Ticker)
	if found {
		if err := s.counterRepo.IncrementCounter(ctx, intent.Ticker, answer.Timestamp); err != nil {
			s.logger.Warn("Failed to increment symbol counter", zap.String("symbol", intent.Ticker), zap.Error(err))
		}
	}

	return model.ChatReply{
		ConversationID: conversationID,
		Intent:         intent,
		Question:       question,
		Answer:         answer,
	}, nil
}

// appendFailure stores the failure answer. It survives a cancelled request context.
func (s *ChatService) appendFailure(ctx context.Context, uid, conversationID string) {
	msg := model.ChatMessage{
		ID:        uuid.New().String(),
		Role:      model.RoleAssistant,
		Text:      assistant.FailureText,
		Timestamp: time.Now().UTC(),
	}
	if err := s.conversationRepo.AppendMessage(context.WithoutCancel(ctx), uid, conversationID, msg); err != nil {
		s.logger.Warn("Failed to store failure answer",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}
}

func (s *ChatService) overLimit(p model.UserProfile) bool {
	return s.freeQuestionLimit > 0 &&
		p.SubscriptionTier == model.TierFree &&
		p.QuestionCount >= s.freeQuestionLimit
}

// buildPanel fetches the finance data for a known intent and returns it with the
// company name to use in the answer.
func (s *ChatService) buildPanel(ctx context.Context, intent model.Intent) (model.ChatPanel, string, error) {
	var panel model.ChatPanel

	switch intent.Function {
	case model.IntentPrice:
		q, err := s.quote(ctx, intent.Ticker)
		if err != nil {
			return panel, "", err
		}
		panel.Quote = &q
		return panel, q.Name, nil

	case model.IntentNews:
		news, err := s.financeClient.News(ctx, intent.Ticker)
		if err != nil {
			return panel, "", err
		}
		panel.News = news
		return panel, "", nil

	case model.IntentChart:
		resp, err := s.financeClient.GetChart(ctx, intent.Ticker, chatChartRange)
		if err != nil {
			return panel, "", err
		}
		parsed, err := s.financeClient.ParseChart(resp)
		if err != nil {
			return panel, "", err
		}
		chart := yahoo.ToChart(parsed)
		panel.Chart = &chart
		return panel, chart.Name, nil
	}

	// overview
	var q model.Quote
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		q, err = s.quote(gctx, intent.Ticker)
		return err
	})
	g.Go(func() error {
		var err error
		panel.News, err = s.financeClient.News(gctx, intent.Ticker)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.ChatPanel{}, "", err
	}
	panel.Quote = &q
	return panel, q.Name, nil
}

func (s *ChatService) quote(ctx context.Context, ticker string) (model.Quote, error) {
	raw, err := s.financeClient.GetQuotes(ctx, []string{ticker})
	if err != nil {
		return model.Quote{}, err
	}
	for _, q := range raw {
		if strings.EqualFold(q.Symbol, ticker) {
			return yahoo.ToQuote(q), nil
		}
	}
	return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, ticker)
}
