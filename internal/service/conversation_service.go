package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
)

// ConversationService handles the chat conversations of a user.
// Messages are appended by ChatService.
type ConversationService struct {
	conversationRepo *repository.ConversationRepository
}

// NewConversationService creates a new ConversationService.
func NewConversationService(conversationRepo *repository.ConversationRepository) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
	}
}

// CreateConversation starts an empty conversation.
func (s *ConversationService) CreateConversation(ctx context.Context, uid, title string) (model.Conversation, error) {
	c := model.Conversation{
		ID:        uuid.New().String(),
		UID:       uid,
		Title:     strings.TrimSpace(title),
		Messages:  []model.ChatMessage{},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.conversationRepo.InsertConversation(ctx, c); err != nil {
		return model.Conversation{}, err
	}

	return c, nil
}

// ListConversations returns the user's conversations newest first, without messages.
func (s *ConversationService) ListConversations(ctx context.Context, uid string) ([]model.Conversation, error) {
	return s.conversationRepo.ListConversations(ctx, uid)
}

// GetConversation returns one conversation with its messages in order.
// A conversation of another user is reported as apperrors.ErrConversationNotFound.
func (s *ConversationService) GetConversation(ctx context.Context, uid, id string) (model.Conversation, error) {
	return s.conversationRepo.GetConversation(ctx, uid, id)
}

// DeleteConversation removes a conversation and its messages.
func (s *ConversationService) DeleteConversation(ctx context.Context, uid, id string) error {
	return s.conversationRepo.DeleteConversation(ctx, uid, id)
}
