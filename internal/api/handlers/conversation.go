package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
	"github.com/ndewijer/Stock-Research-Backend/internal/validation"
)

// ConversationHandler handles HTTP requests for conversations and the chat assistant.
type ConversationHandler struct {
	conversationService *service.ConversationService
	chatService         *service.ChatService
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(conversationService *service.ConversationService, chatService *service.ChatService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		chatService:         chatService,
	}
}

// ListConversations returns the signed-in user's conversations without messages, newest first.
//
// Endpoint: GET /api/conversation
// Response: 200 OK with array of model.Conversation
// Error: 500 Internal Server Error if retrieval fails
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	conversations, err := h.conversationService.ListConversations(r.Context(), uid)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveConversations.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, conversations)
}

// CreateConversation starts an empty conversation.
//
// Endpoint: POST /api/conversation
// Request Body: CreateConversationRequest (title)
// Response: 201 Created with model.Conversation
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateConversationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateConversation(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	conversation, err := h.conversationService.CreateConversation(r.Context(), uid, req.Title)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateConversation.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, conversation)
}

// GetConversation returns one conversation with its messages in order.
//
// Endpoint: GET /api/conversation/{uuid}
// Response: 200 OK with model.Conversation
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the conversation does not exist or belongs to another user
// Error: 500 Internal Server Error if retrieval fails
func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	conversation, err := h.conversationService.GetConversation(r.Context(), uid, chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveConversation.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, conversation)
}

// DeleteConversation removes a conversation and its messages.
//
// Endpoint: DELETE /api/conversation/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the conversation does not exist or belongs to another user
// Error: 500 Internal Server Error if deletion fails
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	if err := h.conversationService.DeleteConversation(r.Context(), uid, chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeleteConversation.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Chat asks the assistant a question. Without a conversationId a new conversation is
// started and titled after the question.
//
// Endpoint: POST /api/chat
// Request Body: ChatRequest (question, optional conversationId)
// Response: 200 OK with model.ChatReply
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 403 Forbidden if a free-tier user used up their questions
// Error: 404 Not Found if the conversation does not exist
// Error: 502 Bad Gateway if the assistant or market data call fails
func (h *ConversationHandler) Chat(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.ChatRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateChat(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	reply, err := h.chatService.Ask(r.Context(), uid, req)
	if err != nil {
		respondServiceError(w, err, "failed to answer question")
		return
	}

	response.RespondJSON(w, http.StatusOK, reply)
}
