package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
	"github.com/ndewijer/Stock-Research-Backend/internal/validation"
)

// Frame types exchanged over the chat socket.
const (
	FrameNewConversation     = "new_conversation"
	FrameMessage             = "message"
	FrameConversationStarted = "conversation_started"
	FrameAnswer              = "answer"
	FrameError               = "error"
)

// ClientFrame is a message sent by the browser.
type ClientFrame struct {
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	// ConversationID selects an existing conversation for a message frame.
	ConversationID string `json:"conversationId,omitempty"`
	Content        string `json:"content,omitempty"`
}

// ServerFrame is a message sent to the browser.
type ServerFrame struct {
	Type           string           `json:"type"`
	ConversationID string           `json:"conversationId,omitempty"`
	Reply          *model.ChatReply `json:"reply,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// ChatSocketHandler serves the chat assistant over a WebSocket.
type ChatSocketHandler struct {
	conversationService *service.ConversationService
	chatService         *service.ChatService
	upgrader            websocket.Upgrader
	logger              *zap.Logger
}

// NewChatSocketHandler creates a ChatSocketHandler that accepts upgrades from allowedOrigins.
// An empty list accepts any origin.
func NewChatSocketHandler(
	conversationService *service.ConversationService,
	chatService *service.ChatService,
	allowedOrigins []string,
	logger *zap.Logger,
) *ChatSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &ChatSocketHandler{
		conversationService: conversationService,
		chatService:         chatService,
		logger:              logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
	}
}

// Serve upgrades the connection and runs the chat loop until the client goes away.
// A new_conversation frame starts a conversation that later message frames use;
// a message frame may also name a conversationId or start one implicitly.
//
// Endpoint: GET /api/ws/chat?token=...
func (h *ChatSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	current := ""

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read failed", zap.String("uid", uid), zap.Error(err))
			}
			return
		}

		var frame ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.send(conn, ServerFrame{Type: FrameError, Error: "invalid message format"})
			continue
		}

		switch frame.Type {
		case FrameNewConversation:
			if id, ok := h.newConversation(ctx, conn, uid, frame.Title); ok {
				current = id
			}
		case FrameMessage:
			if frame.ConversationID != "" {
				current = frame.ConversationID
			}
			if id, ok := h.message(ctx, conn, uid, current, frame.Content); ok {
				current = id
			}
		default:
			h.send(conn, ServerFrame{Type: FrameError, Error: "unknown message type: " + frame.Type})
		}
	}
}

func (h *ChatSocketHandler) newConversation(ctx context.Context, conn *websocket.Conn, uid, title string) (string, bool) {
	req := request.CreateConversationRequest{Title: title}
	if req.Title == "" {
		req.Title = "New conversation"
	}
	if err := validation.ValidateCreateConversation(req); err != nil {
		h.sendErr(conn, err, "validation failed")
		return "", false
	}

	conversation, err := h.conversationService.CreateConversation(ctx, uid, req.Title)
	if err != nil {
		h.sendErr(conn, err, "failed to create conversation")
		return "", false
	}

	h.send(conn, ServerFrame{Type: FrameConversationStarted, ConversationID: conversation.ID})
	return conversation.ID, true
}

func (h *ChatSocketHandler) message(ctx context.Context, conn *websocket.Conn, uid, conversationID, content string) (string, bool) {
	req := request.ChatRequest{ConversationID: conversationID, Question: content}
	if err := validation.ValidateChat(req); err != nil {
		h.sendErr(conn, err, "validation failed")
		return "", false
	}

	reply, err := h.chatService.Ask(ctx, uid, req)
	if err != nil {
		h.sendErr(conn, err, "failed to answer question")
		return "", false
	}

	h.send(conn, ServerFrame{Type: FrameAnswer, ConversationID: reply.ConversationID, Reply: &reply})
	return reply.ConversationID, true
}

func (h *ChatSocketHandler) sendErr(conn *websocket.Conn, err error, fallback string) {
	_, msg := errorStatus(err, fallback)
	var verr *validation.Error
	if errors.As(err, &verr) {
		msg = verr.Error()
	}
	h.send(conn, ServerFrame{Type: FrameError, Error: msg})
}

func (h *ChatSocketHandler) send(conn *websocket.Conn, frame ServerFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		h.logger.Warn("WebSocket write failed", zap.Error(err))
	}
}
