package request

import "github.com/ndewijer/Stock-Research-Backend/internal/model"

type CreateConversationRequest struct {
	Title string `json:"title"`
}

// ChatRequest asks one question. Without a conversation id a new conversation is
// started and titled after the question.
type ChatRequest struct {
	ConversationID string `json:"conversationId,omitempty"`
	Question       string `json:"question"`
}

type RefreshWatchlistRequest struct {
	Entries []model.WatchlistEntry `json:"entries"`
}
