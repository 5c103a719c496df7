package model

import (
	"encoding/json"
	"time"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is a titled, ordered list of chat messages owned by one user.
type Conversation struct {
	ID        string        `json:"id"`
	UID       string        `json:"uid"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ChatMessage is one turn of a conversation. Data carries the structured panel
// rendered next to an assistant answer.
type ChatMessage struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Text      string          `json:"text"`
	Timestamp time.Time       `json:"timestamp"`
	Ticker    string          `json:"ticker,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Intent is the two-token classification returned by the model for a chat question.
type Intent struct {
	Function string `json:"function"`
	Ticker   string `json:"ticker"`
}

// Intent keywords understood by the chat flow.
const (
	IntentPrice    = "price"
	IntentNews     = "news"
	IntentChart    = "chart"
	IntentOverview = "overview"
	IntentUnknown  = "unknown"
	TickerUnknown  = "UNKNOWN"
)

// IsUnknown reports whether the model could not classify the question.
func (i Intent) IsUnknown() bool {
	return i.Function == IntentUnknown || i.Ticker == TickerUnknown
}

// ChatReply is returned by the chat endpoint: both stored messages plus the intent.
type ChatReply struct {
	ConversationID string      `json:"conversationId"`
	Intent         Intent      `json:"intent"`
	Question       ChatMessage `json:"question"`
	Answer         ChatMessage `json:"answer"`
}

// ChatPanel is the structured data shown next to an assistant answer.
// Which fields are set depends on the intent.
type ChatPanel struct {
	Quote *Quote     `json:"quote,omitempty"`
	News  []NewsItem `json:"news,omitempty"`
	Chart *Chart     `json:"chart,omitempty"`
}

// Risk levels the model may assign.
const (
	RiskConservative = "Conservative"
	RiskModerate     = "Moderate"
	RiskAggressive   = "Aggressive"
)

// RiskAnalysis is the model-generated risk tolerance summary of a trade sample.
type RiskAnalysis struct {
	RiskScore   float64   `json:"riskScore"`
	RiskLevel   string    `json:"riskLevel"`
	Explanation string    `json:"explanation"`
	AnalyzedAt  time.Time `json:"analyzedAt"`
}
