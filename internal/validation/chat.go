package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
)

const (
	maxTitleLength    = 200
	maxQuestionLength = 1000
	maxWatchlistSize  = 50
)

func ValidateCreateConversation(req request.CreateConversationRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Title) == "" {
		errors["title"] = "title is required"
	} else if len(req.Title) > maxTitleLength {
		errors["title"] = fmt.Sprintf("title must be %d characters or less", maxTitleLength)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateChat validates a chat question. The conversation id is optional.
func ValidateChat(req request.ChatRequest) error {
	errors := make(map[string]string)

	if req.ConversationID != "" {
		if err := ValidateUUID(req.ConversationID); err != nil {
			errors["conversationId"] = err.Error()
		}
	}

	if strings.TrimSpace(req.Question) == "" {
		errors["question"] = "question is required"
	} else if len(req.Question) > maxQuestionLength {
		errors["question"] = fmt.Sprintf("question must be %d characters or less", maxQuestionLength)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateRefreshWatchlist validates the client-owned watchlist and upper-cases its symbols in place.
func ValidateRefreshWatchlist(req *request.RefreshWatchlistRequest) error {
	errors := make(map[string]string)

	if len(req.Entries) == 0 {
		errors["entries"] = "entries must not be empty"
	} else if len(req.Entries) > maxWatchlistSize {
		errors["entries"] = fmt.Sprintf("at most %d entries can be refreshed", maxWatchlistSize)
	}

	for i := range req.Entries {
		symbol, err := NormalizeSymbol(req.Entries[i].Symbol)
		if err != nil {
			errors[fmt.Sprintf("entries[%d].symbol", i)] = err.Error()
			continue
		}
		req.Entries[i].Symbol = symbol

		if a := req.Entries[i].AlertPrice; a != nil && *a <= 0 {
			errors[fmt.Sprintf("entries[%d].alertPrice", i)] = "alertPrice must be positive"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
