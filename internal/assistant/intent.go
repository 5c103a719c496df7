// Package assistant holds the prompts sent to the language model and the parsers
// for its answers.
package assistant

import (
	"strings"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// IntentSystemPrompt asks the model to classify a question into two tokens.
const IntentSystemPrompt = `You are a stock research assistant that classifies user questions.
Reply with exactly two words separated by a single space and nothing else:
the first word is one of: price, news, chart, overview
the second word is the stock ticker symbol the question is about.
Use "price" for current price or quote questions, "news" for headlines or recent events,
"chart" for price history or performance over time, and "overview" for general questions about a company.
If the question is not about a specific stock or you are not sure, reply with: unknown UNKNOWN`

// ParseIntent turns the model's reply into an Intent.
// A reply that is not exactly two whitespace-separated tokens is unknown.
// The ticker is not checked against any symbol list.
func ParseIntent(s string) model.Intent {
	tokens := strings.Fields(s)
	if len(tokens) != 2 {
		return UnknownIntent()
	}
	return model.Intent{
		Function: strings.ToLower(tokens[0]),
		Ticker:   strings.ToUpper(tokens[1]),
	}
}

// UnknownIntent is the fallback classification.
func UnknownIntent() model.Intent {
	return model.Intent{Function: model.IntentUnknown, Ticker: model.TickerUnknown}
}

// HelpText is the answer given when a question cannot be classified.
const HelpText = `I couldn't tell which stock you're asking about. Try questions like ` +
	`"What's the price of AAPL?", "Any news on TSLA?", "Show me MSFT's chart" or "Tell me about NVDA".`

// Answer returns the assistant text for a classified intent.
func Answer(intent model.Intent, name string) string {
	if name == "" {
		name = intent.Ticker
	}
	switch intent.Function {
	case model.IntentPrice:
		return "Here is the latest quote for " + name + "."
	case model.IntentNews:
		return "Here are the latest headlines for " + name + "."
	case model.IntentChart:
		return "Here is the one-month price chart for " + name + "."
	case model.IntentOverview:
		return "Here is an overview of " + name + " with its latest quote and headlines."
	}
	return HelpText
}

// NotFoundText is the answer given when the finance API has no data for the ticker.
func NotFoundText(ticker string) string {
	return "I couldn't find any market data for " + ticker + ". Please check the ticker symbol."
}

// FailureText is stored as the answer when the question could not be answered
// because the model or the finance API failed.
const FailureText = "Sorry, I couldn't answer that right now. Please try again in a moment."

// Known reports whether the intent names a panel the chat flow can build.
func Known(intent model.Intent) bool {
	if intent.IsUnknown() {
		return false
	}
	switch intent.Function {
	case model.IntentPrice, model.IntentNews, model.IntentChart, model.IntentOverview:
		return true
	}
	return false
}

// TitleFrom derives a conversation title from the first question.
func TitleFrom(question string) string {
	const maxTitle = 60
	title := strings.Join(strings.Fields(question), " ")
	if r := []rune(title); len(r) > maxTitle {
		title = strings.TrimSpace(string(r[:maxTitle-3])) + "..."
	}
	return title
}
