package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ndewijer/Stock-Research-Backend/internal/config"
)

const anthropicMaxTokens = 1024

// Anthropic calls the Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates the provider from configuration.
func NewAnthropic(cfg config.LLMConfig) *Anthropic {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (a *Anthropic) Name() string { return ProviderAnthropic }

// Complete sends one user message. The Messages API has no JSON mode; JSON requests
// rely on the prompt and on the tolerant parser downstream.
func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: req.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("anthropic returned no text")
	}

	return strings.TrimSpace(b.String()), nil
}
