// Package llm wraps the chat-completion providers behind one Completer interface.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/config"
	"github.com/ndewijer/Stock-Research-Backend/internal/metrics"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Request is a single-turn completion: one system instruction and one user prompt.
type Request struct {
	Purpose string // metrics label, e.g. "intent" or "risk"
	System  string
	Prompt  string
	JSON    bool // ask the provider for a JSON object where it supports it
}

// Completer returns the model's text reply for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// New builds the provider selected in configuration, wrapped with logging and metrics.
func New(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger, m *metrics.Metrics) (Completer, error) {
	var (
		c   Completer
		err error
	)

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		c = NewOpenAI(cfg)
	case ProviderAnthropic:
		c = NewAnthropic(cfg)
	case ProviderGemini:
		c, err = NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(c, logger, m), nil
}

type instrumented struct {
	next    Completer
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Instrument records every call and wraps failures in apperrors.ErrLLMRequest.
func Instrument(c Completer, logger *zap.Logger, m *metrics.Metrics) Completer {
	return &instrumented{next: c, logger: logger, metrics: m}
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := i.next.Complete(ctx, req)
	elapsed := time.Since(start)
	i.metrics.ObserveLLMCall(i.next.Name(), req.Purpose, elapsed, err)

	if err != nil {
		i.logger.Warn("LLM call failed",
			zap.String("provider", i.next.Name()),
			zap.String("purpose", req.Purpose),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %w", apperrors.ErrLLMRequest, err)
	}

	i.logger.Debug("LLM call completed",
		zap.String("provider", i.next.Name()),
		zap.String("purpose", req.Purpose),
		zap.Duration("elapsed", elapsed),
	)
	return out, nil
}
