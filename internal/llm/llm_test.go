package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/config"
)

func setupOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenAI(config.LLMConfig{
		Provider: ProviderOpenAI,
		Model:    "gpt-test",
		APIKey:   "sk-test",
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
	})
}

func TestOpenAIComplete(t *testing.T) {
	t.Run("sends system and user messages", func(t *testing.T) {
		o := setupOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var body chatRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "gpt-test", body.Model)
			assert.Len(t, body.Messages, 2)
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.Nil(t, body.ResponseFormat)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" price AAPL \n"}}]}`))
		})

		out, err := o.Complete(context.Background(), Request{System: "sys", Prompt: "what is apple at"})
		require.NoError(t, err)
		assert.Equal(t, "price AAPL", out)
	})

	t.Run("requests JSON mode", func(t *testing.T) {
		o := setupOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			var body chatRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if assert.NotNil(t, body.ResponseFormat) {
				assert.Equal(t, "json_object", body.ResponseFormat.Type)
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
		})

		_, err := o.Complete(context.Background(), Request{JSON: true})
		assert.NoError(t, err)
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		o := setupOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
		})

		_, err := o.Complete(context.Background(), Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad key")
	})

	t.Run("no choices is an error", func(t *testing.T) {
		o := setupOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		_, err := o.Complete(context.Background(), Request{})
		assert.Error(t, err)
	})
}

type failingCompleter struct{}

func (failingCompleter) Name() string { return "fake" }
func (failingCompleter) Complete(context.Context, Request) (string, error) {
	return "", errors.New("upstream down")
}

func TestInstrument(t *testing.T) {
	c := Instrument(failingCompleter{}, zap.NewNop(), nil)

	_, err := c.Complete(context.Background(), Request{Purpose: "intent"})
	assert.ErrorIs(t, err, apperrors.ErrLLMRequest)
	assert.Equal(t, "fake", c.Name())
}

func TestNew(t *testing.T) {
	t.Run("rejects unknown providers", func(t *testing.T) {
		_, err := New(context.Background(), config.LLMConfig{Provider: "hal9000"}, zap.NewNop(), nil)
		assert.Error(t, err)
	})

	t.Run("builds anthropic without network access", func(t *testing.T) {
		c, err := New(context.Background(), config.LLMConfig{Provider: "Anthropic", APIKey: "k", Model: "claude-test"}, zap.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, ProviderAnthropic, c.Name())
	})
}
