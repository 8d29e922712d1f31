package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
)

// Backend is a completion provider for the AI interpretation path.
type Backend interface {
	// Complete sends the prompt and returns the completion text.
	Complete(ctx context.Context, system, user string) (string, error)
}

// chatRequest is the OpenAI-compatible chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// openAIBackend talks to any OpenAI-compatible chat completion endpoint.
type openAIBackend struct {
	cfg    config.InterpreterConfig
	client *http.Client
}

// NewOpenAIBackend builds the completion backend from config. The returned
// backend enforces the configured request timeout on every call.
func NewOpenAIBackend(cfg config.InterpreterConfig) Backend {
	return &openAIBackend{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (b *openAIBackend) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: b.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   b.cfg.MaxTokens,
		Temperature: b.cfg.Temperature,
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "encode completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeLLMUnavailable, "completion request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeLLMUnavailable, "read completion response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.New(apperrors.CodeLLMUnavailable, "completion service error").
			WithDetail(fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(data), 200)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeLLMUnavailable, "decode completion response")
	}
	if parsed.Error != nil {
		return "", apperrors.New(apperrors.CodeLLMUnavailable, "completion service error").
			WithDetail(parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", apperrors.New(apperrors.CodeLLMUnavailable, "completion response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
