// Package llm talks to the external natural-language model that backs the
// service classifier.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bibbank/loan-decision-service/internal/domain/port"
)

// ErrNoTextContent is returned when the model answered without a text block.
var ErrNoTextContent = errors.New("llm: no text content in response")

// AnthropicConfig configures AnthropicClient.
type AnthropicConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// AnthropicClient implements port.CompletionClient with the Messages API.
// The SDK's own retries are turned off: one request per classification, and
// the caller's context bounds it.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *slog.Logger
}

var _ port.CompletionClient = (*AnthropicClient)(nil)

// NewAnthropicClient creates a client for cfg.Model.
func NewAnthropicClient(cfg AnthropicConfig, logger *slog.Logger) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(maxTokens),
		logger:    logger,
	}
}

// Complete sends one system+user exchange and returns the first text block.
func (c *AnthropicClient) Complete(ctx context.Context, req port.CompletionRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm: anthropic messages: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			c.logger.DebugContext(ctx, "llm response received",
				"model", c.model,
				"size", len(block.Text),
				"tokens_in", message.Usage.InputTokens,
				"tokens_out", message.Usage.OutputTokens,
			)
			return block.Text, nil
		}
	}
	return "", ErrNoTextContent
}
