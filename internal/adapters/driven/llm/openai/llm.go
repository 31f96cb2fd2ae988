// Package openai provides the generative provider adapter backed by
// the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.LLMService = (*Service)(nil)

// DefaultModel is used when none is configured.
const DefaultModel = "gpt-4o-mini"

// Config holds the provider settings.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string
}

// Service is the OpenAI-backed LLMService.
type Service struct {
	client *openai.Client
	model  string
}

// NewService creates the provider adapter. A missing API key is a
// deployment mistake and surfaces as domain.ErrMissingConfig.
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key", domain.ErrMissingConfig)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Service{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// Complete produces a text completion for the prompt. Cancellation and
// deadlines on ctx are honoured by the underlying client.
func (s *Service) Complete(ctx context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the configured model.
func (s *Service) ModelName() string {
	return s.model
}

// Close releases resources. The HTTP client needs no teardown.
func (s *Service) Close() error {
	return nil
}
