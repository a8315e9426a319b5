package infrastructure

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"specforge/internal/features/briefs/domain"
)

// openAIClient talks to any OpenAI-compatible chat completions endpoint.
// Groq is reached the same way by pointing BaseURL at its /openai/v1 root.
type openAIClient struct {
	client       *openai.Client
	provider     string
	defaultModel string
}

// NewOpenAIClient creates a chat-completion client from cfg.
func NewOpenAIClient(cfg AIConfig, timeout time.Duration) (AIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key for provider %q not set", cfg.Provider)
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &openAIClient{
		client:       openai.NewClientWithConfig(clientCfg),
		provider:     cfg.Provider,
		defaultModel: cfg.Model,
	}, nil
}

// Complete sends messages and returns the first choice's content.
func (c *openAIClient) Complete(ctx context.Context, messages []Message, opts CompletionOptions) (*AIResponse, error) {
	model := opts.Model
	if model == "" {
		model = c.defaultModel
	}
	if model == "" {
		return nil, fmt.Errorf("no model configured for provider %q", c.provider)
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("[%s] CreateChatCompletion error: %+v", c.provider, err)
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, domain.ErrEmptyCompletion
	}

	return &AIResponse{
		Content:          resp.Choices[0].Message.Content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (c *openAIClient) Close() error { return nil }
