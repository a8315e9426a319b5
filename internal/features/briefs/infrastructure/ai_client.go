package infrastructure

import (
	"context"
)

// Message represents a message in a chat completion request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// CompletionOptions tunes a single completion call
type CompletionOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
	// JSONMode asks the provider to return a single JSON object.
	JSONMode bool
}

// AIResponse represents the response from an AI service
type AIResponse struct {
	Content          string `json:"content"`
	Model            string `json:"model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// AIClient defines a generic interface for chat-completion services
type AIClient interface {
	// Complete sends the conversation and returns the first choice
	Complete(ctx context.Context, messages []Message, opts CompletionOptions) (*AIResponse, error)

	// Close closes the client and cleans up resources
	Close() error
}

// AIConfig holds configuration for AI clients
type AIConfig struct {
	Provider string `json:"provider"` // "groq", "openai"
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url,omitempty"`
	Model    string `json:"model"`
}
