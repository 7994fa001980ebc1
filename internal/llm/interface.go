package llm

import (
	"context"
	"errors"
)

// Errors shared by providers. Callers match them with errors.Is.
var (
	// ErrNoAPIKey means the provider cannot be built or was rejected for
	// lack of valid credentials.
	ErrNoAPIKey = errors.New("llm: API key required")
	// ErrRateLimited means the service refused the call for quota reasons.
	ErrRateLimited = errors.New("llm: rate limited")
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider defines the interface for LLM providers
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest holds the request parameters
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
}

// Message represents a chat message
type Message struct {
	Role    string // RoleUser or RoleAssistant
	Content string
}

// ChatResponse holds the response from the LLM
type ChatResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// DefaultMaxTokens is used when a request leaves MaxTokens unset.
const DefaultMaxTokens = 1024

// MaxTokensOr returns n, or DefaultMaxTokens when n is not positive.
func MaxTokensOr(n int) int {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return n
}
