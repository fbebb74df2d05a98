package providers

import (
	"context"
	"fmt"
	"time"
)

// Provider represents an upstream chat-completion API
type Provider interface {
	// Name returns the provider name (e.g., "openai")
	Name() string

	// ChatCompletion performs a single chat completion request
	ChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	// Model identifier (e.g., "gpt-3.5-turbo")
	Model string `json:"model"`

	// Messages in the conversation
	Messages []Message `json:"messages"`

	// MaxTokens limits the response length
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0); always sent, 0 included
	Temperature float64 `json:"temperature"`

	// RequestID is forwarded upstream for correlation
	RequestID string `json:"-"`
}

// Message represents a single message in a conversation
type Message struct {
	// Role can be "system", "user", or "assistant"
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// ChatResponse represents a chat completion response
type ChatResponse struct {
	ID       string        `json:"id"`
	Model    string        `json:"model"`
	Choices  []Choice      `json:"choices"`
	Usage    Usage         `json:"usage"`
	Provider string        `json:"provider"`
	Latency  time.Duration `json:"latency"`
}

// Content returns the message content of the first choice.
func (r *ChatResponse) Content() (string, bool) {
	if r == nil || len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Message.Content, true
}

// Choice represents a completion choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderConfig holds configuration for a provider
type ProviderConfig struct {
	// APIKey for authentication
	APIKey string

	// Endpoint is the full chat-completion URL
	Endpoint string

	// Timeout bounds the whole upstream exchange
	Timeout time.Duration
}

// Error codes carried by ProviderError
const (
	CodeTimeout       = "TIMEOUT"
	CodeHTTPError     = "HTTP_ERROR"
	CodeUpstreamError = "UPSTREAM_ERROR"
	CodeEmptyResponse = "EMPTY_RESPONSE"
	CodeInvalidBody   = "INVALID_RESPONSE"
	CodeRequestError  = "REQUEST_ERROR"
)

// ProviderError represents an error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the upstream HTTP status code (0 when no response arrived)
	StatusCode int

	// Body is the upstream response body, verbatim
	Body string

	// Timeout is set when the upstream did not answer in time
	Timeout bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}
