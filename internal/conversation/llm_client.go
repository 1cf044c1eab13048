// Package conversation connects the dialogue core to hosted language models
// and mirrors transcripts to Redis.
package conversation

import (
	"context"
	"errors"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

var (
	// ErrRateLimited marks provider throttling; callers may retry.
	ErrRateLimited = errors.New("conversation: llm rate limited")
	// ErrMalformedResponse marks a reply with no usable text.
	ErrMalformedResponse = errors.New("conversation: llm response malformed")
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
	TopK        int32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
