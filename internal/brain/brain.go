package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Message is one role-tagged turn of conversation history.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Request is the normalized chat completion request. MaxTokens is a hard
// output ceiling; handlers use a short one to structurally enforce
// one-sentence replies.
type Request struct {
	System    string
	Messages  []Message
	MaxTokens int64
}

// Adapter is the chat completion capability behind every conversational
// feature: answers, search-need classification, translation, calendar
// summaries.
type Adapter interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config controls adapter construction.
type Config struct {
	Mode   string // auto|openai|mock
	APIKey string
	Model  string
}

func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewOpenAIAdapter(cfg.APIKey, cfg.Model), nil
		}
		return NewMockAdapter(), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("chat API key is required for openai mode")
		}
		return NewOpenAIAdapter(cfg.APIKey, cfg.Model), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported brain adapter mode %q", cfg.Mode)
	}
}
