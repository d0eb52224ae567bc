package brain

import (
	"context"
	"fmt"
	"strings"
)

// MockAdapter provides deterministic local replies when no chat API key is
// configured, so the session loop stays usable offline.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) Complete(ctx context.Context, req Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	last := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role != "assistant" {
			last = strings.TrimSpace(req.Messages[i].Text)
			break
		}
	}
	if last == "" {
		return "I am listening.", nil
	}

	// Classifier prompts expect a SEARCH:/NO verdict; everything else gets
	// a one-sentence echo.
	if strings.Contains(last, "SEARCH:") || strings.Contains(last, "'NO'") {
		return "NO", nil
	}
	return fmt.Sprintf("I heard you: %s", last), nil
}
