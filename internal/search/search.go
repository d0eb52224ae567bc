package search

import (
	"context"
	"strings"
)

// Result is one snippet returned by the web search capability.
type Result struct {
	Content string `json:"content"`
}

// Provider is the web search capability.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

const (
	defaultMaxResults = 2
	maxSnippetRunes   = 200
	maxContextRunes   = 400
)

// Augmenter turns a search query into a short context block for the chat
// request. Search is a best-effort enhancement: every failure path returns
// the empty string and the conversation proceeds without context.
type Augmenter struct {
	provider   Provider
	maxResults int
}

func NewAugmenter(provider Provider) *Augmenter {
	return &Augmenter{provider: provider, maxResults: defaultMaxResults}
}

// Context fetches and concatenates capped snippets for query. It never
// returns an error; callers cannot distinguish "no results" from "search
// down", and are not meant to.
func (a *Augmenter) Context(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if a == nil || a.provider == nil || query == "" {
		return ""
	}

	results, err := a.provider.Search(ctx, query, a.maxResults)
	if err != nil || len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		s := strings.TrimSpace(r.Content)
		if s == "" {
			continue
		}
		parts = append(parts, truncateRunes(s, maxSnippetRunes))
	}
	return truncateRunes(strings.Join(parts, " "), maxContextRunes)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
