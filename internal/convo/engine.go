package convo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/gunhee-dev/orion/internal/brain"
	"github.com/gunhee-dev/orion/internal/search"
)

// Weather/news style questions are stale without fresh context, so they
// always trigger search instead of asking the model whether to.
var forcedSearchKeywords = []string{
	"날씨", "뉴스", "최근", "현재", "지금", "실시간",
	"weather", "news",
}

const (
	classifierMaxTokens = 100
	queryMaxTokens      = 50
	answerMaxTokens     = 300
)

// Engine produces one-sentence persona replies from the rolling window,
// optionally augmented with fresh search context.
type Engine struct {
	adapter brain.Adapter
	search  *search.Augmenter
	window  *Window
	persona Persona
	now     func() time.Time
}

func NewEngine(adapter brain.Adapter, augmenter *search.Augmenter, window *Window, persona Persona) *Engine {
	return &Engine{
		adapter: adapter,
		search:  augmenter,
		window:  window,
		persona: persona,
		now:     time.Now,
	}
}

func (e *Engine) Window() *Window { return e.window }

// Respond runs one chat turn and reports whether the turn committed to
// the window. Any capability failure mid-turn yields the persona's
// apology sentence uncommitted, so a failed turn never pollutes later
// context.
func (e *Engine) Respond(ctx context.Context, userText string) (string, bool) {
	// Phonetic-keyboard transcription can emit decomposed Hangul jamo;
	// compose it before any keyword matching.
	userText = norm.NFC.String(strings.TrimSpace(userText))
	if userText == "" {
		return e.persona.Apology(), false
	}

	searchContext := e.gatherContext(ctx, userText)

	messages := make([]brain.Message, 0, MaxTurns+1)
	for _, t := range e.window.Snapshot() {
		messages = append(messages, brain.Message{Role: t.Role, Text: t.Text})
	}

	stamp := e.now().Format("2006년 01월 02일 Monday 15시 04분")
	current := fmt.Sprintf("[현재 시각: %s]\n%s", stamp, userText)
	if searchContext != "" {
		current += "\n\n[실시간 정보]: " + searchContext
	}
	messages = append(messages, brain.Message{Role: "user", Text: current})

	answer, err := e.adapter.Complete(ctx, brain.Request{
		System:    e.persona.SystemPrompt(),
		Messages:  messages,
		MaxTokens: answerMaxTokens,
	})
	if err != nil {
		log.Printf("convo: chat completion failed: %v", err)
		return e.persona.Apology(), false
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return e.persona.Apology(), false
	}

	e.window.Commit(userText, answer)
	return answer, true
}

// gatherContext decides whether the turn needs web context and fetches it.
// All failures degrade to "no context"; search is never a hard dependency.
func (e *Engine) gatherContext(ctx context.Context, userText string) string {
	if e.search == nil {
		return ""
	}

	lower := strings.ToLower(userText)
	for _, kw := range forcedSearchKeywords {
		if strings.Contains(lower, kw) {
			return e.search.Context(ctx, e.deriveQuery(ctx, userText))
		}
	}

	thought, err := e.adapter.Complete(ctx, brain.Request{
		Messages: []brain.Message{{
			Role: "user",
			Text: fmt.Sprintf("질문: '%s'\n검색 필요시 'SEARCH: [영어검색어]', 불필요시 'NO'만 대답.", userText),
		}},
		MaxTokens: classifierMaxTokens,
	})
	if err != nil {
		log.Printf("convo: search classifier failed: %v", err)
		return ""
	}
	if idx := strings.Index(strings.ToUpper(thought), "SEARCH:"); idx >= 0 {
		query := strings.TrimSpace(thought[idx+len("SEARCH:"):])
		return e.search.Context(ctx, query)
	}
	return ""
}

// deriveQuery asks the model for a single English search query. If that
// fails, the raw user text works well enough as a query.
func (e *Engine) deriveQuery(ctx context.Context, userText string) string {
	query, err := e.adapter.Complete(ctx, brain.Request{
		Messages: []brain.Message{{
			Role: "user",
			Text: fmt.Sprintf("'%s'를 검색하기 위한 영어 검색어 하나만 출력해. 예: 'Seoul weather today'", userText),
		}},
		MaxTokens: queryMaxTokens,
	})
	if err != nil || strings.TrimSpace(query) == "" {
		return userText
	}
	return strings.TrimSpace(query)
}
