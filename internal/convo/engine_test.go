package convo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gunhee-dev/orion/internal/brain"
	"github.com/gunhee-dev/orion/internal/search"
)

// scriptedAdapter answers classifier, query-derivation, and chat prompts
// separately so tests can steer each path.
type scriptedAdapter struct {
	classifierReply string
	queryReply      string
	answerReply     string
	answerErr       error
	lastAnswerReq   brain.Request
	answerCalls     int
}

func (a *scriptedAdapter) Complete(_ context.Context, req brain.Request) (string, error) {
	prompt := ""
	if len(req.Messages) > 0 {
		prompt = req.Messages[len(req.Messages)-1].Text
	}
	switch {
	case strings.Contains(prompt, "검색 필요시"):
		return a.classifierReply, nil
	case strings.Contains(prompt, "영어 검색어 하나만"):
		return a.queryReply, nil
	default:
		a.answerCalls++
		a.lastAnswerReq = req
		if a.answerErr != nil {
			return "", a.answerErr
		}
		return a.answerReply, nil
	}
}

type recordingProvider struct {
	lastQuery string
	calls     int
}

func (p *recordingProvider) Search(_ context.Context, query string, _ int) ([]search.Result, error) {
	p.calls++
	p.lastQuery = query
	return []search.Result{{Content: "fresh context snippet"}}, nil
}

func newTestEngine(adapter brain.Adapter, provider search.Provider) *Engine {
	var aug *search.Augmenter
	if provider != nil {
		aug = search.NewAugmenter(provider)
	}
	e := NewEngine(adapter, aug, NewWindow(), DefaultPersona())
	e.now = func() time.Time { return time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC) }
	return e
}

func TestRespondCommitsAndEvictsFIFO(t *testing.T) {
	adapter := &scriptedAdapter{classifierReply: "NO", answerReply: "알겠습니다, sir."}
	e := newTestEngine(adapter, nil)

	for i := 0; i < 7; i++ {
		got, committed := e.Respond(context.Background(), fmt.Sprintf("질문 %d", i))
		if got != "알겠습니다, sir." {
			t.Fatalf("Respond() = %q", got)
		}
		if !committed {
			t.Fatalf("successful turn %d not reported as committed", i)
		}
		if e.Window().Len() > MaxTurns {
			t.Fatalf("window length %d exceeds bound after turn %d", e.Window().Len(), i)
		}
	}

	turns := e.Window().Snapshot()
	if len(turns) != MaxTurns {
		t.Fatalf("window length = %d, want %d", len(turns), MaxTurns)
	}
	if turns[0].Role != "user" || turns[0].Text != "질문 2" {
		t.Fatalf("oldest turn = %+v, want user turn 질문 2 (FIFO eviction)", turns[0])
	}
}

func TestRespondDoesNotCommitOnError(t *testing.T) {
	adapter := &scriptedAdapter{classifierReply: "NO", answerErr: errors.New("upstream 503")}
	e := newTestEngine(adapter, nil)

	got, committed := e.Respond(context.Background(), "오늘 기분 어때")
	if got != DefaultPersona().Apology() {
		t.Fatalf("Respond() on failure = %q, want apology", got)
	}
	if committed {
		t.Fatalf("failed turn reported as committed")
	}
	if e.Window().Len() != 0 {
		t.Fatalf("failed turn was committed, window length = %d", e.Window().Len())
	}
}

func TestForcedSearchKeywordTriggersProvider(t *testing.T) {
	adapter := &scriptedAdapter{queryReply: "Seoul weather today", answerReply: "맑습니다, sir."}
	provider := &recordingProvider{}
	e := newTestEngine(adapter, provider)

	e.Respond(context.Background(), "지금 날씨 어때")
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.calls)
	}
	if provider.lastQuery != "Seoul weather today" {
		t.Fatalf("search query = %q", provider.lastQuery)
	}
	final := adapter.lastAnswerReq.Messages[len(adapter.lastAnswerReq.Messages)-1].Text
	if !strings.Contains(final, "[실시간 정보]") {
		t.Fatalf("final prompt missing search context: %q", final)
	}
	if !strings.Contains(final, "[현재 시각:") {
		t.Fatalf("final prompt missing timestamp: %q", final)
	}
}

func TestClassifierSearchPath(t *testing.T) {
	adapter := &scriptedAdapter{classifierReply: "SEARCH: bitcoin price usd", answerReply: "비트코인은 내렸습니다, sir."}
	provider := &recordingProvider{}
	e := newTestEngine(adapter, provider)

	e.Respond(context.Background(), "비트코인 얼마야")
	if provider.calls != 1 || provider.lastQuery != "bitcoin price usd" {
		t.Fatalf("provider calls = %d query = %q", provider.calls, provider.lastQuery)
	}
}

func TestClassifierNoSkipsProvider(t *testing.T) {
	adapter := &scriptedAdapter{classifierReply: "NO", answerReply: "좋습니다, sir."}
	provider := &recordingProvider{}
	e := newTestEngine(adapter, provider)

	e.Respond(context.Background(), "기분이 어때")
	if provider.calls != 0 {
		t.Fatalf("provider calls = %d, want 0", provider.calls)
	}
}
