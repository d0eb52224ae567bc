package convo

import "sync"

// MaxTurns bounds the rolling conversation memory: 10 entries, 5 exchanges.
const MaxTurns = 10

// Turn is one committed exchange half. Turns are append-only; the window
// never rewrites history, only evicts from the front.
type Turn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Window is the bounded FIFO conversation memory. It is written by the
// session loop and read by the HTTP status endpoint, so access is locked.
type Window struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewWindow() *Window {
	return &Window{}
}

// Commit appends a user/assistant pair and evicts the oldest entries until
// the window fits the bound again. A turn is committed only after the
// assistant reply succeeded; failed turns never reach the window.
func (w *Window) Commit(userText, assistantText string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.turns = append(w.turns,
		Turn{Role: "user", Text: userText},
		Turn{Role: "assistant", Text: assistantText},
	)
	if excess := len(w.turns) - MaxTurns; excess > 0 {
		w.turns = append(w.turns[:0:0], w.turns[excess:]...)
	}
}

// Snapshot returns a copy of the current window, oldest first.
func (w *Window) Snapshot() []Turn {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.turns)
}
