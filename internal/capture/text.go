package capture

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

// TextBuffer accumulates keystrokes until a completion signal. Backspace
// removes the last rune; Complete drains and resets the buffer.
type TextBuffer struct {
	runes []rune
}

func (b *TextBuffer) Push(r rune) {
	b.runes = append(b.runes, r)
}

func (b *TextBuffer) Backspace() {
	if len(b.runes) > 0 {
		b.runes = b.runes[:len(b.runes)-1]
	}
}

func (b *TextBuffer) Complete() string {
	out := strings.TrimSpace(string(b.runes))
	b.runes = b.runes[:0]
	return out
}

// TextStrategy reads newline-terminated commands from a stream, applying
// in-band backspace characters the way a raw keystroke feed delivers them.
// A single persistent goroutine owns the reader; a Capture abandoned by
// context cancellation leaves the pending line queued for the next call
// instead of leaking a second reader.
type TextStrategy struct {
	reader *bufio.Reader
	once   sync.Once
	lines  chan lineResult
}

type lineResult struct {
	line string
	err  error
}

func NewTextStrategy(r io.Reader) *TextStrategy {
	return &TextStrategy{
		reader: bufio.NewReader(r),
		lines:  make(chan lineResult, 1),
	}
}

func (s *TextStrategy) readLoop() {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			// A final unterminated line is still a command; the terminal
			// error follows as its own result.
			if line != "" {
				s.lines <- lineResult{line: line}
			}
			s.lines <- lineResult{err: err}
			return
		}
		s.lines <- lineResult{line: line}
	}
}

func (s *TextStrategy) Capture(ctx context.Context, _ time.Duration) (string, error) {
	s.once.Do(func() { go s.readLoop() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-s.lines:
		if res.err != nil && res.line == "" {
			if res.err == io.EOF {
				return "", io.EOF
			}
			return "", res.err
		}
		var buf TextBuffer
		for _, r := range strings.TrimRight(res.line, "\r\n") {
			if r == '\b' || r == 0x7f {
				buf.Backspace()
				continue
			}
			buf.Push(r)
		}
		return buf.Complete(), nil
	}
}
