package wake

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultPhrases lists the accepted activation phrase variants. Several are
// deliberate misspellings: speech-to-text renders the same phonetic phrase
// inconsistently, and matching a fixed variant list absorbs that variance.
var DefaultPhrases = []string{
	"hey orion", "hey orian", "hey oreon", "hey orianne",
	"a orion", "a orian", "hey oryan", "hey aurion",
	"hey orient", "hey o'brien",
	"orion", "orian",
}

// Result is the outcome of scanning one input buffer.
type Result struct {
	Matched   bool
	Remainder string
}

// HasCommand reports whether the remainder is long enough to route as a
// command. Two runes or fewer is treated as a bare wake-up, in which case
// the caller should ask for a second, longer capture.
func (r Result) HasCommand() bool {
	return utf8.RuneCountInString(strings.TrimSpace(r.Remainder)) > 2
}

// Trigger detects an activation phrase inside typed or transcribed text.
type Trigger struct {
	phrases []string
}

// New builds a trigger over the given phrase variants. Phrases are checked
// in order, so longer variants must come before their substrings. With no
// arguments the default phrase list is used.
func New(phrases ...string) *Trigger {
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &Trigger{phrases: lowered}
}

// Detect scans buffer for the first matching wake phrase. On a match the
// remainder is the original-cased text after the phrase, with leading
// punctuation and whitespace stripped. Non-matching input always yields a
// zero Result, so repeated noise never flips session state.
func (t *Trigger) Detect(buffer string) Result {
	lower := strings.ToLower(buffer)
	for _, phrase := range t.phrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}
		rest := buffer[idx+len(phrase):]
		rest = strings.TrimLeftFunc(rest, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsPunct(r)
		})
		return Result{Matched: true, Remainder: rest}
	}
	return Result{}
}
