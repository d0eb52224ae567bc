package calendar

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/gunhee-dev/orion/internal/brain"
)

// Runner executes the external calendar query tool and returns its stdout.
// Injected so tests never shell out.
type Runner func(ctx context.Context, args ...string) (string, error)

// Period is the date range a schedule question refers to.
type Period struct {
	Label     string // spoken label, e.g. "오늘"
	DaysAhead int    // 0 = today only
}

var (
	periodToday    = Period{Label: "오늘", DaysAhead: 0}
	periodTomorrow = Period{Label: "내일", DaysAhead: 1}
	periodWeek     = Period{Label: "이번 주", DaysAhead: 7}
)

// Event is one parsed calendar entry.
type Event struct {
	Name     string
	Time     string
	Location string
}

var toolPaths = []string{
	"/usr/local/bin/icalBuddy",
	"/opt/homebrew/bin/icalBuddy",
	"/usr/bin/icalBuddy",
}

// Adapter answers schedule questions by shelling out to icalBuddy and
// summarizing the raw event text through the chat capability.
type Adapter struct {
	adapter   brain.Adapter
	runner    Runner
	honorific string
	available bool
}

func NewAdapter(chatAdapter brain.Adapter, honorific string) *Adapter {
	a := &Adapter{adapter: chatAdapter, honorific: honorific}

	path := ""
	for _, p := range toolPaths {
		if _, err := os.Stat(p); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		if found, err := exec.LookPath("icalBuddy"); err == nil {
			path = found
		}
	}
	if path == "" {
		log.Printf("calendar: icalBuddy not found, schedule queries degrade to 'no events'")
		a.runner = func(context.Context, ...string) (string, error) { return "", nil }
		return a
	}

	a.available = true
	a.runner = func(ctx context.Context, args ...string) (string, error) {
		out, err := exec.CommandContext(ctx, path, args...).Output()
		return string(out), err
	}
	return a
}

// WithRunner replaces the tool runner, for tests.
func (a *Adapter) WithRunner(r Runner) *Adapter {
	a.runner = r
	a.available = true
	return a
}

func (a *Adapter) Available() bool { return a.available }

// PeriodFromText picks today/tomorrow/this-week from the question wording.
func PeriodFromText(text string) Period {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "tomorrow") || strings.Contains(lower, "내일"):
		return periodTomorrow
	case strings.Contains(lower, "week") || strings.Contains(lower, "이번주") ||
		strings.Contains(lower, "이번 주"):
		return periodWeek
	default:
		return periodToday
	}
}

// RawEvents returns the tool's raw output for today through today+days.
// Any tool failure degrades to "no events".
func (a *Adapter) RawEvents(ctx context.Context, days int) string {
	arg := "eventsToday"
	if days > 0 {
		arg = fmt.Sprintf("eventsToday+%d", days)
	}
	out, err := a.runner(ctx, arg)
	if err != nil {
		log.Printf("calendar: query failed: %v", err)
		return ""
	}
	return out
}

// Answer responds to a schedule question in one sentence. An empty raw
// result short-circuits to the fixed no-events sentence without spending a
// chat call on a deterministically empty answer.
func (a *Adapter) Answer(ctx context.Context, question string) string {
	period := PeriodFromText(question)
	raw := a.RawEvents(ctx, period.DaysAhead)
	if strings.TrimSpace(raw) == "" {
		return a.noEvents(period)
	}

	prompt := fmt.Sprintf(
		"다음은 캘린더 일정 데이터입니다:\n\n%s\n\n질문: %s\n\n"+
			"위 일정 데이터를 바탕으로 질문에 한 문장으로 간단히 답해주세요. "+
			"시간은 오전/오후 형식으로 말해주세요. "+
			"항상 \"%s,\"로 시작하고 존댓말로 답해주세요.",
		raw, question, a.honorific,
	)
	answer, err := a.adapter.Complete(ctx, brain.Request{
		Messages:  []brain.Message{{Role: "user", Text: prompt}},
		MaxTokens: 150,
	})
	if err != nil || strings.TrimSpace(answer) == "" {
		log.Printf("calendar: summarize failed, using parsed fallback: %v", err)
		return a.formatEvents(period, parseEvents(raw))
	}
	return strings.TrimSpace(answer)
}

func (a *Adapter) noEvents(period Period) string {
	return fmt.Sprintf("%s, %s은 일정이 없습니다.", a.honorific, period.Label)
}

// parseEvents reads icalBuddy's bullet-marked output: "• name (calendar)"
// lines followed by indented time and "location:" lines.
func parseEvents(output string) []Event {
	var events []Event
	var current *Event

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "•") {
			if current != nil {
				events = append(events, *current)
			}
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "•"))
			if idx := strings.Index(name, "("); idx >= 0 {
				name = strings.TrimSpace(name[:idx])
			}
			current = &Event{Name: name}
			continue
		}
		if current == nil {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "location:"):
			current.Location = strings.TrimSpace(strings.TrimPrefix(trimmed, "location:"))
		case strings.Contains(trimmed, "at 오전") || strings.Contains(trimmed, "at 오후") ||
			strings.Contains(trimmed, "tomorrow at"):
			current.Time = trimmed
		}
	}
	if current != nil {
		events = append(events, *current)
	}
	return events
}

// formatEvents renders parsed events without the chat model, used as the
// summarize fallback. At most six events are spoken.
func (a *Adapter) formatEvents(period Period, events []Event) string {
	if len(events) == 0 {
		return a.noEvents(period)
	}
	if len(events) > 6 {
		events = events[:6]
	}

	parts := make([]string, 0, len(events))
	for _, e := range events {
		if strings.Contains(e.Time, "오전") || strings.Contains(e.Time, "오후") {
			if _, after, ok := strings.Cut(e.Time, "at"); ok {
				timePart := strings.TrimSpace(strings.SplitN(strings.TrimSpace(after), "-", 2)[0])
				parts = append(parts, fmt.Sprintf("%s에 %s", timePart, e.Name))
				continue
			}
		}
		parts = append(parts, e.Name)
	}
	return fmt.Sprintf("%s, %s 일정입니다. %s.", a.honorific, period.Label, strings.Join(parts, ", "))
}
