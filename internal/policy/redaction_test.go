package policy

import (
	"strings"
	"testing"
)

func TestRedactPII(t *testing.T) {
	input := "Deliver to gunhee@example.com, call 010-1234-5678, card 4242 4242 4242 4242."
	out, changed := RedactPII(input)
	if !changed {
		t.Fatalf("changed = false, want true")
	}
	for _, marker := range []string{"[REDACTED_EMAIL]", "[REDACTED_PHONE]", "[REDACTED_CARD]"} {
		if !strings.Contains(out, marker) {
			t.Fatalf("output missing marker %q: %q", marker, out)
		}
	}
}

func TestRedactPIICleanInput(t *testing.T) {
	out, changed := RedactPII("오늘 일정 뭐 있어?")
	if changed {
		t.Fatalf("changed = true for clean input")
	}
	if out != "오늘 일정 뭐 있어?" {
		t.Fatalf("clean input mutated: %q", out)
	}
}
