package wake

import "testing"

func TestDetectExtractsRemainder(t *testing.T) {
	tr := New()
	res := tr.Detect("Hey Orion, play some jazz")
	if !res.Matched {
		t.Fatalf("Detect() should match wake phrase")
	}
	if res.Remainder != "play some jazz" {
		t.Fatalf("Remainder = %q, want %q", res.Remainder, "play some jazz")
	}
	if !res.HasCommand() {
		t.Fatalf("HasCommand() should be true for %q", res.Remainder)
	}
}

func TestDetectVariantSpellings(t *testing.T) {
	tr := New()
	for _, in := range []string{
		"hey orian what time is it",
		"Hey Oreon what time is it",
		"hey o'brien what time is it",
		"orion what time is it",
	} {
		if res := tr.Detect(in); !res.Matched {
			t.Fatalf("Detect(%q) should match", in)
		}
	}
}

func TestDetectNonMatchingIsInert(t *testing.T) {
	tr := New()
	for i := 0; i < 3; i++ {
		res := tr.Detect("random text about nothing")
		if res.Matched {
			t.Fatalf("Detect() matched on non-wake input")
		}
		if res.Remainder != "" {
			t.Fatalf("Remainder = %q, want empty", res.Remainder)
		}
	}
}

func TestDetectBareWakeHasNoCommand(t *testing.T) {
	tr := New()
	res := tr.Detect("hey orion")
	if !res.Matched {
		t.Fatalf("Detect() should match bare wake phrase")
	}
	if res.HasCommand() {
		t.Fatalf("HasCommand() should be false for remainder %q", res.Remainder)
	}

	// A one-rune tail is still treated as "wake with no command".
	res = tr.Detect("hey orion, a")
	if res.HasCommand() {
		t.Fatalf("HasCommand() should be false for remainder %q", res.Remainder)
	}
}

func TestDetectPrefersLongerVariant(t *testing.T) {
	tr := New()
	res := tr.Detect("hey orion play lofi")
	if res.Remainder != "play lofi" {
		t.Fatalf("Remainder = %q, want %q", res.Remainder, "play lofi")
	}
}
