package gesture

import (
	"testing"
	"time"
)

type recordingScroller struct {
	amounts []int
}

func (s *recordingScroller) Scroll(amount int) {
	s.amounts = append(s.amounts, amount)
}

func TestControllerRequiresStablePose(t *testing.T) {
	sc := &recordingScroller{}
	c := NewController(nil, sc)
	now := time.Now()

	c.Process(HandUp, now)
	c.Process(HandUp, now.Add(20*time.Millisecond))
	if len(sc.amounts) != 0 {
		t.Fatalf("scrolled after %d frames, want none before %d stable frames", 2, stableFrames)
	}

	c.Process(HandUp, now.Add(700*time.Millisecond))
	if len(sc.amounts) != 1 || sc.amounts[0] != scrollAmount {
		t.Fatalf("amounts = %v, want one scroll of %d", sc.amounts, scrollAmount)
	}
}

func TestControllerCooldownThrottlesRepeats(t *testing.T) {
	sc := &recordingScroller{}
	c := NewController(nil, sc)
	base := time.Now()

	for i := 0; i < 10; i++ {
		c.Process(HandDown, base.Add(time.Duration(i)*700*time.Millisecond))
	}
	// First fire needs 3 stable frames; the rest fire once per cooldown
	// window.
	if len(sc.amounts) != 8 {
		t.Fatalf("fires = %d, want 8", len(sc.amounts))
	}
	for _, a := range sc.amounts {
		if a != -scrollAmount {
			t.Fatalf("amounts = %v, want all %d", sc.amounts, -scrollAmount)
		}
	}

	sc2 := &recordingScroller{}
	c2 := NewController(nil, sc2)
	for i := 0; i < 10; i++ {
		c2.Process(HandDown, base.Add(time.Duration(i)*20*time.Millisecond))
	}
	if len(sc2.amounts) != 1 {
		t.Fatalf("rapid frames fired %d times, want 1 within cooldown", len(sc2.amounts))
	}
}

func TestControllerPoseChangeResetsCount(t *testing.T) {
	sc := &recordingScroller{}
	c := NewController(nil, sc)
	now := time.Now()

	c.Process(HandUp, now)
	c.Process(HandUp, now.Add(20*time.Millisecond))
	c.Process(HandDown, now.Add(40*time.Millisecond))
	c.Process(HandUp, now.Add(700*time.Millisecond))
	c.Process(HandUp, now.Add(720*time.Millisecond))
	if len(sc.amounts) != 0 {
		t.Fatalf("scrolled across pose change, amounts = %v", sc.amounts)
	}
}

func TestControllerIgnoresNoHand(t *testing.T) {
	sc := &recordingScroller{}
	c := NewController(nil, sc)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Process(HandNone, now.Add(time.Duration(i)*700*time.Millisecond))
	}
	if len(sc.amounts) != 0 {
		t.Fatalf("scrolled with no hand present: %v", sc.amounts)
	}
}
