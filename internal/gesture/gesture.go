// Package gesture turns hand poses from the camera into scroll actions.
package gesture

import (
	"context"
	"log"
	"time"

	"github.com/gunhee-dev/orion/internal/camera"
)

// HandState is the detected index-finger pose in one frame.
type HandState int

const (
	HandNone HandState = iota
	HandUp
	HandDown
)

// Detector extracts a hand state from a camera frame.
type Detector interface {
	Detect(frame []byte) HandState
}

// Scroller performs the scroll on the desktop.
type Scroller interface {
	Scroll(amount int)
}

const (
	// A pose must hold for this many consecutive frames before it fires;
	// single-frame flickers from the detector are noise.
	stableFrames = 3

	// cooldown throttles repeat scrolls while the pose is held.
	cooldown = 600 * time.Millisecond

	scrollAmount = 12
)

// Controller debounces detector output and drives the scroller.
type Controller struct {
	detector Detector
	scroller Scroller

	prevState   HandState
	stableCount int
	lastFire    time.Time
}

func NewController(detector Detector, scroller Scroller) *Controller {
	return &Controller{detector: detector, scroller: scroller}
}

// Process consumes one frame's hand state. Exposed for the run loop and
// for tests; now is injected to keep the cooldown deterministic.
func (c *Controller) Process(state HandState, now time.Time) {
	if state == HandNone {
		return
	}
	if state != c.prevState {
		c.prevState = state
		c.stableCount = 1
		return
	}
	c.stableCount++

	if c.stableCount < stableFrames || now.Sub(c.lastFire) <= cooldown {
		return
	}
	if state == HandUp {
		c.scroller.Scroll(scrollAmount)
	} else {
		c.scroller.Scroll(-scrollAmount)
	}
	c.lastFire = now
}

// Run polls the latest camera frame until ctx is cancelled. Frames
// already processed are skipped via the cache sequence number.
func (c *Controller) Run(ctx context.Context, cache *camera.Cache) {
	var lastSeq uint64
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	log.Printf("gesture: controller running")
	for {
		select {
		case <-ctx.Done():
			log.Printf("gesture: controller stopped")
			return
		case <-ticker.C:
			frame, seq, ok := cache.Latest()
			if !ok || seq == lastSeq {
				continue
			}
			lastSeq = seq
			c.Process(c.detector.Detect(frame), time.Now())
		}
	}
}
