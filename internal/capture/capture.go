// Package capture obtains one raw command per turn, from the keyboard or
// the microphone, behind a single strategy contract.
package capture

import (
	"context"
	"time"
)

// Strategy produces the next raw user utterance. An empty string with a
// nil error means "no input this round" (silence, empty line); callers
// treat it as a skipped turn, not a failure.
type Strategy interface {
	Capture(ctx context.Context, durationHint time.Duration) (string, error)
}
