package voiceout

import (
	"context"
	"log"
)

// MockSpeaker logs instead of synthesizing, for runs without a TTS key
// and for tests. Notifications still carry the text to the user.
type MockSpeaker struct{}

func NewMockSpeaker() *MockSpeaker { return &MockSpeaker{} }

func (MockSpeaker) Speak(_ context.Context, text string) error {
	log.Printf("voiceout (mock): %s", text)
	return nil
}
