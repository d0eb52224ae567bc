package capture

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
)

const (
	// SampleRate is the capture rate expected by the transcription API.
	SampleRate = 16000

	// defaultSilenceRMS separates room noise from speech on normalized
	// [-1, 1] samples.
	defaultSilenceRMS = 0.015
)

// Recorder captures a fixed duration of mono PCM from the microphone.
type Recorder interface {
	Record(ctx context.Context, duration time.Duration) ([]float32, error)
}

// Transcriber is the speech-to-text capability.
type Transcriber interface {
	Transcribe(ctx context.Context, wavData []byte) (string, error)
}

// AudioStrategy records a clip, gates it on RMS energy, and transcribes
// it. Silent clips return no input without touching the transcription
// API; sending silence costs money and latency for a guaranteed-empty
// result.
type AudioStrategy struct {
	recorder    Recorder
	transcriber Transcriber
	silenceRMS  float64
}

func NewAudioStrategy(recorder Recorder, transcriber Transcriber) *AudioStrategy {
	return &AudioStrategy{
		recorder:    recorder,
		transcriber: transcriber,
		silenceRMS:  defaultSilenceRMS,
	}
}

// WithSilenceThreshold overrides the RMS gate, for noisy rooms and tests.
func (s *AudioStrategy) WithSilenceThreshold(rms float64) *AudioStrategy {
	s.silenceRMS = rms
	return s
}

func (s *AudioStrategy) Capture(ctx context.Context, durationHint time.Duration) (string, error) {
	if durationHint <= 0 {
		durationHint = 4 * time.Second
	}

	samples, err := s.recorder.Record(ctx, durationHint)
	if err != nil {
		return "", fmt.Errorf("record audio: %w", err)
	}
	if len(samples) == 0 || rms(samples) < s.silenceRMS {
		return "", nil
	}

	wavData, err := EncodeWAV(samples, SampleRate)
	if err != nil {
		return "", fmt.Errorf("encode wav: %w", err)
	}

	text, err := s.transcriber.Transcribe(ctx, wavData)
	if err != nil {
		log.Printf("capture: transcription failed: %v", err)
		return "", nil
	}
	return strings.TrimSpace(text), nil
}

func rms(samples []float32) float64 {
	var sum float64
	for _, v := range samples {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
