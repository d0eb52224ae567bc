package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
)

const frameSize = 320 // 20ms at 16kHz

// PortAudioRecorder captures mono PCM from the default input device.
type PortAudioRecorder struct{}

func NewPortAudioRecorder() (*PortAudioRecorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("init portaudio: %w", err)
	}
	return &PortAudioRecorder{}, nil
}

func (r *PortAudioRecorder) Close() {
	portaudio.Terminate()
}

func (r *PortAudioRecorder) Record(ctx context.Context, duration time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, int(float64(SampleRate)*duration.Seconds()))

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(SampleRate), len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	defer stream.Stop()

	frames := int(duration.Seconds() * SampleRate / frameSize)
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("read input frame: %w", err)
		}
		out = append(out, buf...)
	}
	return out, nil
}
