package voiceout

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	"github.com/gunhee-dev/orion/internal/music"
)

// BeepAudioPlayer plays synthesized MP3 clips through the shared beep
// speaker, mixing over whatever music is (ducked and) playing.
type BeepAudioPlayer struct{}

func NewBeepAudioPlayer() *BeepAudioPlayer {
	return &BeepAudioPlayer{}
}

func (p *BeepAudioPlayer) Play(ctx context.Context, mp3Data []byte) error {
	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(mp3Data)))
	if err != nil {
		return fmt.Errorf("decode speech audio: %w", err)
	}
	defer streamer.Close()

	mixerRate, err := music.EnsureSpeaker(format.SampleRate)
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	var source beep.Streamer = streamer
	if format.SampleRate != mixerRate {
		source = beep.Resample(4, format.SampleRate, mixerRate, source)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(source, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
