package music

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

// EnsureSpeaker initializes the process-wide beep speaker once and returns
// the mixer rate. Music and speech playback share one mixer; later callers
// resample to the rate the first caller set.
func EnsureSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerOnce.Do(func() {
		speakerRate = rate
		speakerErr = speaker.Init(rate, rate.N(time.Second/10))
	})
	return speakerRate, speakerErr
}

// BeepPlayer loops MP3 files through the shared beep speaker.
type BeepPlayer struct {
	mu       sync.Mutex
	file     *os.File
	streamer beep.StreamSeekCloser
	volume   *effects.Volume
}

func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{}
}

func (p *BeepPlayer) Start(path string, volume float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open track: %w", err)
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode track: %w", err)
	}

	mixerRate, err := EnsureSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		f.Close()
		return fmt.Errorf("init speaker: %w", err)
	}

	var source beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != mixerRate {
		source = beep.Resample(4, format.SampleRate, mixerRate, source)
	}
	vol := &effects.Volume{
		Streamer: source,
		Base:     2,
		Volume:   linearToExponent(volume),
		Silent:   volume <= 0,
	}

	p.file = f
	p.streamer = streamer
	p.volume = vol
	speaker.Play(vol)
	return nil
}

func (p *BeepPlayer) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.volume == nil {
		return
	}
	speaker.Lock()
	p.volume.Volume = linearToExponent(volume)
	p.volume.Silent = volume <= 0
	speaker.Unlock()
}

func (p *BeepPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *BeepPlayer) stopLocked() {
	if p.streamer == nil {
		return
	}
	speaker.Clear()
	p.streamer.Close()
	p.file.Close()
	p.streamer = nil
	p.file = nil
	p.volume = nil
}

// linearToExponent maps a [0, 1] level onto beep's exponential volume
// scale, where 0 is unity gain and each -1 halves the amplitude.
func linearToExponent(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	if volume > 1 {
		volume = 1
	}
	return math.Log2(volume)
}
