package music

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

type fakePlayer struct {
	started    []string
	volumes    []float64
	stops      int
	lastVolume float64
	startErr   error
}

func (p *fakePlayer) Start(path string, volume float64) error {
	if p.startErr != nil {
		return p.startErr
	}
	p.started = append(p.started, path)
	p.lastVolume = volume
	return nil
}

func (p *fakePlayer) SetVolume(volume float64) {
	p.volumes = append(p.volumes, volume)
	p.lastVolume = volume
}

func (p *fakePlayer) Stop() { p.stops++ }

func musicDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("mp3"), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
	return dir
}

func TestPlayResolvesTrackName(t *testing.T) {
	dir := musicDir(t, "lofi_beats.mp3")
	p := &fakePlayer{}
	s := NewSession(p, dir)

	if !s.Play("lofi beats") {
		t.Fatalf("Play() = false, want true")
	}
	if len(p.started) != 1 || filepath.Base(p.started[0]) != "lofi_beats.mp3" {
		t.Fatalf("started = %v", p.started)
	}
	if got, ok := s.Current(); !ok || got != "lofi beats" {
		t.Fatalf("Current() = %q, %v", got, ok)
	}
}

func TestPlayCaseInsensitiveFallback(t *testing.T) {
	dir := musicDir(t, "Jazz_Night.mp3")
	p := &fakePlayer{}
	s := NewSession(p, dir)

	if !s.Play("jazz night") {
		t.Fatalf("Play() = false for case-mismatched file")
	}
	if filepath.Base(p.started[0]) != "Jazz_Night.mp3" {
		t.Fatalf("resolved %q, want on-disk casing", p.started[0])
	}
}

func TestPlayUnknownTrack(t *testing.T) {
	s := NewSession(&fakePlayer{}, musicDir(t))
	if s.Play("nothing here") {
		t.Fatalf("Play() = true for missing track")
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("Current() reports playback after failed Play")
	}
}

func TestDuckUnduckOnlyWhilePlaying(t *testing.T) {
	dir := musicDir(t, "lofi.mp3")
	p := &fakePlayer{}
	s := NewSession(p, dir)

	s.Duck()
	s.Unduck()
	if len(p.volumes) != 0 {
		t.Fatalf("duck touched the player while idle: %v", p.volumes)
	}

	s.Play("lofi")
	s.Duck()
	if p.lastVolume != defaultDuckedVolume {
		t.Fatalf("ducked volume = %v, want %v", p.lastVolume, defaultDuckedVolume)
	}
	s.Unduck()
	if p.lastVolume != defaultNormalVolume {
		t.Fatalf("unducked volume = %v, want %v", p.lastVolume, defaultNormalVolume)
	}
}

func TestAdjustVolumeClamps(t *testing.T) {
	dir := musicDir(t, "lofi.mp3")
	p := &fakePlayer{}
	s := NewSession(p, dir)
	s.Play("lofi")

	if got := s.AdjustVolume(2.0); got != 1.0 {
		t.Fatalf("AdjustVolume(+2) = %v, want clamp to 1", got)
	}
	if got := s.AdjustVolume(-5.0); got != 0.0 {
		t.Fatalf("AdjustVolume(-5) = %v, want clamp to 0", got)
	}
	if got := s.AdjustVolume(0.3); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("AdjustVolume(+0.3) = %v", got)
	}
}

func TestAdjustVolumeWhileDuckedDefersApply(t *testing.T) {
	dir := musicDir(t, "lofi.mp3")
	p := &fakePlayer{}
	s := NewSession(p, dir)
	s.Play("lofi")
	s.Duck()

	before := len(p.volumes)
	s.AdjustVolume(0.5)
	if len(p.volumes) != before {
		t.Fatalf("volume applied to player while ducked")
	}
	s.Unduck()
	if math.Abs(p.lastVolume-0.7) > 1e-9 {
		t.Fatalf("unduck restored %v, want adjusted 0.7", p.lastVolume)
	}
}

func TestStopResetsState(t *testing.T) {
	dir := musicDir(t, "lofi.mp3")
	p := &fakePlayer{}
	s := NewSession(p, dir)
	s.Play("lofi")
	s.Stop()

	if p.stops != 1 {
		t.Fatalf("player stops = %d, want 1", p.stops)
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("Current() reports playback after Stop")
	}
}
