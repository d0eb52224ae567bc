package music

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	defaultNormalVolume = 0.2
	defaultDuckedVolume = 0.05
)

// Player is the audio backend behind the session. Start begins looping
// playback of the file at path and returns once playback is running.
type Player interface {
	Start(path string, volume float64) error
	SetVolume(volume float64)
	Stop()
}

// Session owns background music state: at most one looping track, a normal
// volume, and a ducked volume applied while the assistant speaks.
type Session struct {
	mu           sync.Mutex
	player       Player
	dir          string
	current      string
	normalVolume float64
	duckedVolume float64
	ducked       bool
}

func NewSession(player Player, dir string) *Session {
	return &Session{
		player:       player,
		dir:          dir,
		normalVolume: defaultNormalVolume,
		duckedVolume: defaultDuckedVolume,
	}
}

// WithVolumes overrides the default normal and ducked levels. Values are
// clamped to [0, 1]; ducked is capped at the normal level.
func (s *Session) WithVolumes(normal, ducked float64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.normalVolume = clamp(normal)
	s.duckedVolume = clamp(ducked)
	if s.duckedVolume > s.normalVolume {
		s.duckedVolume = s.normalVolume
	}
	return s
}

// Play resolves name to a file in the music directory and starts looping
// playback, replacing whatever was playing. Returns false when no file
// matches; an unknown track is a normal outcome, not an error.
func (s *Session) Play(name string) bool {
	path, ok := resolveTrack(s.dir, name)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	if err := s.player.Start(path, s.normalVolume); err != nil {
		return false
	}
	s.current = name
	return true
}

func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	if s.current != "" {
		s.player.Stop()
	}
	s.current = ""
	s.ducked = false
}

// Duck drops volume to the ducked level while something is playing.
// A no-op otherwise, so speaking over silence never touches the player.
func (s *Session) Duck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return
	}
	s.ducked = true
	s.player.SetVolume(s.duckedVolume)
}

func (s *Session) Unduck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return
	}
	s.ducked = false
	s.player.SetVolume(s.normalVolume)
}

// AdjustVolume shifts the normal volume by delta, clamped to [0, 1], and
// returns the new level. The change is applied immediately unless playback
// is currently ducked.
func (s *Session) AdjustVolume(delta float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.normalVolume = clamp(s.normalVolume + delta)
	if s.current != "" && !s.ducked {
		s.player.SetVolume(s.normalVolume)
	}
	return s.normalVolume
}

// Current returns the logical name of the playing track, if any.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != ""
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// resolveTrack maps a spoken track name onto a file: whitespace becomes
// underscores, ".mp3" is appended when no extension is given, and a
// case-insensitive directory scan covers capitalization mismatches.
func resolveTrack(dir, name string) (string, bool) {
	filename := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if filename == "" {
		return "", false
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".mp3") {
		filename += ".mp3"
	}

	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.Name(), filename) {
			return filepath.Join(dir, entry.Name()), true
		}
	}
	return "", false
}
