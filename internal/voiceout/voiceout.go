package voiceout

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gunhee-dev/orion/internal/brain"
)

// Synthesizer is the text-to-speech capability.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioPlayer plays an encoded audio clip and blocks until it finishes,
// so no two spoken responses ever overlap.
type AudioPlayer interface {
	Play(ctx context.Context, mp3Data []byte) error
}

// Ducker lowers and restores background music around speech.
type Ducker interface {
	Duck()
	Unduck()
}

// Speaker voices assistant replies: duck the music, translate the reply to
// the spoken language, synthesize, play, restore the music.
type Speaker struct {
	synth       Synthesizer
	player      AudioPlayer
	ducker      Ducker
	translator  brain.Adapter
	ownerName   string
	honorific   string
	nameAliases []string
}

func NewSpeaker(synth Synthesizer, player AudioPlayer, ducker Ducker, translator brain.Adapter, ownerName, honorific string) *Speaker {
	return &Speaker{
		synth:      synth,
		player:     player,
		ducker:     ducker,
		translator: translator,
		ownerName:  ownerName,
		honorific:  honorific,
	}
}

// Speak voices text. The music is unducked on every path, including
// synthesis and playback failures, so volume is never left lowered.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.ducker.Duck()
	defer s.ducker.Unduck()

	spoken := s.translate(ctx, text)

	audio, err := s.synth.Synthesize(ctx, spoken)
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}
	if err := s.player.Play(ctx, audio); err != nil {
		return fmt.Errorf("play speech: %w", err)
	}
	return nil
}

// translate renders the reply in the voice's spoken language. Translation
// failure is not worth losing the turn over; the untranslated text is
// spoken instead.
func (s *Speaker) translate(ctx context.Context, text string) string {
	if s.translator == nil {
		return text
	}
	prompt := fmt.Sprintf(
		"Translate to natural English. '%s' = '%s'. Output translation only:\n\n%s",
		s.ownerName, s.honorific, text,
	)
	out, err := s.translator.Complete(ctx, brain.Request{
		Messages:  []brain.Message{{Role: "user", Text: prompt}},
		MaxTokens: 200,
	})
	if err != nil || strings.TrimSpace(out) == "" {
		log.Printf("voiceout: translation failed, speaking untranslated: %v", err)
		return text
	}
	return s.correctNames(strings.TrimSpace(out))
}

// WithNameAliases registers romanized spellings of the owner's name that
// translation models sometimes emit despite the prompt; they are rewritten
// to the honorific before synthesis.
func (s *Speaker) WithNameAliases(aliases ...string) *Speaker {
	s.nameAliases = aliases
	return s
}

func (s *Speaker) correctNames(text string) string {
	for _, alias := range s.nameAliases {
		text = strings.ReplaceAll(text, alias, s.honorific)
	}
	return text
}
