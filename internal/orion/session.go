// Package orion wires every capability into the assistant's event loop:
// capture input, detect the wake phrase, route the intent, execute, and
// voice the response.
package orion

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gunhee-dev/orion/internal/calendar"
	"github.com/gunhee-dev/orion/internal/capture"
	"github.com/gunhee-dev/orion/internal/convo"
	"github.com/gunhee-dev/orion/internal/delivery"
	"github.com/gunhee-dev/orion/internal/intent"
	"github.com/gunhee-dev/orion/internal/memory"
	"github.com/gunhee-dev/orion/internal/music"
	"github.com/gunhee-dev/orion/internal/notify"
	"github.com/gunhee-dev/orion/internal/observability"
	"github.com/gunhee-dev/orion/internal/policy"
	"github.com/gunhee-dev/orion/internal/vision"
	"github.com/gunhee-dev/orion/internal/wake"
)

const (
	suppressTrigger   = "ignore"
	unsuppressTrigger = "ignorex"
	visionArmTrigger  = "screenmode"

	firstCaptureDuration  = 4 * time.Second
	secondCaptureDuration = 8 * time.Second

	volumeStep = 0.1
)

// visionKeywords trigger a screen-capture turn instead of intent routing.
var visionKeywords = []string{"화면 봐", "화면 보고", "look at my screen", "what's on my screen"}

// Speaker voices one response and blocks until playback finishes.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Deps are the capabilities the session owns. All are constructed at
// startup and injected; the session itself holds no API clients.
type Deps struct {
	Wake      *wake.Trigger
	Input     capture.Strategy
	Router    *intent.Router
	Engine    *convo.Engine
	Calendar  *calendar.Adapter
	Delivery  *delivery.Automator
	Music     *music.Session
	Speaker   Speaker
	Notifier  notify.Notifier
	Store     memory.Store
	Metrics   *observability.Metrics
	Describer vision.Describer
	// CaptureScreen grabs the screen for vision turns; nil disables them.
	CaptureScreen func(ctx context.Context) ([]byte, error)

	AssistantName string
	Honorific     string

	// Capture windows. The second is used after a bare wake-up, when the
	// user has been prompted and needs room to phrase a full command.
	FirstCaptureDur  time.Duration
	SecondCaptureDur time.Duration
}

// State is a read-only snapshot for the control API.
type State struct {
	Active       bool            `json:"active"`
	Suppressed   bool            `json:"suppressed"`
	CurrentTrack string          `json:"current_track,omitempty"`
	OrderStatus  delivery.Status `json:"order_status"`
	Memory       []convo.Turn    `json:"memory"`
}

// Session is the long-lived assistant process state. One per process.
type Session struct {
	deps Deps

	mu          sync.RWMutex
	active      bool
	suppressed  bool
	visionArmed bool

	// inFlight counts enqueued commands the worker has not finished yet.
	// The listener waits for zero before reopening capture, so in audio
	// mode the microphone never records the assistant's own speech and
	// feeds it back as a command.
	inFlight int

	// commands feeds the single worker; strictly ordered, one command
	// in flight at a time.
	commands chan string

	events *eventBus
}

func NewSession(deps Deps) *Session {
	if deps.Honorific == "" {
		deps.Honorific = "sir"
	}
	if deps.AssistantName == "" {
		deps.AssistantName = "Orion"
	}
	if deps.FirstCaptureDur <= 0 {
		deps.FirstCaptureDur = firstCaptureDuration
	}
	if deps.SecondCaptureDur <= 0 {
		deps.SecondCaptureDur = secondCaptureDuration
	}
	return &Session{
		deps:     deps,
		commands: make(chan string, 16),
		events:   newEventBus(),
	}
}

// Run blocks on the input loop until ctx is cancelled or input ends.
// A worker goroutine drains the command queue so a slow turn (API calls,
// speech playback) never blocks input capture.
func (s *Session) Run(ctx context.Context) error {
	go s.worker(ctx)

	s.deps.Notifier.Show(s.deps.AssistantName, "가동되었습니다.")
	s.respond(ctx, "startup", fmt.Sprintf("가동되었습니다. 언제든 불러주세요, %s.", s.deps.Honorific))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.waitTurnIdle(ctx); err != nil {
			return err
		}

		text, err := s.deps.Input.Capture(ctx, s.deps.FirstCaptureDur)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("orion: capture failed: %v", err)
			continue
		}
		if len([]rune(strings.TrimSpace(text))) < 2 {
			continue
		}

		s.handleInput(ctx, text)
	}
}

// Submit enqueues an externally-originated command (control API) as if
// the user had spoken it after a wake phrase.
func (s *Session) Submit(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		return false
	}
	s.turnStarted()
	select {
	case s.commands <- command:
		return true
	default:
		s.turnFinished()
		return false
	}
}

// Subscribe returns a live event feed and its cancel function.
func (s *Session) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

func (s *Session) State() State {
	s.mu.RLock()
	active, suppressed := s.active, s.suppressed
	s.mu.RUnlock()

	st := State{
		Active:     active,
		Suppressed: suppressed,
		Memory:     s.deps.Engine.Window().Snapshot(),
	}
	if track, ok := s.deps.Music.Current(); ok {
		st.CurrentTrack = track
	}
	st.OrderStatus = s.deps.Delivery.Order().Status
	return st
}

// handleInput applies suppression, wake detection, and enqueueing for one
// captured utterance. Runs on the listener goroutine; anything slow is
// deferred to the worker.
func (s *Session) handleInput(ctx context.Context, text string) {
	trimmed := strings.ToLower(strings.TrimSpace(text))

	s.mu.Lock()
	if s.suppressed {
		if trimmed == unsuppressTrigger {
			s.suppressed = false
			s.mu.Unlock()
			s.respond(ctx, "suppression", fmt.Sprintf("다시 듣겠습니다, %s.", s.deps.Honorific))
			return
		}
		s.mu.Unlock()
		return
	}
	active := s.active
	s.mu.Unlock()

	if active && trimmed == suppressTrigger {
		s.mu.Lock()
		s.suppressed = true
		s.mu.Unlock()
		s.respond(ctx, "suppression", fmt.Sprintf("알겠습니다, 잠시 쉬겠습니다. %s로 깨워주세요.", unsuppressTrigger))
		return
	}

	if active {
		s.enqueue(text)
		return
	}

	result := s.deps.Wake.Detect(text)
	if !result.Matched {
		return
	}
	s.deps.Metrics.WakeDetections.Inc()
	s.setActive(true)

	if result.HasCommand() {
		s.enqueue(result.Remainder)
		return
	}

	// Wake with no command: acknowledge, then give the user a longer
	// window to speak.
	s.respond(ctx, "wake", fmt.Sprintf("네, 말씀하세요, %s.", s.deps.Honorific))
	command, err := s.deps.Input.Capture(ctx, s.deps.SecondCaptureDur)
	if err != nil || len([]rune(strings.TrimSpace(command))) < 2 {
		return
	}
	s.enqueue(command)
}

func (s *Session) enqueue(command string) {
	s.turnStarted()
	select {
	case s.commands <- strings.TrimSpace(command):
	default:
		s.turnFinished()
		log.Printf("orion: command queue full, dropping %q", command)
	}
}

func (s *Session) turnStarted() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

func (s *Session) turnFinished() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}

// waitTurnIdle blocks until every enqueued command has been handled and
// spoken, keeping the microphone closed while the assistant talks.
func (s *Session) waitTurnIdle(ctx context.Context) error {
	for {
		s.mu.RLock()
		idle := s.inFlight == 0
		s.mu.RUnlock()
		if idle {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func (s *Session) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case command := <-s.commands:
			s.handleCommand(ctx, command)
			s.turnFinished()
		}
	}
}

func (s *Session) handleCommand(ctx context.Context, command string) {
	s.events.publish(Event{Type: "command", Text: command})

	if s.deps.Describer != nil && s.deps.CaptureScreen != nil {
		trimmed := strings.ToLower(strings.TrimSpace(command))
		if trimmed == visionArmTrigger {
			s.mu.Lock()
			s.visionArmed = true
			s.mu.Unlock()
			s.respond(ctx, "vision", fmt.Sprintf("다음 질문에 화면을 함께 보겠습니다, %s.", s.deps.Honorific))
			return
		}
		// Arming applies to exactly the next command.
		s.mu.Lock()
		armed := s.visionArmed
		s.visionArmed = false
		s.mu.Unlock()
		if armed || containsAny(command, visionKeywords) {
			s.handleVision(ctx, command)
			return
		}
	}

	routed := s.deps.Router.Route(command)
	s.deps.Metrics.Turns.WithLabelValues(string(routed.Kind)).Inc()

	switch routed.Kind {
	case intent.KindExit:
		s.deps.Music.Stop()
		s.setActive(false)
		s.respond(ctx, "exit", fmt.Sprintf("작동을 중지하겠습니다. 안녕히 가세요, %s.", s.deps.Honorific))

	case intent.KindPlayMusic:
		if s.deps.Music.Play(routed.Arg) {
			s.respond(ctx, "music", fmt.Sprintf("%s 재생하겠습니다, %s.", routed.Arg, s.deps.Honorific))
		} else {
			s.respond(ctx, "music", fmt.Sprintf("%s 파일을 찾을 수 없습니다, %s.", routed.Arg, s.deps.Honorific))
		}

	case intent.KindStopMusic:
		s.deps.Music.Stop()
		s.respond(ctx, "music", fmt.Sprintf("음악을 중지했습니다, %s.", s.deps.Honorific))

	case intent.KindVolumeUp:
		v := s.deps.Music.AdjustVolume(volumeStep)
		s.respond(ctx, "music", fmt.Sprintf("볼륨을 높였습니다. 현재 %.0f%%입니다.", v*100))

	case intent.KindVolumeDown:
		v := s.deps.Music.AdjustVolume(-volumeStep)
		s.respond(ctx, "music", fmt.Sprintf("볼륨을 낮췄습니다. 현재 %.0f%%입니다.", v*100))

	case intent.KindCancelDelivery:
		s.respond(ctx, "delivery", s.deps.Delivery.Cancel())

	case intent.KindDeliveryOrder:
		s.respond(ctx, "delivery", s.deps.Delivery.ProcessCommand(ctx, routed.Arg))

	case intent.KindCalendarQuery:
		s.respond(ctx, "calendar", s.deps.Calendar.Answer(ctx, routed.Arg))

	default:
		answer, committed := s.deps.Engine.Respond(ctx, routed.Arg)
		// A failed turn answers with the apology and stays out of the
		// archive.
		if committed {
			s.archiveTurn(ctx, "user", routed.Arg)
			s.archiveTurn(ctx, "assistant", answer)
		}
		s.respond(ctx, "chat", answer)
	}
}

func (s *Session) handleVision(ctx context.Context, command string) {
	img, err := s.deps.CaptureScreen(ctx)
	if err != nil {
		log.Printf("orion: screen capture failed: %v", err)
		s.deps.Metrics.CapabilityErrors.WithLabelValues("vision", "permanent").Inc()
		s.respond(ctx, "vision", fmt.Sprintf("화면을 캡처하지 못했습니다, %s.", s.deps.Honorific))
		return
	}

	prompt := fmt.Sprintf("이 이미지를 보고 한 문장으로 답해줘. 질문: %s", command)
	answer, err := s.deps.Describer.Describe(ctx, img, prompt)
	if err != nil {
		log.Printf("orion: vision describe failed: %v", err)
		s.deps.Metrics.CapabilityErrors.WithLabelValues("vision", "transient").Inc()
		s.respond(ctx, "vision", fmt.Sprintf("죄송합니다 %s, 화면 분석에 실패했습니다.", s.deps.Honorific))
		return
	}
	s.respond(ctx, "vision", answer)
}

// respond delivers one assistant sentence over every output channel:
// desktop notification, voice, and the event feed.
func (s *Session) respond(ctx context.Context, kind, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.events.publish(Event{Type: kind, Text: text})
	s.deps.Notifier.Show(s.deps.AssistantName, text)

	start := time.Now()
	if err := s.deps.Speaker.Speak(ctx, text); err != nil {
		log.Printf("orion: speech failed: %v", err)
		s.deps.Metrics.CapabilityErrors.WithLabelValues("tts", "transient").Inc()
		return
	}
	s.deps.Metrics.ObserveSpeakLatency(time.Since(start))
}

// archiveTurn writes a committed turn to the durable store, redacting PII
// first. Best-effort: a store failure is logged, never surfaced.
func (s *Session) archiveTurn(ctx context.Context, role, text string) {
	if s.deps.Store == nil || strings.TrimSpace(text) == "" {
		return
	}
	redacted, changed := policy.RedactPII(text)
	err := s.deps.Store.SaveTurn(ctx, memory.TurnRecord{
		Role:        role,
		Content:     redacted,
		PIIRedacted: changed,
	})
	if err != nil {
		log.Printf("orion: archive turn failed: %v", err)
	}
}

func (s *Session) setActive(active bool) {
	s.mu.Lock()
	s.active = active
	if !active {
		s.suppressed = false
	}
	s.mu.Unlock()

	if active {
		s.deps.Metrics.SessionActive.Set(1)
	} else {
		s.deps.Metrics.SessionActive.Set(0)
	}
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
