package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/gunhee-dev/orion/internal/brain"
	"github.com/gunhee-dev/orion/internal/calendar"
	"github.com/gunhee-dev/orion/internal/capture"
	"github.com/gunhee-dev/orion/internal/config"
	"github.com/gunhee-dev/orion/internal/convo"
	"github.com/gunhee-dev/orion/internal/delivery"
	"github.com/gunhee-dev/orion/internal/httpapi"
	"github.com/gunhee-dev/orion/internal/intent"
	"github.com/gunhee-dev/orion/internal/memory"
	"github.com/gunhee-dev/orion/internal/music"
	"github.com/gunhee-dev/orion/internal/notify"
	"github.com/gunhee-dev/orion/internal/observability"
	"github.com/gunhee-dev/orion/internal/orion"
	"github.com/gunhee-dev/orion/internal/search"
	"github.com/gunhee-dev/orion/internal/vision"
	"github.com/gunhee-dev/orion/internal/voiceout"
	"github.com/gunhee-dev/orion/internal/wake"
)

func main() {
	var (
		envFile   string
		inputMode string
		bindAddr  string
	)
	pflag.StringVar(&envFile, "env-file", "", "load environment from this file before reading config")
	pflag.StringVar(&inputMode, "input", "", "override INPUT_MODE (text|audio|auto)")
	pflag.StringVar(&bindAddr, "bind", "", "override APP_BIND_ADDR")
	pflag.Parse()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Fatalf("load env file %s: %v", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if inputMode != "" {
		cfg.InputMode = inputMode
	}
	if bindAddr != "" {
		cfg.BindAddr = bindAddr
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := memory.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("memory store init failed: %v", err)
	}
	defer store.Close()

	adapter, err := brain.NewAdapter(brain.Config{
		Mode:   cfg.ChatMode,
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.ChatModel,
	})
	if err != nil {
		log.Fatalf("chat adapter init failed: %v", err)
	}

	var augmenter *search.Augmenter
	if cfg.TavilyAPIKey != "" {
		augmenter = search.NewAugmenter(search.NewTavilyClient(cfg.TavilyAPIKey))
	} else {
		log.Printf("search: no TAVILY_API_KEY, live context disabled")
	}

	persona := convo.DefaultPersona()
	persona.AssistantName = cfg.AssistantName
	persona.OwnerName = cfg.OwnerName
	persona.Honorific = cfg.Honorific
	persona.ProfilePath = cfg.ProfilePath
	engine := convo.NewEngine(adapter, augmenter, convo.NewWindow(), persona)

	cal := calendar.NewAdapter(adapter, cfg.Honorific)

	deliveryCfg, err := delivery.LoadConfig(cfg.DeliveryConfig)
	if err != nil {
		log.Fatalf("delivery config: %v", err)
	}
	automator := delivery.NewAutomator(
		deliveryCfg,
		delivery.Credentials{ID: cfg.DeliveryID, Password: cfg.DeliveryPW},
		delivery.NewChromePage,
		cfg.Honorific,
	)

	musicSession := music.NewSession(music.NewBeepPlayer(), cfg.MusicDir).
		WithVolumes(cfg.MusicVolume, cfg.DuckedVolume)

	var speaker orion.Speaker
	if cfg.ElevenLabsAPIKey != "" {
		speaker = voiceout.NewSpeaker(
			voiceout.NewElevenLabsClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID),
			voiceout.NewBeepAudioPlayer(),
			musicSession,
			adapter,
			cfg.OwnerName,
			cfg.Honorific,
		).WithNameAliases("Gunhee", "Geonhee", "Keonhee")
		log.Printf("voice output: elevenlabs (%s)", cfg.ElevenLabsVoiceID)
	} else {
		speaker = voiceout.NewMockSpeaker()
		log.Printf("voice output: mock (no ELEVENLABS_API_KEY)")
	}

	input := buildInputStrategy(cfg)

	var describer vision.Describer
	if cfg.OpenAIAPIKey != "" {
		describer = vision.NewOpenAIDescriber(cfg.OpenAIAPIKey, cfg.VisionModel)
	} else {
		describer = vision.MockDescriber{}
	}

	if cfg.GestureEnabled {
		// The gesture controller needs a hand-pose detector backend, which
		// this build does not bundle. See internal/gesture for the contract.
		log.Printf("gesture: enabled but no detector backend is available, ignoring")
	}

	table, err := intent.LoadTable(cfg.IntentTablePath)
	if err != nil {
		log.Fatalf("intent table: %v", err)
	}

	session := orion.NewSession(orion.Deps{
		Wake:             wake.New(),
		Input:            input,
		Router:           intent.NewRouter(table),
		Engine:           engine,
		Calendar:         cal,
		Delivery:         automator,
		Music:            musicSession,
		Speaker:          speaker,
		Notifier:         notify.NewDesktopNotifier(),
		Store:            store,
		Metrics:          metrics,
		Describer:        describer,
		CaptureScreen:    vision.CaptureScreen,
		AssistantName:    cfg.AssistantName,
		Honorific:        cfg.Honorific,
		FirstCaptureDur:  cfg.FirstCaptureDur,
		SecondCaptureDur: cfg.SecondCaptureDur,
	})

	api := httpapi.New(cfg, session)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	go func() {
		log.Printf("control api listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sessionDone := make(chan error, 1)
	go func() {
		sessionDone <- session.Run(runCtx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Printf("shutdown signal received")
	case err := <-sessionDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("session ended: %v", err)
		} else {
			log.Printf("session ended")
		}
	}

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

// buildInputStrategy picks the capture backend. Audio needs both a working
// microphone and a transcription key; "auto" degrades to the keyboard when
// either is missing.
func buildInputStrategy(cfg config.Config) capture.Strategy {
	mode := strings.ToLower(strings.TrimSpace(cfg.InputMode))

	tryAudio := func(fatal bool) capture.Strategy {
		if cfg.OpenAIAPIKey == "" {
			if fatal {
				log.Fatalf("INPUT_MODE=audio but OPENAI_API_KEY is not set")
			}
			return nil
		}
		recorder, err := capture.NewPortAudioRecorder()
		if err != nil {
			if fatal {
				log.Fatalf("microphone init failed: %v", err)
			}
			log.Printf("microphone unavailable: %v", err)
			return nil
		}
		transcriber := capture.NewOpenAITranscriber(cfg.OpenAIAPIKey, cfg.WhisperModel, cfg.SpeechLanguage)
		log.Printf("input: microphone (%s)", cfg.WhisperModel)
		return capture.NewAudioStrategy(recorder, transcriber).WithSilenceThreshold(cfg.SilenceRMS)
	}

	switch mode {
	case "audio":
		return tryAudio(true)
	case "text":
		log.Printf("input: keyboard")
		return capture.NewTextStrategy(os.Stdin)
	default: // auto
		if s := tryAudio(false); s != nil {
			return s
		}
		log.Printf("input: keyboard (audio unavailable)")
		return capture.NewTextStrategy(os.Stdin)
	}
}
