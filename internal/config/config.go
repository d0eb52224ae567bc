package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the assistant.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	// Capture.
	InputMode        string // "text", "audio", or "auto"
	SilenceRMS       float64
	FirstCaptureDur  time.Duration
	SecondCaptureDur time.Duration

	// Chat and search.
	ChatMode     string // "auto", "openai", or "mock"
	OpenAIAPIKey string
	ChatModel    string
	TavilyAPIKey string

	// Voice output.
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	WhisperModel      string
	SpeechLanguage    string

	// Persona.
	AssistantName string
	OwnerName     string
	Honorific     string
	ProfilePath   string

	// Capabilities.
	MusicDir        string
	MusicVolume     float64
	DuckedVolume    float64
	IntentTablePath string
	DeliveryConfig  string
	DeliveryID      string
	DeliveryPW      string
	VisionModel     string
	GestureEnabled  bool

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	home, _ := os.UserHomeDir()

	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8090"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "orion"),
		AllowAnyOrigin:   false,

		InputMode:        envOrDefault("INPUT_MODE", "auto"),
		SilenceRMS:       0.015,
		FirstCaptureDur:  4 * time.Second,
		SecondCaptureDur: 8 * time.Second,

		ChatMode:     envOrDefault("CHAT_MODE", "auto"),
		OpenAIAPIKey: stringsTrimSpace("OPENAI_API_KEY"),
		ChatModel:    envOrDefault("CHAT_MODEL", "gpt-4o-mini"),
		TavilyAPIKey: stringsTrimSpace("TAVILY_API_KEY"),

		ElevenLabsAPIKey:  stringsTrimSpace("ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID: envOrDefault("ELEVENLABS_VOICE_ID", "pNInz6obpgDQGcFmaJgB"),
		WhisperModel:      envOrDefault("WHISPER_MODEL", "whisper-1"),
		SpeechLanguage:    envOrDefault("SPEECH_LANGUAGE", "ko"),

		AssistantName: envOrDefault("ASSISTANT_NAME", "Orion"),
		OwnerName:     envOrDefault("OWNER_NAME", "건희"),
		Honorific:     envOrDefault("OWNER_HONORIFIC", "sir"),
		ProfilePath:   envOrDefault("PROFILE_PATH", filepath.Join(home, ".orion", "profile.txt")),

		MusicDir:        envOrDefault("MUSIC_DIR", filepath.Join(home, "Music", "orion")),
		MusicVolume:     0.2,
		DuckedVolume:    0.05,
		IntentTablePath: stringsTrimSpace("INTENT_TABLE_PATH"),
		DeliveryConfig:  envOrDefault("DELIVERY_CONFIG", filepath.Join(home, ".orion", "delivery.json")),
		DeliveryID:      stringsTrimSpace("DELIVERY_ID"),
		DeliveryPW:      stringsTrimSpace("DELIVERY_PW"),
		VisionModel:     envOrDefault("VISION_MODEL", "gpt-4o-mini"),
		GestureEnabled:  false,

		DatabaseURL: stringsTrimSpace("DATABASE_URL"),

		ShutdownTimeout: 15 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.FirstCaptureDur, err = durationFromEnv("FIRST_CAPTURE_DURATION", cfg.FirstCaptureDur)
	if err != nil {
		return Config{}, err
	}
	cfg.SecondCaptureDur, err = durationFromEnv("SECOND_CAPTURE_DURATION", cfg.SecondCaptureDur)
	if err != nil {
		return Config{}, err
	}
	cfg.SilenceRMS, err = floatFromEnv("SILENCE_RMS_THRESHOLD", cfg.SilenceRMS)
	if err != nil {
		return Config{}, err
	}
	cfg.MusicVolume, err = floatFromEnv("MUSIC_VOLUME", cfg.MusicVolume)
	if err != nil {
		return Config{}, err
	}
	cfg.DuckedVolume, err = floatFromEnv("MUSIC_DUCKED_VOLUME", cfg.DuckedVolume)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.GestureEnabled, err = boolFromEnv("GESTURE_ENABLED", cfg.GestureEnabled)
	if err != nil {
		return Config{}, err
	}

	switch cfg.InputMode {
	case "text", "audio", "auto":
	default:
		return Config{}, fmt.Errorf("INPUT_MODE must be one of text, audio, auto")
	}
	switch cfg.ChatMode {
	case "auto", "openai", "mock":
	default:
		return Config{}, fmt.Errorf("CHAT_MODE must be one of auto, openai, mock")
	}
	if cfg.SilenceRMS < 0 || cfg.SilenceRMS >= 1 {
		return Config{}, fmt.Errorf("SILENCE_RMS_THRESHOLD must be in [0, 1)")
	}
	if cfg.FirstCaptureDur <= 0 || cfg.SecondCaptureDur <= 0 {
		return Config{}, fmt.Errorf("capture durations must be positive")
	}
	if cfg.SecondCaptureDur < cfg.FirstCaptureDur {
		return Config{}, fmt.Errorf("SECOND_CAPTURE_DURATION must be at least FIRST_CAPTURE_DURATION")
	}
	if cfg.MusicVolume < 0 || cfg.MusicVolume > 1 || cfg.DuckedVolume < 0 || cfg.DuckedVolume > cfg.MusicVolume {
		return Config{}, fmt.Errorf("music volumes must satisfy 0 <= MUSIC_DUCKED_VOLUME <= MUSIC_VOLUME <= 1")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
