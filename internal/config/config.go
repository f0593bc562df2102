// Package config loads the voice assistant's configuration from the
// environment (and an optional .env file), mirroring the env-var surface
// documented for the voice core.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// WakewordProvider selects a wake-word detector backend.
type WakewordProvider string

const (
	WakewordPicovoice        WakewordProvider = "picovoice"
	WakewordSpeechRecognition WakewordProvider = "speech-recognition"
	WakewordOpenWakeWord      WakewordProvider = "open-wakeword"
	WakewordWhisper           WakewordProvider = "whisper"
	WakewordSTTProviderVA     WakewordProvider = "stt-provider-va"
)

// Config holds every environment-derived setting for the voice core.
type Config struct {
	AudioMicrophoneDevice int
	AudioPlaybackDevice   int
	SampleRate            int
	Channels              int
	FrameSamples          int

	Wakeword          string
	WakewordThreshold int
	WakewordProvider  WakewordProvider
	PicovoiceAccessKey string

	STTProvider string
	STTEndpoint string

	TTSProvider string
	TTSEndpoint string

	LLMProvider      string
	LLMEndpoint      string
	LLMProviderModel string

	// RetryBudget is the consecutive failed-understanding cycle count (N)
	// before the state machine gives up and returns to wake-word waiting.
	// Default 3, per the Open Question decided in SPEC_FULL.md.
	RetryBudget int

	// LEDHost is the Wiz bulb's IP address, defaulting to the address
	// hardcoded in the reference implementation.
	LEDHost string

	// RecordDebugAudio enables the optional recording_YYMMDD-HHMM.wav debug
	// dumps of every synthesized reply. Off by default.
	RecordDebugAudio bool

	LogLevel string
}

// Load reads a .env file (if present) and then builds a Config from the
// process environment, applying the documented defaults for anything
// unset. Loading .env is best-effort: a missing file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AudioMicrophoneDevice: envInt("AUDIO_MICROPHONE_DEVICE", -1),
		AudioPlaybackDevice:   envInt("AUDIO_PLAYBACK_DEVICE", -1),
		SampleRate:            16000,
		Channels:              1,
		FrameSamples:          1024,

		Wakeword:            envString("WAKEWORD", "computer"),
		WakewordThreshold:   envInt("WAKEWORD_THRESHOLD", 250),
		WakewordProvider:    WakewordProvider(envString("WAKEWORD_PROVIDER", string(WakewordPicovoice))),
		PicovoiceAccessKey:  envString("PICOVOICE_ACCESS_KEY", ""),

		STTProvider: envString("STT_PROVIDER", "whisper"),
		STTEndpoint: envString("STT_ENDPOINT", "http://localhost:8000"),

		TTSProvider: envString("TTS_PROVIDER", "openedai"),
		TTSEndpoint: envString("TTS_ENDPOINT", "http://localhost:8001"),

		LLMProvider:      envString("LLM_PROVIDER", "ollama"),
		LLMEndpoint:      envString("LLM_ENDPOINT", "http://localhost:11434"),
		LLMProviderModel: envString("LLM_PROVIDER_MODEL", "llama3.2"),

		RetryBudget:      envInt("RETRY_BUDGET", 3),
		LEDHost:          envString("LED_HOST", "192.168.1.159"),
		RecordDebugAudio: envString("RECORD_DEBUG_AUDIO", "") == "1",
		LogLevel:         envString("LOG_LEVEL", "info"),
	}
}

// WakewordSensitivity maps WAKEWORD_THRESHOLD (an integer, documented
// default 250) into the [0,1] sensitivity range keyword-spotter backends
// expect.
func (c *Config) WakewordSensitivity() float64 {
	s := float64(c.WakewordThreshold) / 500.0
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// WebsocketURL derives a ws(s):// URL from an http(s):// endpoint, per the
// documented "WS URL derived by scheme swap" rule.
func WebsocketURL(httpEndpoint string) string {
	switch {
	case strings.HasPrefix(httpEndpoint, "https://"):
		return "wss://" + strings.TrimPrefix(httpEndpoint, "https://")
	case strings.HasPrefix(httpEndpoint, "http://"):
		return "ws://" + strings.TrimPrefix(httpEndpoint, "http://")
	default:
		return httpEndpoint
	}
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
