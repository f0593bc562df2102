package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"AUDIO_MICROPHONE_DEVICE", "AUDIO_PLAYBACK_DEVICE", "WAKEWORD",
		"WAKEWORD_THRESHOLD", "WAKEWORD_PROVIDER", "STT_PROVIDER",
		"LLM_PROVIDER", "RETRY_BUDGET",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Wakeword != "computer" {
		t.Errorf("expected default wakeword 'computer', got %q", cfg.Wakeword)
	}
	if cfg.WakewordThreshold != 250 {
		t.Errorf("expected default threshold 250, got %d", cfg.WakewordThreshold)
	}
	if cfg.RetryBudget != 3 {
		t.Errorf("expected default retry budget 3, got %d", cfg.RetryBudget)
	}
	if cfg.SampleRate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", cfg.SampleRate)
	}
	if cfg.AudioMicrophoneDevice != -1 {
		t.Errorf("expected auto-default mic index -1, got %d", cfg.AudioMicrophoneDevice)
	}
}

func TestWakewordSensitivity(t *testing.T) {
	cfg := &Config{WakewordThreshold: 250}
	if got := cfg.WakewordSensitivity(); got != 0.5 {
		t.Errorf("expected sensitivity 0.5, got %v", got)
	}

	cfg.WakewordThreshold = 1000
	if got := cfg.WakewordSensitivity(); got != 1 {
		t.Errorf("expected sensitivity clamped to 1, got %v", got)
	}

	cfg.WakewordThreshold = -10
	if got := cfg.WakewordSensitivity(); got != 0 {
		t.Errorf("expected sensitivity clamped to 0, got %v", got)
	}
}

func TestWebsocketURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:8000":  "ws://localhost:8000",
		"https://api.example.com": "wss://api.example.com",
		"ws://already":            "ws://already",
	}
	for in, want := range cases {
		if got := WebsocketURL(in); got != want {
			t.Errorf("WebsocketURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("RETRY_BUDGET", "not-a-number")
	cfg := Load()
	if cfg.RetryBudget != 3 {
		t.Errorf("expected fallback to default 3 on unparsable env value, got %d", cfg.RetryBudget)
	}
}
