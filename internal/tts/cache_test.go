package tts

import (
	"path/filepath"
	"testing"
)

func TestWriteReadClipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp3")

	want := Clip{Samples: []int16{1, -2, 3, -4, 32767, -32768}, SampleRate: 22050}
	if err := writeClip(path, want); err != nil {
		t.Fatalf("writeClip failed: %v", err)
	}

	got, err := readClip(path)
	if err != nil {
		t.Fatalf("readClip failed: %v", err)
	}
	if got.SampleRate != want.SampleRate {
		t.Errorf("expected sample rate %d, got %d", want.SampleRate, got.SampleRate)
	}
	if len(got.Samples) != len(want.Samples) {
		t.Fatalf("expected %d samples, got %d", len(want.Samples), len(got.Samples))
	}
	for i := range want.Samples {
		if got.Samples[i] != want.Samples[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want.Samples[i], got.Samples[i])
		}
	}
}

func TestReadClipMissingFileErrors(t *testing.T) {
	if _, err := readClip(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("expected an error for a missing cache file")
	}
}
