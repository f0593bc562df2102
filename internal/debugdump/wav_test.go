package debugdump

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	wav := EncodeWAV(pcm, 44100)

	if !bytes.HasPrefix(wav, []byte("RIFF")) {
		t.Error("expected RIFF prefix")
	}
	if !bytes.Contains(wav, []byte("WAVE")) {
		t.Error("expected WAVE format identifier")
	}
	if want := 44 + len(pcm); len(wav) != want {
		t.Errorf("expected length %d, got %d", want, len(wav))
	}
}

func TestRecorderDisabledIsNoOp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	r := NewRecorder(dir, false)

	path, err := r.SaveClip(16000, []int16{1, 2, 3})
	if err != nil {
		t.Fatalf("SaveClip: %v", err)
	}
	if path != "" {
		t.Errorf("expected no path from a disabled recorder, got %q", path)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("expected a disabled recorder to never create its directory")
	}
}

func TestRecorderEnabledWritesFile(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir, true)

	path, err := r.SaveClip(16000, []int16{100, -100, 200})
	if err != nil {
		t.Fatalf("SaveClip: %v", err)
	}
	if path == "" {
		t.Fatal("expected a non-empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Error("expected the written file to start with a RIFF header")
	}
}
