// Package debugdump implements the voice core's optional debug-recording
// feature: every synthesized reply can be dumped to a timestamped WAV file
// alongside the content-addressed TTS cache, for offline inspection.
package debugdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EncodeWAV wraps 16-bit little-endian mono PCM in a minimal RIFF/WAVE
// container.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	buf := new(bytes.Buffer)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// Recorder writes timestamped WAV dumps to a directory. A disabled Recorder
// is a no-op, so callers can wire it unconditionally and gate it on config.
type Recorder struct {
	dir     string
	enabled bool
}

// NewRecorder builds a Recorder that writes into dir when enabled is true.
func NewRecorder(dir string, enabled bool) *Recorder {
	return &Recorder{dir: dir, enabled: enabled}
}

// SaveClip writes samples as a timestamped recording_YYMMDD-HHMM.wav file
// and returns its path. Disabled recorders return ("", nil) without
// touching the filesystem.
func (r *Recorder) SaveClip(sampleRate int, samples []int16) (string, error) {
	if !r.enabled {
		return "", nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("debugdump: create dir: %w", err)
	}

	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		pcm[2*i] = byte(uint16(s))
		pcm[2*i+1] = byte(uint16(s) >> 8)
	}

	name := fmt.Sprintf("recording_%s.wav", time.Now().Format("060102-1504"))
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, EncodeWAV(pcm, sampleRate), 0o644); err != nil {
		return "", fmt.Errorf("debugdump: write file: %w", err)
	}
	return path, nil
}
