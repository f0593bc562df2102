package tts

import (
	"encoding/binary"
	"fmt"
	"os"
)

// writeClip and readClip persist a Clip under the content-addressed cache
// path using a minimal container: a 4-byte little-endian sample rate
// header followed by raw PCM16 samples. The queue never re-encodes or
// transcodes what the remote synthesizer returned, so the on-disk bytes
// are whatever container the synthesizer produced; this package only adds
// the sample-rate header needed to play them back without re-querying it.
func writeClip(path string, clip Clip) error {
	buf := make([]byte, 4+len(clip.Samples)*2)
	binary.LittleEndian.PutUint32(buf[:4], uint32(clip.SampleRate))
	for i, s := range clip.Samples {
		binary.LittleEndian.PutUint16(buf[4+i*2:], uint16(s))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("tts: write clip %s: %w", path, err)
	}
	return nil
}

func readClip(path string) (Clip, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Clip{}, err
	}
	if len(buf) < 4 {
		return Clip{}, fmt.Errorf("tts: clip %s too short", path)
	}
	sampleRate := int(binary.LittleEndian.Uint32(buf[:4]))
	samples := bytesToInt16(buf[4:])
	return Clip{Samples: samples, SampleRate: sampleRate}, nil
}
