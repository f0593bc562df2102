// Package wakeword implements the three wake-word backend policies: a
// keyword-spotter, a speech-recognizer substring matcher, and a VAD-gated
// STT matcher, all behind one Detector contract.
package wakeword

import (
	"context"
	"strings"
	"time"

	"github.com/sprach-assistent/voxd/internal/applog"
	"github.com/sprach-assistent/voxd/internal/audiodevice"
	"github.com/sprach-assistent/voxd/internal/stt"
	"github.com/sprach-assistent/voxd/internal/vad"
)

// Provider names, matching spec.md's WAKEWORD_PROVIDER values.
const (
	ProviderKeywordSpotter    = "picovoice"
	ProviderSpeechRecognition = "speech-recognition"
	ProviderOpenWakeWord      = "open-wakeword"
	ProviderWhisper           = "whisper"
	ProviderSTTVoiceActivated = "stt-provider-va"
)

// Detector resolves once the configured keyword has been heard in the
// live mic stream. It must not consume the utterance that follows; the
// caller starts its own RecordStream afterward.
type Detector interface {
	ListenForWakeWord(ctx context.Context) error
}

// Sensitivity maps WAKEWORD_THRESHOLD into [0,1] the way spec.md §6
// documents (threshold/500).
func Sensitivity(threshold int) float64 {
	s := float64(threshold) / 500.0
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// sensitivityToRMSThreshold maps a [0,1] sensitivity onto an RMS gate:
// higher sensitivity triggers on quieter speech.
func sensitivityToRMSThreshold(sensitivity float64) float64 {
	return 0.12 - sensitivity*0.10
}

// KeywordSpotterDetector is the Porcupine-class backend. No per-keyword
// acoustic model ships in this corpus (no pack example or ecosystem
// library binds Porcupine from Go), so it is a best-effort placeholder:
// it loads synchronously (Reset, below) and gates on confirmed voice
// energy at the configured sensitivity, same contract shape a real
// per-keyword engine would expose.
type KeywordSpotterDetector struct {
	device *audiodevice.Device
	vad    *vad.RMSVAD
}

// NewKeywordSpotterDetector builds the detector; model "load" is the VAD
// reset below and completes synchronously before return.
func NewKeywordSpotterDetector(device *audiodevice.Device, sensitivity float64) *KeywordSpotterDetector {
	d := &KeywordSpotterDetector{
		device: device,
		vad:    vad.New(sensitivityToRMSThreshold(sensitivity), 300*time.Millisecond),
	}
	d.vad.Reset()
	return d
}

func (d *KeywordSpotterDetector) ListenForWakeWord(ctx context.Context) error {
	defer d.device.StopRecording()
	frames := d.device.RecordStream(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				return ctx.Err()
			}
			if ev := d.vad.Process(frame.Samples); ev != nil && ev.Type == vad.SpeechStart {
				return nil
			}
		}
	}
}

// SpeechRecognizerDetector recognizes short utterances continuously and
// substring-matches the lowercased keyword against the transcript.
type SpeechRecognizerDetector struct {
	device       *audiodevice.Device
	sttClient    *stt.Client
	keyword      string
	listenWindow time.Duration
	log          applog.Logger
}

func NewSpeechRecognizerDetector(device *audiodevice.Device, sttClient *stt.Client, keyword string, log applog.Logger) *SpeechRecognizerDetector {
	if log == nil {
		log = applog.NoOpLogger{}
	}
	return &SpeechRecognizerDetector{
		device:       device,
		sttClient:    sttClient,
		keyword:      strings.ToLower(keyword),
		listenWindow: 4 * time.Second,
		log:          log,
	}
}

func (d *SpeechRecognizerDetector) ListenForWakeWord(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if matchKeyword(ctx, d.device, d.sttClient, d.keyword, d.listenWindow) {
			return nil
		}
	}
}

// VADSTTDetector gates on confirmed speech energy before opening a short
// STT session, then substring-matches the keyword; otherwise it loops.
type VADSTTDetector struct {
	device       *audiodevice.Device
	sttClient    *stt.Client
	keyword      string
	vad          *vad.RMSVAD
	listenWindow time.Duration
	log          applog.Logger
}

func NewVADSTTDetector(device *audiodevice.Device, sttClient *stt.Client, keyword string, sensitivity float64, log applog.Logger) *VADSTTDetector {
	if log == nil {
		log = applog.NoOpLogger{}
	}
	return &VADSTTDetector{
		device:       device,
		sttClient:    sttClient,
		keyword:      strings.ToLower(keyword),
		vad:          vad.New(sensitivityToRMSThreshold(sensitivity), 300*time.Millisecond),
		listenWindow: 4 * time.Second,
		log:          log,
	}
}

func (d *VADSTTDetector) ListenForWakeWord(ctx context.Context) error {
	frames := d.device.RecordStream(ctx)
	defer d.device.StopRecording()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				return ctx.Err()
			}
			ev := d.vad.Process(frame.Samples)
			if ev == nil || ev.Type != vad.SpeechStart {
				continue
			}
			d.device.StopRecording()
			if matchKeyword(ctx, d.device, d.sttClient, d.keyword, d.listenWindow) {
				return nil
			}
			frames = d.device.RecordStream(ctx)
		}
	}
}

// matchKeyword opens a short STT session and substring-matches keyword
// against the accumulated transcript, case-insensitively.
func matchKeyword(ctx context.Context, device *audiodevice.Device, client *stt.Client, keyword string, window time.Duration) bool {
	winCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()
	defer device.StopRecording()

	audio := device.RecordStream(winCtx)
	transcripts := client.TranscribeStream(winCtx, audio, nil, nil)

	var full strings.Builder
	for delta := range transcripts {
		full.WriteString(delta)
		if strings.Contains(strings.ToLower(full.String()), keyword) {
			return true
		}
	}
	return false
}
