package tts

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sprach-assistent/voxd/internal/applog"
	"github.com/sprach-assistent/voxd/internal/audiodevice"
	"github.com/sprach-assistent/voxd/internal/debugdump"
)

// Player is the subset of the audio device the queue needs to push clips
// to the speaker and to drain playback on cancellation.
type Player interface {
	Play(sampleRate int, samples []int16)
	StopPlayback()
	WaitUntilPlaybackFinished()
}

// Queue is the sentence-granular FIFO TTS worker: speak() posts text,
// a single worker synthesizes and hands each clip to the audio device in
// order. Cancellation is sentence-granular, not mid-sentence: set_stop
// drains the pending queue and halts playback at the next boundary.
type Queue struct {
	synth    Synthesizer
	player   Player
	log      applog.Logger
	cacheDir string
	debug    *debugdump.Recorder

	jobs    chan string
	stopped atomic.Bool
	busy    atomic.Bool
	wg      sync.WaitGroup

	doneMu sync.Mutex
	doneCh chan struct{}
}

// NewQueue starts the FIFO worker. cacheDir is where warm-cache clips are
// pre-rendered to disk.
func NewQueue(synth Synthesizer, player Player, cacheDir string, log applog.Logger) *Queue {
	if log == nil {
		log = applog.NoOpLogger{}
	}
	q := &Queue{
		synth:    synth,
		player:   player,
		log:      log,
		cacheDir: cacheDir,
		debug:    debugdump.NewRecorder(filepath.Join(cacheDir, "debug"), false),
		jobs:     make(chan string, 64),
		doneCh:   make(chan struct{}),
	}
	close(q.doneCh) // queue starts idle
	q.wg.Add(1)
	go q.run()
	return q
}

// SetDebugRecording enables or disables per-clip WAV dumps under
// <cacheDir>/debug. Disabled by default.
func (q *Queue) SetDebugRecording(enabled bool) {
	q.debug = debugdump.NewRecorder(filepath.Join(q.cacheDir, "debug"), enabled)
}

// Speak enqueues a sentence for synthesis and playback. A sentence
// submitted while the stop signal is set is dropped immediately rather
// than queued, so a pending stop can never be raced by a concurrent speak.
func (q *Queue) Speak(sentence string) {
	if sentence == "" || q.stopped.Load() {
		return
	}
	q.doneMu.Lock()
	select {
	case <-q.doneCh:
		q.doneCh = make(chan struct{})
	default:
	}
	q.doneMu.Unlock()

	select {
	case q.jobs <- sentence:
	default:
		q.log.Warn("tts queue full, dropping sentence")
	}
}

func (q *Queue) run() {
	defer q.wg.Done()
	for sentence := range q.jobs {
		if q.stopped.Load() {
			continue
		}
		q.busy.Store(true)
		q.synthesizeAndPlay(sentence)
		q.busy.Store(false)

		if len(q.jobs) == 0 {
			q.doneMu.Lock()
			select {
			case <-q.doneCh:
			default:
				close(q.doneCh)
			}
			q.doneMu.Unlock()
		}
	}
}

func (q *Queue) synthesizeAndPlay(sentence string) {
	clip, ok := q.cachedClip(sentence)
	if !ok {
		var err error
		clip, err = q.synth.Synthesize(context.Background(), sentence)
		if err != nil {
			q.log.Error("tts: synthesis failed", "err", err)
			return
		}
	}
	if q.stopped.Load() {
		return
	}
	if path, err := q.debug.SaveClip(clip.SampleRate, clip.Samples); err != nil {
		q.log.Warn("tts: debug recording failed", "err", err)
	} else if path != "" {
		q.log.Debug("tts: wrote debug recording", "path", path)
	}
	q.player.Play(clip.SampleRate, clip.Samples)
	q.player.WaitUntilPlaybackFinished()
}

// Render synthesizes sentence and writes the raw PCM16 clip to path,
// independent of the playback queue.
func (q *Queue) Render(ctx context.Context, sentence, path string) error {
	clip, err := q.synth.Synthesize(ctx, sentence)
	if err != nil {
		return fmt.Errorf("tts: render: %w", err)
	}
	return writeClip(path, clip)
}

// SetStopSignal drains pending sentences and halts playback at the next
// audio boundary.
func (q *Queue) SetStopSignal() {
	q.stopped.Store(true)
	for {
		select {
		case <-q.jobs:
		default:
			q.player.StopPlayback()
			return
		}
	}
}

// ClearStopSignal re-arms the worker so future Speak calls play again.
func (q *Queue) ClearStopSignal() {
	q.stopped.Store(false)
}

// WaitUntilDone returns when the queue is empty and nothing is being
// synthesized or played.
func (q *Queue) WaitUntilDone() {
	q.doneMu.Lock()
	ch := q.doneCh
	q.doneMu.Unlock()
	<-ch
}

// cacheFileName returns the content-addressed warm-cache path for sentence.
func (q *Queue) cacheFileName(sentence string) string {
	sum := md5.Sum([]byte(sentence))
	return filepath.Join(q.cacheDir, hex.EncodeToString(sum[:])[:8]+".mp3")
}

// cachedClip loads a pre-rendered clip from disk if present.
func (q *Queue) cachedClip(sentence string) (Clip, bool) {
	path := q.cacheFileName(sentence)
	clip, err := readClip(path)
	if err != nil {
		return Clip{}, false
	}
	return clip, true
}

// WarmCache pre-renders every phrase in corpus to the content-addressed
// cache path, skipping sentences already rendered.
func (q *Queue) WarmCache(ctx context.Context, corpus []string) error {
	if err := os.MkdirAll(q.cacheDir, 0o755); err != nil {
		return fmt.Errorf("tts: create cache dir: %w", err)
	}
	for _, sentence := range corpus {
		path := q.cacheFileName(sentence)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		clip, err := q.synth.Synthesize(ctx, sentence)
		if err != nil {
			q.log.Warn("tts: warm cache render failed", "sentence", sentence, "err", err)
			continue
		}
		if err := writeClip(path, clip); err != nil {
			q.log.Warn("tts: warm cache write failed", "sentence", sentence, "err", err)
		}
	}
	return nil
}

// audioDeviceAdapter lets *audiodevice.Device satisfy Player without the
// tts package importing audiodevice's full surface elsewhere.
var _ Player = (*audiodevice.Device)(nil)
