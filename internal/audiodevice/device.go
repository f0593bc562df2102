// Package audiodevice owns the process-wide microphone and speaker handles.
// It is the only package in the assistant that talks to malgo directly;
// every other component consumes audio through RecordStream/Play.
package audiodevice

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/sprach-assistent/voxd/internal/applog"
)

// Config describes the duplex device to open. MicIndex/PlaybackIndex of -1
// means "pick the device named exactly 'default'".
type Config struct {
	MicIndex      int
	PlaybackIndex int
	SampleRate    int
	Channels      int
	FrameSamples  int
}

// DefaultConfig matches the documented defaults: 16kHz mono, 1024-sample
// frames, device auto-selection.
func DefaultConfig() Config {
	return Config{
		MicIndex:      -1,
		PlaybackIndex: -1,
		SampleRate:    16000,
		Channels:      1,
		FrameSamples:  1024,
	}
}

// AudioFrame is a chunk of 16-bit PCM samples pulled from the capture ring.
type AudioFrame struct {
	Samples    []int16
	SampleRate int
}

// Device is the singleton audio handle. Capture and playback share one
// malgo duplex stream, mirroring how the reference agent keeps a single
// always-open device rather than opening/closing per clip; the playback
// "worker" is the same callback writing silence whenever its ring is
// empty. The device is opened once by Open and stays open until Close:
// StopPlayback only clears the playback ring, it does not close a stream,
// and Play never opens one.
type Device struct {
	cfg    Config
	log    applog.Logger
	mctx   *malgo.AllocatedContext
	device *malgo.Device

	captureRing *captureRing
	recording   atomic.Bool
	recvMu      sync.Mutex
	recvCh      chan AudioFrame
	recvStop    chan struct{}
	recvDone    chan struct{}

	playRing     *playbackRing
	playing      atomic.Bool
	playStop     atomic.Bool
	playFinished chan struct{}
}

// Open initializes the malgo context and starts the duplex device. The
// device runs for the lifetime of the process; callers use RecordStream
// and Play rather than opening/closing per use.
func Open(cfg Config, log applog.Logger) (*Device, error) {
	if log == nil {
		log = applog.NoOpLogger{}
	}

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("audiodevice: init context: %w", err)
	}

	d := &Device{
		cfg:          cfg,
		log:          log,
		mctx:         mctx,
		captureRing:  newCaptureRing(),
		playRing:     newPlaybackRing(),
		playFinished: make(chan struct{}, 1),
	}

	captureInfos, err := mctx.Devices(malgo.Capture)
	if err != nil {
		mctx.Uninit()
		return nil, fmt.Errorf("audiodevice: enumerate capture devices: %w", err)
	}
	captureID, err := selectDevice(captureInfos, cfg.MicIndex, "capture")
	if err != nil {
		dumpDeviceTable(os.Stderr, "capture", captureInfos)
		mctx.Uninit()
		return nil, err
	}

	playbackInfos, err := mctx.Devices(malgo.Playback)
	if err != nil {
		mctx.Uninit()
		return nil, fmt.Errorf("audiodevice: enumerate playback devices: %w", err)
	}
	playbackID, err := selectDevice(playbackInfos, cfg.PlaybackIndex, "playback")
	if err != nil {
		dumpDeviceTable(os.Stderr, "playback", playbackInfos)
		mctx.Uninit()
		return nil, err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(cfg.Channels)
	deviceConfig.Capture.DeviceID = captureID.Pointer()
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(cfg.Channels)
	deviceConfig.Playback.DeviceID = playbackID.Pointer()
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.FrameSamples)
	deviceConfig.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: d.onSamples,
	})
	if err != nil {
		mctx.Uninit()
		return nil, fmt.Errorf("audiodevice: init device: %w", err)
	}
	d.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		mctx.Uninit()
		return nil, fmt.Errorf("audiodevice: start device: %w", err)
	}

	log.Info("audiodevice started", "sample_rate", cfg.SampleRate, "channels", cfg.Channels)
	return d, nil
}

// onSamples runs on the malgo audio thread: it must never block. Capture
// bytes are decoded and pushed to the lock-free capture ring; playback
// bytes are popped from the lock-free playback ring, with silence used to
// pad underruns.
func (d *Device) onSamples(pOutput, pInput []byte, frameCount uint32) {
	if pInput != nil && d.recording.Load() {
		samples := bytesToInt16(pInput)
		d.captureRing.push(samples)
	}

	if pOutput != nil {
		n := len(pOutput) / 2
		wasPlaying := false
		for i := 0; i < n; i++ {
			var sample int16
			if !d.playStop.Load() {
				if s, ok := d.playRing.pop(); ok {
					sample = s
					wasPlaying = true
				}
			}
			putInt16LE(pOutput[i*2:], sample)
		}
		if wasPlaying {
			d.playing.Store(true)
		}
		if d.playRing.isEmpty() || d.playStop.Load() {
			if d.playing.Load() {
				d.playing.Store(false)
				select {
				case d.playFinished <- struct{}{}:
				default:
				}
			}
		}
	}
}

// RecordStream opens the capture side and returns a channel of AudioFrames
// that yields until StopRecording is called. Only one active recorder is
// permitted at a time; a second call while one is running returns the
// already-running stream.
func (d *Device) RecordStream(ctx context.Context) <-chan AudioFrame {
	d.recvMu.Lock()
	defer d.recvMu.Unlock()

	if d.recording.Load() && d.recvCh != nil {
		return d.recvCh
	}

	d.recvCh = make(chan AudioFrame, 64)
	d.recvStop = make(chan struct{})
	d.recvDone = make(chan struct{})
	d.recording.Store(true)
	d.playStop.Store(false)

	go d.drainCapture(ctx, d.recvCh, d.recvStop, d.recvDone)
	return d.recvCh
}

// drainCapture copies frames out of the lock-free ring into the channel.
// Overflow inside the ring is tolerated (frames are simply dropped there);
// this loop never blocks the audio callback, only the consumer.
func (d *Device) drainCapture(ctx context.Context, out chan<- AudioFrame, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
		}

		samples := d.captureRing.pop()
		if samples == nil {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-time.After(5 * time.Millisecond):
			}
			continue
		}

		frame := AudioFrame{Samples: samples, SampleRate: d.cfg.SampleRate}
		select {
		case out <- frame:
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
			// Consumer is behind; drop the frame rather than block the loop.
		}
	}
}

// StopRecording idempotently halts the capture side.
func (d *Device) StopRecording() {
	d.recvMu.Lock()
	defer d.recvMu.Unlock()

	if !d.recording.CompareAndSwap(true, false) {
		return
	}
	close(d.recvStop)
	<-d.recvDone
}

// Play enqueues a clip onto the playback ring. The same always-open device
// picks it up on its next callback; if samples is empty this is a no-op.
func (d *Device) Play(sampleRate int, samples []int16) {
	if len(samples) == 0 {
		return
	}
	if sampleRate != d.cfg.SampleRate {
		samples = resampleLinear(samples, sampleRate, d.cfg.SampleRate)
	}
	d.playStop.Store(false)
	written := d.playRing.push(samples)
	if written < len(samples) {
		d.log.Warn("playback ring overflow", "dropped", len(samples)-written)
	}
	d.playing.Store(true)
}

// StopPlayback idempotently drains the playback queue.
func (d *Device) StopPlayback() {
	d.playStop.Store(true)
	d.playRing.clear()
	if d.playing.CompareAndSwap(true, false) {
		select {
		case d.playFinished <- struct{}{}:
		default:
		}
	}
}

// WaitUntilPlaybackFinished blocks until the playback ring is empty and the
// device is no longer actively emitting samples.
func (d *Device) WaitUntilPlaybackFinished() {
	for d.playing.Load() || !d.playRing.isEmpty() {
		select {
		case <-d.playFinished:
		case <-time.After(20 * time.Millisecond):
		}
	}
}

// Close releases the malgo device and context. Safe to call once.
func (d *Device) Close() {
	d.StopRecording()
	d.StopPlayback()
	if d.device != nil {
		d.device.Stop()
		d.device.Uninit()
		d.device = nil
	}
	if d.mctx != nil {
		_ = d.mctx.Uninit()
		d.mctx.Free()
		d.mctx = nil
	}
}

// selectDevice resolves index into one of infos' device IDs: a
// non-negative index picks that entry directly, -1 picks the device named
// exactly "default". Finding no match either way is an error, since silently falling
// back to the system default would make AUDIO_MICROPHONE_DEVICE/
// AUDIO_PLAYBACK_DEVICE appear to work when they don't.
func selectDevice(infos []malgo.DeviceInfo, index int, kind string) (malgo.DeviceID, error) {
	if index >= 0 {
		if index < len(infos) {
			return infos[index].ID, nil
		}
		return malgo.DeviceID{}, fmt.Errorf("audiodevice: no %s device at index %d", kind, index)
	}
	for _, info := range infos {
		if info.Name() == "default" {
			return info.ID, nil
		}
	}
	return malgo.DeviceID{}, fmt.Errorf("audiodevice: no %s device named %q", kind, "default")
}

// dumpDeviceTable writes the enumerated devices to w so a misconfigured
// index can be corrected from the terminal output.
func dumpDeviceTable(w io.Writer, kind string, infos []malgo.DeviceInfo) {
	fmt.Fprintf(w, "available %s devices:\n", kind)
	for i, info := range infos {
		fmt.Fprintf(w, "  [%d] %s\n", i, info.Name())
	}
}

func putInt16LE(b []byte, v int16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func bytesToInt16(data []byte) []int16 {
	n := len(data) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return out
}

// resampleLinear does simple linear-interpolation resampling, adequate for
// the short TTS clips played through this device.
func resampleLinear(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(toRate) / float64(fromRate)
	outLen := int(float64(len(samples)) * ratio)
	out := make([]int16, outLen)
	for i := range out {
		srcPos := float64(i) / ratio
		idx := int(srcPos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := srcPos - float64(idx)
		out[i] = int16(float64(samples[idx])*(1-frac) + float64(samples[idx+1])*frac)
	}
	return out
}
