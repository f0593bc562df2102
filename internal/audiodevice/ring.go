package audiodevice

import "sync/atomic"

// captureRingSize is the number of pre-allocated chunks the capture ring
// holds. At 16kHz with 1024-sample (64ms) callbacks this covers several seconds of
// audio before a slow consumer starts losing frames.
const captureRingSize = 128

// captureChunkCap bounds the samples held per chunk slot.
const captureChunkCap = 4096

type captureChunk struct {
	samples []int16
	n       int
}

// captureRing is a lock-free single-producer single-consumer ring buffer
// for capture chunks, adapted from the reference capture pipeline's ring
// buffer to 16-bit PCM instead of float32.
type captureRing struct {
	chunks [captureRingSize]captureChunk
	head   atomic.Uint64
	tail   atomic.Uint64
	drops  atomic.Uint64
}

func newCaptureRing() *captureRing {
	rb := &captureRing{}
	for i := range rb.chunks {
		rb.chunks[i].samples = make([]int16, captureChunkCap)
	}
	return rb
}

func (rb *captureRing) push(samples []int16) bool {
	head := rb.head.Load()
	tail := rb.tail.Load()
	if head-tail >= captureRingSize {
		rb.drops.Add(1)
		return false
	}

	slot := &rb.chunks[head%captureRingSize]
	n := copy(slot.samples, samples)
	slot.n = n
	rb.head.Add(1)
	return true
}

func (rb *captureRing) pop() []int16 {
	head := rb.head.Load()
	tail := rb.tail.Load()
	if head == tail {
		return nil
	}

	slot := &rb.chunks[tail%captureRingSize]
	out := make([]int16, slot.n)
	copy(out, slot.samples[:slot.n])
	rb.tail.Add(1)
	return out
}

// playbackRingSize is the number of int16 samples the playback ring can
// hold; at 16kHz this is several seconds, comfortably ahead of one
// synthesized sentence.
const playbackRingSize = 1 << 18

// playbackRing is a lock-free single-producer single-consumer ring buffer
// for playback samples, adapted from the reference TTS player's ring
// buffer to 16-bit PCM instead of float32.
type playbackRing struct {
	samples [playbackRingSize]int16
	head    atomic.Uint64
	tail    atomic.Uint64
}

func newPlaybackRing() *playbackRing {
	return &playbackRing{}
}

func (rb *playbackRing) push(samples []int16) int {
	head := rb.head.Load()
	tail := rb.tail.Load()

	available := playbackRingSize - int(head-tail)
	toWrite := len(samples)
	if toWrite > available {
		toWrite = available
	}
	for i := 0; i < toWrite; i++ {
		rb.samples[(head+uint64(i))%playbackRingSize] = samples[i]
	}
	rb.head.Add(uint64(toWrite))
	return toWrite
}

func (rb *playbackRing) pop() (int16, bool) {
	head := rb.head.Load()
	tail := rb.tail.Load()
	if head == tail {
		return 0, false
	}
	sample := rb.samples[tail%playbackRingSize]
	rb.tail.Add(1)
	return sample, true
}

func (rb *playbackRing) isEmpty() bool {
	return rb.head.Load() == rb.tail.Load()
}

func (rb *playbackRing) clear() {
	rb.tail.Store(rb.head.Load())
}
