package speech

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sprach-assistent/voxd/internal/audiodevice"
)

type fakeRecorder struct {
	stopped atomic.Bool
}

func (f *fakeRecorder) RecordStream(ctx context.Context) <-chan audiodevice.AudioFrame {
	ch := make(chan audiodevice.AudioFrame)
	close(ch)
	return ch
}
func (f *fakeRecorder) StopRecording() { f.stopped.Store(true) }

type fakeTranscriber struct {
	deltas []string
}

func (f *fakeTranscriber) TranscribeStream(ctx context.Context, audio <-chan audiodevice.AudioFrame, onOpen, onClose func()) <-chan string {
	out := make(chan string, len(f.deltas))
	if onOpen != nil {
		onOpen()
	}
	for _, d := range f.deltas {
		out <- d
	}
	close(out)
	if onClose != nil {
		onClose()
	}
	return out
}

type fakeSpeaker struct {
	mu     sync.Mutex
	spoken []string
	stop   bool
}

func (f *fakeSpeaker) Speak(sentence string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stop {
		return
	}
	f.spoken = append(f.spoken, sentence)
}
func (f *fakeSpeaker) SetStopSignal()   { f.mu.Lock(); f.stop = true; f.mu.Unlock() }
func (f *fakeSpeaker) ClearStopSignal() { f.mu.Lock(); f.stop = false; f.mu.Unlock() }
func (f *fakeSpeaker) WaitUntilDone()   {}

type noopDetector struct{ err error }

func (d noopDetector) ListenForWakeWord(ctx context.Context) error { return d.err }

func TestSayHiPreemptsThenSpeaksAChoice(t *testing.T) {
	speaker := &fakeSpeaker{}
	a := New(&fakeRecorder{}, noopDetector{}, &fakeTranscriber{}, speaker, nil)

	a.SayHi()

	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	if len(speaker.spoken) != 1 {
		t.Fatalf("expected exactly one phrase spoken, got %v", speaker.spoken)
	}
	if !isOneOf(speaker.spoken[0], hiChoices) {
		t.Errorf("expected a hi choice, got %q", speaker.spoken[0])
	}
}

func TestSayByeSpeaksDynamicMessageThenFarewell(t *testing.T) {
	speaker := &fakeSpeaker{}
	a := New(&fakeRecorder{}, noopDetector{}, &fakeTranscriber{}, speaker, nil)

	a.SayBye("bis gleich")

	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	if len(speaker.spoken) != 2 {
		t.Fatalf("expected dynamic message + farewell, got %v", speaker.spoken)
	}
	if speaker.spoken[0] != "bis gleich" {
		t.Errorf("expected dynamic message first, got %q", speaker.spoken[0])
	}
	if !isOneOf(speaker.spoken[1], byeChoices) {
		t.Errorf("expected a bye choice, got %q", speaker.spoken[1])
	}
}

func TestSkipAllAndSayEmptyTextOnlyPreempts(t *testing.T) {
	speaker := &fakeSpeaker{}
	a := New(&fakeRecorder{}, noopDetector{}, &fakeTranscriber{}, speaker, nil)

	a.SkipAllAndSay("")

	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	if len(speaker.spoken) != 0 {
		t.Errorf("expected no speech for empty text, got %v", speaker.spoken)
	}
}

func TestGetHumanInputSkipsWakewordWhenNotRequested(t *testing.T) {
	recorder := &fakeRecorder{}
	transcriber := &fakeTranscriber{deltas: []string{"hallo", " welt"}}
	speaker := &fakeSpeaker{}
	// A detector that always fails would yield no deltas if it were called.
	a := New(recorder, noopDetector{err: context.Canceled}, transcriber, speaker, nil)

	out := a.GetHumanInput(context.Background(), false)
	var got []string
	for d := range out {
		got = append(got, d)
	}
	if len(got) != 2 || got[0] != "hallo" || got[1] != " welt" {
		t.Errorf("expected deltas passed through, got %v", got)
	}
}

func isOneOf(s string, choices []string) bool {
	for _, c := range choices {
		if c == s {
			return true
		}
	}
	return false
}
