// Package speech implements the Human Speech Agent: the façade composing
// the audio device, wake-word detector, STT client and TTS queue into the
// "say"/"listen" primitives the orchestrator drives.
package speech

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/sprach-assistent/voxd/internal/applog"
	"github.com/sprach-assistent/voxd/internal/audiodevice"
	"github.com/sprach-assistent/voxd/internal/wakeword"
)

// hiChoices, byeChoices and initGreetings are the fixed German phrase
// corpora, transcribed from the reference human speech agent.
var hiChoices = []string{
	"ja, hi", "schiess los!",
	"was gibts?", "hi, was?",
	"leg los!", "was willst du?",
	"sprechen Sie", "jo bro",
	"Moin!", "Na?",
}

var byeChoices = []string{
	"Auf Wiedersehen!", "Mach's gut!", "Bis zum nächsten Mal!", "Tschüss!", "Ciao!", "Adieu!",
	"Schönen Tag noch!",
	"Bis bald!", "Pass auf dich auf!", "Bleib gesund!", "Man sieht sich!", "Bis später!", "Bis dann!",
	"Gute Reise!",
	"Viel Erfolg noch!", "Danke und tschüss!", "Alles Gute!", "Bis zum nächsten Treffen!",
	"Leb wohl!",
}

var initGreetings = []string{
	"Hallo!", "Hi!", "Hey!", "Guten Tag!", "Guten Morgen!",
	"Guten Abend!", "Grüß dich!", "Servus!", "Hallöchen!",
	"Hi, wie geht's?", "Schön dich zu sehen!", "Hallo und willkommen!",
	"Freut mich, dich zu treffen!", "Hallo zusammen!", "Hallo, mein Freund!",
	"Guten Tag, wie kann ich helfen?", "Willkommen!", "Hallo an alle!",
	"Hallihallo!", "Herzlich willkommen!", "Hallo, schön dich hier zu haben!",
	"Moin moin!", "Hey, alles klar?", "Hallo, schön dich kennenzulernen!",
	"Hallo, wie läuft's?", "Grüß Gott!", "Einen schönen Tag!", "Schön, dass du da bist!",
}

// ExplainSentence teaches the wake-word. It is part of WarmCorpus, so it
// is pre-rendered into the TTS cache; nothing in this package speaks it.
const ExplainSentence = "Sag das wort computer um zu starten."

// WarmCorpus is every fixed phrase the TTS warm cache should pre-render.
func WarmCorpus() []string {
	all := make([]string, 0, len(hiChoices)+len(byeChoices)+len(initGreetings)+1)
	all = append(all, hiChoices...)
	all = append(all, byeChoices...)
	all = append(all, initGreetings...)
	all = append(all, ExplainSentence)
	return all
}

// Recorder is the capture half of C1 the façade needs.
type Recorder interface {
	RecordStream(ctx context.Context) <-chan audiodevice.AudioFrame
	StopRecording()
}

// Transcriber is C3's streaming contract.
type Transcriber interface {
	TranscribeStream(ctx context.Context, audio <-chan audiodevice.AudioFrame, onOpen, onClose func()) <-chan string
}

// Speaker is the subset of C4 the façade drives directly.
type Speaker interface {
	Speak(sentence string)
	SetStopSignal()
	ClearStopSignal()
	WaitUntilDone()
}

// Agent is the singleton façade composing C1-C4.
type Agent struct {
	device   Recorder
	detector wakeword.Detector
	sttClt   Transcriber
	queue    Speaker
	log      applog.Logger

	interruptStop   chan struct{}
	interruptActive atomic.Bool
	interruptWG     sync.WaitGroup
}

// New builds the façade from its already-constructed components.
func New(device Recorder, detector wakeword.Detector, sttClt Transcriber, queue Speaker, log applog.Logger) *Agent {
	if log == nil {
		log = applog.NoOpLogger{}
	}
	return &Agent{device: device, detector: detector, sttClt: sttClt, queue: queue, log: log}
}

func pick(choices []string) string {
	return choices[rand.Intn(len(choices))]
}

// SayInitGreeting plays a random init greeting and blocks until TTS is
// idle.
func (a *Agent) SayInitGreeting() {
	a.queue.Speak(pick(initGreetings))
	a.queue.WaitUntilDone()
}

// SayHi preempts any lingering speech, then plays a random "go ahead" cue.
func (a *Agent) SayHi() {
	a.queue.SetStopSignal()
	a.queue.WaitUntilDone()
	a.queue.ClearStopSignal()
	a.queue.Speak(pick(hiChoices))
}

// SayBye preempts any lingering speech, optionally speaks a dynamic
// message first, then plays a random farewell.
func (a *Agent) SayBye(message string) {
	a.queue.SetStopSignal()
	a.queue.ClearStopSignal()
	if message != "" {
		a.queue.Speak(message)
	}
	a.queue.WaitUntilDone()
	a.queue.Speak(pick(byeChoices))
}

// Say enqueues text for synthesis and playback.
func (a *Agent) Say(text string) {
	a.queue.Speak(text)
}

// SkipAllAndSay preempts any in-flight speech before speaking text. Used
// on the first sentence of an LLM response to cut off a lingering "hi".
func (a *Agent) SkipAllAndSay(text string) {
	a.queue.SetStopSignal()
	a.queue.WaitUntilDone()
	a.queue.ClearStopSignal()
	if text != "" {
		a.queue.Speak(text)
	}
}

// BlockUntilTalkingFinished waits for the TTS queue to drain.
func (a *Agent) BlockUntilTalkingFinished() {
	a.queue.WaitUntilDone()
}

// EngageInputBeep plays the short retry cue used when a loop iteration did
// not understand the user. The reference agent plays a non-speech beep
// sample here; this repo has no audio-cue/codec library in its dependency
// pack, so the cue is a short spoken phrase instead.
func (a *Agent) EngageInputBeep() {
	a.queue.Speak("Hmm?")
}

// BeepError plays the short error cue used when an action (e.g. a LED
// command) fails, for the same reason as EngageInputBeep.
func (a *Agent) BeepError() {
	a.queue.Speak("Achtung.")
}

// ProcessingSound marks the start of LLM generation. The reference agent
// plays a "thinking" sound here; kept as an explicit hook for parity even
// though this repo has nothing non-speech to play on it yet.
func (a *Agent) ProcessingSound() {}

// GetHumanInput optionally waits for the wake word, plays a "go ahead"
// cue, then bridges capture into STT and yields transcript deltas until
// the stream ends or ctx is cancelled.
func (a *Agent) GetHumanInput(ctx context.Context, waitForWakeword bool) <-chan string {
	if waitForWakeword {
		if err := a.detector.ListenForWakeWord(ctx); err != nil {
			out := make(chan string)
			close(out)
			return out
		}
	}

	audio := a.device.RecordStream(ctx)
	return a.sttClt.TranscribeStream(ctx, audio, a.SayHi, func() { a.device.StopRecording() })
}

// StartSpeechInterruptWatcher listens for the wake word again while the
// assistant is speaking; on detection it calls onInterrupt once. A second
// call while a watcher is running is a no-op (guarded by interruptActive).
func (a *Agent) StartSpeechInterruptWatcher(ctx context.Context, onInterrupt func()) {
	if !a.interruptActive.CompareAndSwap(false, true) {
		return
	}
	a.interruptStop = make(chan struct{})
	stop := a.interruptStop

	a.interruptWG.Add(1)
	go func() {
		defer a.interruptWG.Done()
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-stop:
				cancel()
			case <-watchCtx.Done():
			}
		}()

		if err := a.detector.ListenForWakeWord(watchCtx); err == nil {
			if onInterrupt != nil {
				onInterrupt()
			}
		}
	}()
}

// StopSpeechInterruptWatcher halts the watcher started above, if running.
func (a *Agent) StopSpeechInterruptWatcher() {
	if !a.interruptActive.CompareAndSwap(true, false) {
		return
	}
	close(a.interruptStop)
	a.interruptWG.Wait()
}
