// Package orchestrator implements the conversation state machine (C7) and
// its mode-specific action handlers (C8): wake-word-gated listening, LLM
// mode classification, sentence-granular chat responses and LED command
// dispatch, wired from the explicit transition table in state.go.
package orchestrator

import (
	"context"

	"github.com/sprach-assistent/voxd/internal/applog"
	"github.com/sprach-assistent/voxd/internal/led"
	"github.com/sprach-assistent/voxd/internal/llm"
)

// SpeechAgent is the subset of the C5 façade the state machine drives.
type SpeechAgent interface {
	SayInitGreeting()
	SayBye(message string)
	Say(text string)
	SkipAllAndSay(text string)
	BlockUntilTalkingFinished()
	GetHumanInput(ctx context.Context, waitForWakeword bool) <-chan string
	StartSpeechInterruptWatcher(ctx context.Context, onInterrupt func())
	StopSpeechInterruptWatcher()
	EngageInputBeep()
	BeepError()
	ProcessingSound()
}

// ChatStreamer is C6's streaming chat contract.
type ChatStreamer interface {
	Chat(ctx context.Context, systemPrompt string, history []llm.ChatEntry, onToken func(chunk string)) (string, error)
}

type actionFunc func(ctx context.Context, st PipelineState) (PipelineState, error)

// Orchestrator drives the conversation state machine described in the
// transition table (state.go) by repeatedly running the action bound to
// the current state and evaluating that table's guards against the
// PipelineState the action produced.
type Orchestrator struct {
	speech      SpeechAgent
	llm         ChatStreamer
	promptMgr   *llm.PromptManager
	led         led.Device
	wakeword    string
	retryBudget int
	log         applog.Logger

	events  chan OrchestratorEvent
	actions map[State]actionFunc
}

// New wires an Orchestrator from its already-constructed dependencies.
// retryBudget <= 0 falls back to the documented default of 3.
func New(speech SpeechAgent, llmClient ChatStreamer, promptMgr *llm.PromptManager, ledDevice led.Device, wakeword string, retryBudget int, log applog.Logger) (*Orchestrator, error) {
	if speech == nil {
		return nil, ErrMissingSpeechAgent
	}
	if llmClient == nil {
		return nil, ErrMissingLLMClient
	}
	if promptMgr == nil {
		return nil, ErrMissingPromptManager
	}
	if ledDevice == nil {
		return nil, ErrMissingLEDDevice
	}
	if retryBudget <= 0 {
		retryBudget = 3
	}
	if log == nil {
		log = applog.NoOpLogger{}
	}

	o := &Orchestrator{
		speech:      speech,
		llm:         llmClient,
		promptMgr:   promptMgr,
		led:         ledDevice,
		wakeword:    wakeword,
		retryBudget: retryBudget,
		log:         log,
		events:      make(chan OrchestratorEvent, 256),
	}
	o.actions = map[State]actionFunc{
		StateEntryPoint:                  o.entryPoint,
		StateWaitForUserSpeakInput:       func(ctx context.Context, st PipelineState) (PipelineState, error) { return o.getUserSpeakInput(ctx, st, true) },
		StateChooseMode:                  o.chooseMode,
		StateModeSelectWeDidNotUnderstand: o.weDidNotUnderstand,
		StateGetModeSpeakInput:           func(ctx context.Context, st PipelineState) (PipelineState, error) { return o.getUserSpeakInput(ctx, st, false) },
		StateGetUserSpeakInput:           func(ctx context.Context, st PipelineState) (PipelineState, error) { return o.getUserSpeakInput(ctx, st, false) },
		StateCheckIfInputIsGarbage:       o.checkIfInputIsGarbage,
		StateWeDidNotUnderstand:          o.weDidNotUnderstand,
		StateHumanInput:                  o.humanInput,
		StateAIResponse:                  o.aiResponse,
		StateAIResponseFinished:          o.aiResponseFinished,
		StateModeLedHumanInput:           o.modeLedHumanInput,
		StateExitMode:                    o.exitMode,
	}
	return o, nil
}

// Run drives the state machine forever, starting at entry_point, until ctx
// is cancelled. A failing action is logged and its (possibly unchanged)
// PipelineState is still threaded into the guard evaluation, matching the
// reference implementation's "log and continue" failure semantics.
func (o *Orchestrator) Run(ctx context.Context) error {
	state := StateEntryPoint
	st := PipelineState{Mode: llm.ModeSelection, InputOk: true}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		action, ok := o.actions[state]
		if !ok {
			return ErrUnknownState
		}

		newSt, err := action(ctx, st)
		if err != nil {
			o.log.Error("orchestrator action failed", "state", string(state), "error", err)
		}
		if newSt.Mode != st.Mode {
			o.emit(OrchestratorEvent{Type: EventModeChanged, State: state, Mode: string(newSt.Mode)})
		}
		st = newSt

		state = nextState(state, st, o.retryBudget)
	}
}
