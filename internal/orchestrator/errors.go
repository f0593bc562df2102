package orchestrator

import "errors"

var (
	// ErrMissingSpeechAgent is returned by New when no SpeechAgent is given.
	ErrMissingSpeechAgent = errors.New("orchestrator: speech agent is required")

	// ErrMissingLLMClient is returned by New when no ChatStreamer is given.
	ErrMissingLLMClient = errors.New("orchestrator: llm client is required")

	// ErrMissingPromptManager is returned by New when no PromptManager is given.
	ErrMissingPromptManager = errors.New("orchestrator: prompt manager is required")

	// ErrMissingLEDDevice is returned by New when no led.Device is given.
	ErrMissingLEDDevice = errors.New("orchestrator: led device is required")

	// ErrUnknownState is returned by Run if the state machine reaches a
	// state with no registered action, which should never happen for the
	// documented table.
	ErrUnknownState = errors.New("orchestrator: no action registered for state")
)
