package orchestrator

import (
	"testing"

	"github.com/sprach-assistent/voxd/internal/llm"
)

func TestNextStateHappyPathChat(t *testing.T) {
	cases := []struct {
		name    string
		state   State
		st      PipelineState
		want    State
	}{
		{"entry always advances", StateEntryPoint, PipelineState{}, StateWaitForUserSpeakInput},
		{"wait always advances to choose_mode", StateWaitForUserSpeakInput, PipelineState{}, StateChooseMode},
		{"choose_mode garbage goes to mode retry", StateChooseMode, PipelineState{Mode: llm.ModeGarbage, InputOk: true}, StateModeSelectWeDidNotUnderstand},
		{"choose_mode not-ok goes to mode retry even with a valid mode", StateChooseMode, PipelineState{Mode: llm.ModeChat, InputOk: false}, StateModeSelectWeDidNotUnderstand},
		{"choose_mode exit goes to exit_mode", StateChooseMode, PipelineState{Mode: llm.ModeExit, InputOk: true}, StateExitMode},
		{"choose_mode ok routes to human_input", StateChooseMode, PipelineState{Mode: llm.ModeChat, InputOk: true}, StateHumanInput},
		{"check_garbage not-ok retries", StateCheckIfInputIsGarbage, PipelineState{InputOk: false}, StateWeDidNotUnderstand},
		{"check_garbage ok advances", StateCheckIfInputIsGarbage, PipelineState{InputOk: true}, StateHumanInput},
		{"human_input always advances", StateHumanInput, PipelineState{}, StateAIResponse},
		{"ai_response always advances", StateAIResponse, PipelineState{}, StateAIResponseFinished},
		{"ai_response_finished chat loops back to listening", StateAIResponseFinished, PipelineState{Mode: llm.ModeChat}, StateGetUserSpeakInput},
		{"ai_response_finished ledcontrol goes to led turn", StateAIResponseFinished, PipelineState{Mode: llm.ModeLedControl}, StateModeLedHumanInput},
		{"mode_led_human_input ok exits", StateModeLedHumanInput, PipelineState{InputOk: true}, StateExitMode},
		{"mode_led_human_input not-ok retries", StateModeLedHumanInput, PipelineState{InputOk: false}, StateWeDidNotUnderstand},
		{"exit_mode always returns to waiting", StateExitMode, PipelineState{}, StateWaitForUserSpeakInput},
		{"get_mode_speak_input always advances", StateGetModeSpeakInput, PipelineState{}, StateChooseMode},
		{"get_user_speak_input always advances", StateGetUserSpeakInput, PipelineState{}, StateCheckIfInputIsGarbage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextState(tc.state, tc.st, 3); got != tc.want {
				t.Errorf("nextState(%s, %+v) = %s, want %s", tc.state, tc.st, got, tc.want)
			}
		})
	}
}

func TestNextStateRetryBudget(t *testing.T) {
	if got := nextState(StateWeDidNotUnderstand, PipelineState{InputLoopCounter: 2}, 3); got != StateGetUserSpeakInput {
		t.Errorf("expected another retry below budget, got %s", got)
	}
	if got := nextState(StateWeDidNotUnderstand, PipelineState{InputLoopCounter: 3}, 3); got != StateExitMode {
		t.Errorf("expected exit once counter reaches budget, got %s", got)
	}
	if got := nextState(StateModeSelectWeDidNotUnderstand, PipelineState{InputLoopCounter: 0}, 3); got != StateGetModeSpeakInput {
		t.Errorf("expected another mode-selection retry below budget, got %s", got)
	}
	if got := nextState(StateModeSelectWeDidNotUnderstand, PipelineState{InputLoopCounter: 3}, 3); got != StateExitMode {
		t.Errorf("expected exit once mode-selection counter reaches budget, got %s", got)
	}
}

func TestExtractModeFirstMatchInDeclarationOrderWins(t *testing.T) {
	mode, ok := extractMode("Ich denke das ist CHAT oder EXIT")
	if !ok {
		t.Fatal("expected a mode to be found")
	}
	if mode != llm.ModeExit {
		t.Errorf("expected EXIT to win over CHAT per declaration order, got %s", mode)
	}
}

func TestExtractModeNoMatch(t *testing.T) {
	if _, ok := extractMode("keine ahnung"); ok {
		t.Error("expected no match for text containing no mode token")
	}
}
