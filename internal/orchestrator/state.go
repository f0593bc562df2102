package orchestrator

import "github.com/sprach-assistent/voxd/internal/llm"

// State names one node of the conversation state machine.
type State string

const (
	StateEntryPoint                   State = "entry_point"
	StateWaitForUserSpeakInput         State = "wait_for_user_speak_input"
	StateChooseMode                    State = "choose_mode"
	StateModeSelectWeDidNotUnderstand  State = "mode_select_we_did_not_understand"
	StateGetModeSpeakInput             State = "get_mode_speak_input"
	StateGetUserSpeakInput             State = "get_user_speak_input"
	StateCheckIfInputIsGarbage         State = "check_if_input_is_garbage"
	StateWeDidNotUnderstand            State = "we_did_not_understand"
	StateHumanInput                    State = "human_input"
	StateAIResponse                    State = "ai_response"
	StateAIResponseFinished            State = "ai_response_finished"
	StateModeLedHumanInput             State = "mode_led_human_input"
	StateExitMode                      State = "exit_mode"
)

// PipelineState is the single-owner conversation state the orchestrator
// threads through the state machine. Actions return a new value rather
// than mutating in place, mirroring the reference state graph's
// copy-on-write update() calls.
type PipelineState struct {
	ChatHistory        []llm.ChatEntry
	TranscriptionInput string
	InputLoopCounter   int
	Mode               llm.Mode
	Prompt             string
	InputOk            bool
	Response           string
	Sentences          []string
	Command            string
}

func isDispatchableMode(m llm.Mode) bool {
	switch m {
	case llm.ModeSelection, llm.ModeChat, llm.ModeLedControl:
		return true
	default:
		return false
	}
}

// nextState evaluates the transition table's guards, in the documented
// order, for the state that just ran against the PipelineState it
// produced. It is a pure function of (current, state, retryBudget) so the
// entire table can be exercised without any I/O.
func nextState(current State, st PipelineState, retryBudget int) State {
	switch current {
	case StateEntryPoint:
		return StateWaitForUserSpeakInput

	case StateWaitForUserSpeakInput:
		return StateChooseMode

	case StateChooseMode:
		switch {
		case st.Mode == llm.ModeGarbage || !st.InputOk:
			return StateModeSelectWeDidNotUnderstand
		case st.Mode == llm.ModeExit:
			return StateExitMode
		case st.InputOk:
			return StateHumanInput
		case !st.InputOk:
			return StateGetUserSpeakInput
		case !isDispatchableMode(st.Mode):
			return StateExitMode
		}
		return StateExitMode

	case StateModeSelectWeDidNotUnderstand:
		if st.InputLoopCounter < retryBudget {
			return StateGetModeSpeakInput
		}
		return StateExitMode

	case StateGetModeSpeakInput:
		return StateChooseMode

	case StateGetUserSpeakInput:
		return StateCheckIfInputIsGarbage

	case StateCheckIfInputIsGarbage:
		if !st.InputOk {
			return StateWeDidNotUnderstand
		}
		return StateHumanInput

	case StateWeDidNotUnderstand:
		if st.InputLoopCounter < retryBudget {
			return StateGetUserSpeakInput
		}
		return StateExitMode

	case StateHumanInput:
		return StateAIResponse

	case StateAIResponse:
		return StateAIResponseFinished

	case StateAIResponseFinished:
		switch st.Mode {
		case llm.ModeChat:
			return StateGetUserSpeakInput
		case llm.ModeLedControl:
			return StateModeLedHumanInput
		default:
			// Reached when choose_mode accepted MODUS_SELECTION itself as
			// the classification (it routes any input_ok turn to
			// human_input); that and any other unlisted mode exit here, so
			// the loop can never wedge.
			return StateExitMode
		}

	case StateModeLedHumanInput:
		if st.InputOk {
			return StateExitMode
		}
		return StateWeDidNotUnderstand

	case StateExitMode:
		return StateWaitForUserSpeakInput

	default:
		return StateExitMode
	}
}
