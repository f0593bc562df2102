package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/sprach-assistent/voxd/internal/led"
	"github.com/sprach-assistent/voxd/internal/llm"
	"github.com/sprach-assistent/voxd/internal/textutil"
)

// entryPoint resets all pipeline state to its defaults, plays the init
// greeting and blocks until TTS is idle before the first listen cycle.
func (o *Orchestrator) entryPoint(ctx context.Context, st PipelineState) (PipelineState, error) {
	o.promptMgr.SetMode(llm.ModeSelection)
	o.promptMgr.EmptyHistory()
	o.speech.SayInitGreeting()
	o.speech.BlockUntilTalkingFinished()
	return PipelineState{Mode: llm.ModeSelection, InputOk: true}, nil
}

// getUserSpeakInput bridges one listen cycle into transcription_input,
// optionally waiting for the wake word first. It backs both
// wait_for_user_speak_input (wakeword required) and get_user_speak_input/
// get_mode_speak_input (no wakeword, already mid-conversation).
func (o *Orchestrator) getUserSpeakInput(ctx context.Context, st PipelineState, waitForWakeword bool) (PipelineState, error) {
	o.speech.BlockUntilTalkingFinished()

	var full strings.Builder
	for delta := range o.speech.GetHumanInput(ctx, waitForWakeword) {
		full.WriteString(delta)
		o.emit(OrchestratorEvent{Type: EventListening, State: StateGetUserSpeakInput, Data: delta})
	}

	next := st
	next.TranscriptionInput = full.String()
	return next, nil
}

// chooseMode runs the sanity gate, then - if it passes - takes a fuzzy
// end-of-conversation shortcut before falling back to classifying the
// transcript into a Mode via the MODUS_SELECTION prompt.
func (o *Orchestrator) chooseMode(ctx context.Context, st PipelineState) (PipelineState, error) {
	text := st.TranscriptionInput
	next := st

	if !textutil.IsSaneInputGerman(text) || len(strings.TrimSpace(text)) < 3 {
		next.InputOk = false
		return next, nil
	}

	if textutil.IsConversationEnding(text) {
		o.promptMgr.SetMode(llm.ModeExit)
		next.Mode = llm.ModeExit
		next.InputOk = true
		next.InputLoopCounter = 0
		next.ChatHistory = o.promptMgr.GetHistory()
		return next, nil
	}

	o.promptMgr.SetMode(llm.ModeSelection)
	o.promptMgr.EmptyHistory()
	o.promptMgr.AddUserEntry(text)
	o.emit(OrchestratorEvent{Type: EventClassifying, State: StateChooseMode})

	full, err := o.llm.Chat(ctx, o.promptMgr.GetSystemPrompt(), o.promptMgr.GetHistory(), nil)
	if err != nil {
		o.log.Error("mode classification failed", "error", err)
		next.InputOk = false
		return next, nil
	}

	mode, ok := extractMode(full)
	if !ok || mode == llm.ModeGarbage {
		next.InputOk = false
		return next, nil
	}

	if mode != st.Mode {
		// The reference clears MODUS_SELECTION's own history on a mode
		// change, before switching the manager to the new mode - the new
		// mode's history is whatever it already held from an earlier visit.
		o.promptMgr.EmptyHistory()
	}
	o.promptMgr.SetMode(mode)

	next.Mode = mode
	next.InputOk = true
	next.InputLoopCounter = 0
	next.ChatHistory = o.promptMgr.GetHistory()
	return next, nil
}

// checkIfInputIsGarbage applies the same sanity gate used by chooseMode to
// an already-classified mode's turn.
func (o *Orchestrator) checkIfInputIsGarbage(ctx context.Context, st PipelineState) (PipelineState, error) {
	next := st
	next.InputOk = textutil.IsSaneInputGerman(st.TranscriptionInput)
	return next, nil
}

// weDidNotUnderstand increments the retry counter and plays the short
// retry cue. It backs both we_did_not_understand and
// mode_select_we_did_not_understand.
func (o *Orchestrator) weDidNotUnderstand(ctx context.Context, st PipelineState) (PipelineState, error) {
	next := st
	next.InputLoopCounter++
	o.speech.EngageInputBeep()
	return next, nil
}

// humanInput commits the turn's transcript to the prompt manager, after
// prepending the current lamp state for LEDCONTROL turns.
func (o *Orchestrator) humanInput(ctx context.Context, st PipelineState) (PipelineState, error) {
	prompt := st.TranscriptionInput

	if st.Mode == llm.ModeLedControl {
		if state, err := o.led.GetState(ctx); err != nil {
			o.log.Warn("led state fetch failed", "error", err)
		} else if encoded, err := json.Marshal(state); err == nil {
			prompt = fmt.Sprintf("Aktueller Licht status: %s\n\n%s", encoded, prompt)
		}
	}

	o.promptMgr.AddUserEntry(prompt)

	next := st
	next.Prompt = prompt
	next.ChatHistory = o.promptMgr.GetHistory()
	return next, nil
}

// aiResponse streams the LLM reply, dispatching completed sentences to TTS
// as they are produced when the mode speaks its responses (CHAT). The
// barge-in watcher runs only in CHAT, per the Open Question decided in
// DESIGN.md.
func (o *Orchestrator) aiResponse(ctx context.Context, st PipelineState) (PipelineState, error) {
	o.speech.ProcessingSound()

	speakable := st.Mode == llm.ModeChat
	var stopped atomic.Bool
	if speakable {
		o.speech.StartSpeechInterruptWatcher(ctx, func() { stopped.Store(true) })
	}

	var (
		sentences        []string
		buffer           string
		firstSentenceOut bool
	)

	onToken := func(chunk string) {
		if !speakable || stopped.Load() {
			return
		}
		buffer = textutil.CleanMarkdown(buffer + chunk)
		complete, remainder := textutil.SplitSentences(buffer)
		for _, s := range complete {
			s = stripSentencePunct(s)
			if !hasAlnum(s) {
				continue
			}
			if !firstSentenceOut {
				firstSentenceOut = true
				o.speech.SkipAllAndSay(s)
			} else {
				o.speech.Say(s)
			}
			sentences = append(sentences, s)
		}
		buffer = remainder
	}

	full, err := o.llm.Chat(ctx, o.promptMgr.GetSystemPrompt(), st.ChatHistory, onToken)
	if err != nil {
		o.log.Error("llm generation failed", "error", err)
	}

	if stopped.Load() {
		full += "\nAbgebrochen, weil der Nutzer mich unterbrochen hat."
	} else if speakable && strings.TrimSpace(buffer) != "" {
		sentences = append(sentences, buffer)
		o.speech.Say(buffer)
	}

	o.promptMgr.AddAssistantEntry(full)

	next := st
	next.Response = full
	next.Sentences = sentences
	next.InputLoopCounter = 0
	next.ChatHistory = o.promptMgr.GetHistory()
	return next, nil
}

// aiResponseFinished waits for playback to drain and, in CHAT, stops the
// barge-in watcher started by aiResponse.
func (o *Orchestrator) aiResponseFinished(ctx context.Context, st PipelineState) (PipelineState, error) {
	o.speech.BlockUntilTalkingFinished()
	if st.Mode == llm.ModeChat {
		o.speech.StopSpeechInterruptWatcher()
	}
	return st, nil
}

// modeLedHumanInput parses the LEDCONTROL response as JSON (normalising
// single to double quotes, matching the reference's lenient parse) and
// dispatches it to the lamp.
func (o *Orchestrator) modeLedHumanInput(ctx context.Context, st PipelineState) (PipelineState, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(st.Response, "'", "\""))

	next := st
	var cmd led.Command
	if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
		o.speech.Say("Ich habe noch zu wenig Informationen, was soll ich mit dem Licht machen?")
		next.InputOk = false
		next.Command = raw
		return next, nil
	}

	inputOk := !strings.EqualFold(cmd.Action, "invalid") && cmd.Valid()
	if !inputOk {
		o.speech.Say("Ich habe noch zu wenig Informationen, was soll ich mit dem Licht machen?")
	} else if err := o.led.SetState(ctx, cmd); err != nil {
		o.log.Warn("led command failed", "error", err)
		o.speech.BeepError()
		o.speech.Say("Ein Fehler ist aufgetreten als ich das Licht verändern wollte.")
	} else {
		o.speech.Say("Beleuchtung wurde angepasst")
	}

	next.Command = raw
	next.InputOk = inputOk
	return next, nil
}

// exitMode speaks the CHAT farewell (if that is the mode being left),
// clears the current mode's history and resets the dispatch state to
// MODUS_SELECTION.
func (o *Orchestrator) exitMode(ctx context.Context, st PipelineState) (PipelineState, error) {
	if st.Mode == llm.ModeChat {
		o.speech.SayBye(fmt.Sprintf("Ich habe den Live Chat Modus beendet und unseren Chat geleert. Um mich wieder zu aktivieren sage das Wort %s.", o.wakeword))
		o.speech.BlockUntilTalkingFinished()
	}
	o.promptMgr.EmptyHistory()

	next := st
	next.Mode = llm.ModeSelection
	next.ChatHistory = nil
	next.InputLoopCounter = 0
	next.Command = ""
	next.Prompt = ""
	next.InputOk = true
	return next, nil
}

// extractMode returns the first Mode whose name appears as a substring of
// text, iterating in llm's allModes order so multi-token replies
// tie-break deterministically (EXIT before GARBAGEINPUT before LEDCONTROL
// before CHAT before MODUS_SELECTION).
func extractMode(text string) (llm.Mode, bool) {
	for _, m := range []llm.Mode{llm.ModeExit, llm.ModeGarbage, llm.ModeLedControl, llm.ModeChat, llm.ModeSelection} {
		if strings.Contains(text, string(m)) {
			return m, true
		}
	}
	return "", false
}

// stripSentencePunct removes stray markdown/quote punctuation a model
// sometimes leaves around an otherwise-complete sentence.
func stripSentencePunct(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '*', '_', '#', '`', '"', '\'':
			return -1
		}
		return r
	}, s))
}

// hasAlnum reports whether s contains at least one letter or digit.
func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
