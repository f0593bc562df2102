// Package llm implements the streaming chat client and the per-mode
// prompt/history manager that drives the orchestrator's classification and
// response generation.
package llm

import (
	"fmt"
	"strings"
)

// Mode is the orchestrator's dispatch state, matching spec.md's Mode enum.
type Mode string

const (
	ModeSelection  Mode = "MODUS_SELECTION"
	ModeChat       Mode = "CHAT"
	ModeLedControl Mode = "LEDCONTROL"
	ModeGarbage    Mode = "GARBAGEINPUT"
	ModeExit       Mode = "EXIT"
)

// allModes lists every mode in classification tie-break order (EXIT first,
// MODUS_SELECTION last; the reverse of the constants above), used to build
// the MODUS_SELECTION system prompt's enumerated rule list.
var allModes = []Mode{ModeExit, ModeGarbage, ModeLedControl, ModeChat, ModeSelection}

// modeRule is the one-line German classification rule shown to the model
// for each non-MODUS_SELECTION mode in the MODUS_SELECTION system prompt.
var modeRule = map[Mode]string{
	ModeExit:       "Wähle EXIT wenn der User das Gespräch beenden oder abbrechen will oder sich verabschieded hat.",
	ModeGarbage:    "Wähle GARBAGEINPUT wenn die Anfrage unverständlich oder unvollständig erscheint",
	ModeLedControl: "Wähle LEDCONTROL wenn der User die Beleuchtung verändern oder eine Farbe haben will.",
	ModeChat:       "Wähle CHAT wenn der User eine andere bisher nicht genannte Frage gestellt hat.",
}

// ChatEntry is one turn in a mode-scoped history.
type ChatEntry struct {
	Role    string // "user", "assistant", or "system"
	Content string
}

// PromptTemplate is the global, runtime-immutable per-mode system prompt.
type PromptTemplate struct {
	Mode         Mode
	Description  string
	SystemPrompt string
	UserSayStr   string
}

// FormatPrompt returns the system prompt for this template. Templates have
// no placeholders, so SystemPrompt is returned unchanged.
func (t PromptTemplate) FormatPrompt() string {
	return t.SystemPrompt
}

// baseTemplates is the fixed, global template set named in spec.md §4.6.
var baseTemplates = buildBaseTemplates()

func buildBaseTemplates() map[Mode]PromptTemplate {
	var modeNames []string
	for _, m := range allModes {
		if m != ModeSelection {
			modeNames = append(modeNames, string(m))
		}
	}
	var rules []string
	for _, m := range allModes {
		if rule, ok := modeRule[m]; ok {
			rules = append(rules, "- "+rule)
		}
	}

	selectionPrompt := fmt.Sprintf(
		"Du musst genau einen der folgenden Modi (GROSSBUCHSTABEN) wählen: %s\n"+
			"Beginne deine Antwort, indem du den gewählten Modus in GROSSBUCHSTABEN nennst (z. B. \"EXIT\"). "+
			"Beende deine Antwort danach. Keine weiteren Erklärungen, Haftungsausschlüsse oder zusätzlicher Text.\n\n"+
			"Befolge diese Regeln strikt:\n%s",
		strings.Join(modeNames, ", "), strings.Join(rules, "\n"))

	return map[Mode]PromptTemplate{
		ModeSelection: {
			Mode:         ModeSelection,
			Description:  "Modus Auswahl",
			SystemPrompt: selectionPrompt,
		},
		ModeChat: {
			Mode:        ModeChat,
			Description: "Live Chat Modus",
			SystemPrompt: "Beantworte die Fragen als freundlicher und zuvorkommender Helfer. " +
				"Antworte kindergerecht für Kinder ab acht Jahren. " +
				"Antworte maximal mit 1 bis 3 kurzen Sätzen und stelle Gegenfragen, wenn der Sachverhalt unklar ist.",
			UserSayStr: "Lass uns etwas plaudern, Modus ist nun CHAT",
		},
		ModeLedControl: {
			Mode:        ModeLedControl,
			Description: "LED Kontroll Modus",
			SystemPrompt: "Du steuerst LED-Lichter über eine REST-API. " +
				"Der User möchte sie möglicherweise ein- oder ausschalten oder die Farbe oder Helligkeit ändern. " +
				"Parameter und mögliche Werte:\n" +
				"action: on, off oder invalid wenn User prompt keinen Sinn ergibt.\n" +
				"rgb: Array mit drei Elementen, jeweils von 0 bis 255.\n" +
				"colortemp: Farbtemperatur setzen (2200K bis 6500K).\n" +
				"brightness: Helligkeit anpassen (Wertebereich 10-255).\n" +
				"\nStelle sicher, dass deine endgültige Ausgabe ein kurzes JSON-Snippet im folgendem Format ist:\n" +
				`{ "action": "on", "rgb": [255, 0, 0], "brightness": 128, "colortemp": 3000, "scene": 1}` + "\n" +
				"Der action parameter ist mandatory, andere parameter sind optional. " +
				"Beende deine Antwort danach. Keine weiteren Erklärungen, Haftungsausschlüsse oder zusätzlicher Text.\n",
		},
		ModeGarbage: {
			Mode:        ModeGarbage,
			Description: "Unverständlicher Input",
			SystemPrompt: "Die Benutzereingabe ist unverständlich oder unvollständig. " +
				"Bitte fordere den Benutzer auf, die Anfrage zu präzisieren.",
		},
		ModeExit: {
			Mode:        ModeExit,
			Description: "Beenden",
		},
	}
}
