package textutil

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// endPhrases is the fixed bilingual set of conversation-ending phrases
// fuzzy-matched against user input, per the glossary's "Retry budget" /
// "conversation ending" contract.
var endPhrases = []string{
	"stop chat", "exit", "bye", "finish",
	"halt stoppen", "chat beenden", "auf wiedersehen", "tschüss", "ende", "schluss",
}

// IsConversationEnding fuzzy-matches sentence against the fixed
// end-of-conversation phrase set and reports whether the best match scores
// at least 80 out of 100, using Jaro-Winkler similarity as the scorer.
func IsConversationEnding(sentence string) bool {
	return ConversationEndScore(sentence) >= 80
}

// ConversationEndScore returns the best Jaro-Winkler match score (0-100)
// between sentence and the fixed end-of-conversation phrase set.
func ConversationEndScore(sentence string) int {
	candidate := strings.ToLower(strings.TrimSpace(sentence))
	if candidate == "" {
		return 0
	}

	best := 0.0
	for _, phrase := range endPhrases {
		score := matchr.JaroWinkler(candidate, phrase, true)
		if score > best {
			best = score
		}
	}
	return int(best*100 + 0.5)
}
