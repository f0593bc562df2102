package textutil

import "testing"

func TestIsConversationEndingExactMatch(t *testing.T) {
	for _, phrase := range []string{"tschüss", "ende", "exit", "auf wiedersehen"} {
		if !IsConversationEnding(phrase) {
			t.Errorf("expected %q to be detected as conversation-ending", phrase)
		}
	}
}

func TestIsConversationEndingUnrelatedInput(t *testing.T) {
	if IsConversationEnding("wie spät ist es gerade") {
		t.Error("unrelated question should not be detected as conversation-ending")
	}
}

func TestIsConversationEndingCaseInsensitive(t *testing.T) {
	if !IsConversationEnding("TSCHÜSS") {
		t.Error("matching should be case-insensitive")
	}
}

func TestConversationEndScoreRange(t *testing.T) {
	score := ConversationEndScore("ende")
	if score < 0 || score > 100 {
		t.Errorf("score out of range: %d", score)
	}
}
