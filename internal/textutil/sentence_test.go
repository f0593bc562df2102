package textutil

import (
	"reflect"
	"testing"
)

func TestSplitSentencesBasic(t *testing.T) {
	sentences, remainder := SplitSentences("Hallo Welt. Wie geht es dir? Gut!")
	want := []string{"Hallo Welt.", "Wie geht es dir?", "Gut!"}
	if !reflect.DeepEqual(sentences, want) {
		t.Errorf("sentences = %v, want %v", sentences, want)
	}
	if remainder != "" {
		t.Errorf("remainder = %q, want empty", remainder)
	}
}

func TestSplitSentencesRemainder(t *testing.T) {
	sentences, remainder := SplitSentences("Erster Satz. Unvollständiger Rest")
	if len(sentences) != 1 || sentences[0] != "Erster Satz." {
		t.Errorf("sentences = %v", sentences)
	}
	if remainder != " Unvollständiger Rest" {
		t.Errorf("remainder = %q", remainder)
	}
}

func TestSplitSentencesRespectsAbbreviations(t *testing.T) {
	sentences, remainder := SplitSentences("Das ist z.B. ein Test.")
	if len(sentences) != 1 {
		t.Fatalf("expected one sentence, got %v (remainder=%q)", sentences, remainder)
	}
	if sentences[0] != "Das ist z.B. ein Test." {
		t.Errorf("sentences[0] = %q", sentences[0])
	}
}

func TestSplitSentencesOrderPreserved(t *testing.T) {
	sentences, _ := SplitSentences("Eins. Zwei. Drei.")
	want := []string{"Eins.", "Zwei.", "Drei."}
	if !reflect.DeepEqual(sentences, want) {
		t.Errorf("sentences = %v, want %v", sentences, want)
	}
}
