package textutil

import "testing"

func TestIsSaneInputGermanEmpty(t *testing.T) {
	if IsSaneInputGerman("") {
		t.Error("empty string should not pass the sanity gate")
	}
}

func TestIsSaneInputGermanWhitespaceOnly(t *testing.T) {
	if IsSaneInputGerman("   ") {
		t.Error("whitespace-only string should not pass the sanity gate")
	}
}

func TestIsSaneInputGermanExactlyThreeChars(t *testing.T) {
	if !IsSaneInputGerman("wie") {
		t.Error("'wie' (3 alphabetic chars) should pass")
	}
	if IsSaneInputGerman("1 2") {
		t.Error("'1 2' (3 chars, no alphabetic token) should not pass")
	}
}

func TestIsSaneInputGermanUmlauts(t *testing.T) {
	if !IsSaneInputGerman("schön") {
		t.Error("umlaut word should pass the sanity gate")
	}
}

func TestIsSaneInputGermanSingleLetterNoise(t *testing.T) {
	if IsSaneInputGerman("a a a") {
		t.Error("single-letter noise should not pass the sanity gate")
	}
}
