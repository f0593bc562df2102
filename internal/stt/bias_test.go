package stt

import "testing"

func TestStripBiasRemovesKnownPhrase(t *testing.T) {
	in := "hallo Copyright WDR 2021 welt"
	got := stripBias(in)
	if got != "hallo  welt" {
		t.Errorf("expected bias phrase stripped, got %q", got)
	}
}

func TestStripBiasLeavesUnrelatedTextUntouched(t *testing.T) {
	in := "wie spät ist es"
	if got := stripBias(in); got != in {
		t.Errorf("expected unrelated text unchanged, got %q", got)
	}
}

func TestStripBiasHandlesMultipleOccurrences(t *testing.T) {
	in := "SWR 2021 SWR 2021"
	if got := stripBias(in); got != " " {
		t.Errorf("expected both occurrences stripped, got %q", got)
	}
}
