package textutil

import "testing"

func TestCleanMarkdownNewlines(t *testing.T) {
	got := CleanMarkdown("Zeile eins\nZeile zwei")
	want := "Zeile eins. Zeile zwei"
	if got != want {
		t.Errorf("CleanMarkdown = %q, want %q", got, want)
	}
}

func TestCleanMarkdownCollapsesPunctBeforeDot(t *testing.T) {
	got := CleanMarkdown("Wirklich?.")
	if got != "Wirklich?" {
		t.Errorf("CleanMarkdown = %q, want %q", got, "Wirklich?")
	}
}

func TestCleanMarkdownInsertsSpaceAfterDot(t *testing.T) {
	got := CleanMarkdown("Satz eins.Satz zwei")
	want := "Satz eins. Satz zwei"
	if got != want {
		t.Errorf("CleanMarkdown = %q, want %q", got, want)
	}
}

func TestCleanMarkdownKeepsDecimalNumbers(t *testing.T) {
	got := CleanMarkdown("Pi ist 3.14 ungefähr")
	if got != "Pi ist 3.14 ungefähr" {
		t.Errorf("CleanMarkdown altered a decimal number: %q", got)
	}
}

func TestCleanMarkdownRemovesEnumerationFragments(t *testing.T) {
	got := CleanMarkdown("Liste.1.Erstens")
	if want := "Liste. Erstens"; got != want {
		t.Errorf("CleanMarkdown = %q, want %q", got, want)
	}
}

func TestCleanMarkdownIdempotent(t *testing.T) {
	input := "Satz eins.Satz zwei\nSatz drei?."
	once := CleanMarkdown(input)
	twice := CleanMarkdown(once)
	if once != twice {
		t.Errorf("CleanMarkdown not idempotent: once=%q twice=%q", once, twice)
	}
}
