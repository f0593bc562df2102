package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// alphaToken matches a Latin token (including German umlauts/ß) of length
// >= 2, used as the "word-like" heuristic in IsSaneInputGerman.
var alphaToken = regexp.MustCompile(`[A-Za-zÄÖÜäöüß]{2,}`)

// IsSaneInputGerman applies the coarse sanity gate used before handing a
// transcript to the LLM: the string must be at least 3 characters long
// (after trimming) and contain at least one alphabetic token of length
// >= 2. This is intentionally permissive; it exists to filter empty or
// whitespace-only transcripts and single-letter noise, not to validate
// grammar.
func IsSaneInputGerman(s string) bool {
	trimmed := strings.TrimSpace(s)
	if utf8.RuneCountInString(trimmed) < 3 {
		return false
	}
	return alphaToken.MatchString(trimmed)
}
