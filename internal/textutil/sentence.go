package textutil

import "strings"

// germanAbbreviations lists common German abbreviations whose trailing dot
// must not be treated as a sentence boundary.
var germanAbbreviations = map[string]bool{
	"bzw":  true,
	"etc":  true,
	"ca":   true,
	"nr":   true,
	"dr":   true,
	"prof": true,
	"str":  true,
	"usw":  true,
	"inkl": true,
	"exkl": true,
	"min":  true,
	"max":  true,
	"geb":  true,
	"gest": true,
	"z.b":  true,
	"d.h":  true,
	"u.a":  true,
}

// SplitSentences splits German text into complete sentences in order,
// plus a trailing possibly-incomplete remainder that callers should carry
// into the next chunk of streamed text. It splits on '.', '?' and '!'
// while keeping known abbreviations attached to the following word.
func SplitSentences(text string) (sentences []string, remainder string) {
	runes := []rune(text)
	var current strings.Builder
	i := 0
	for i < len(runes) {
		r := runes[i]
		current.WriteRune(r)
		if r == '.' || r == '?' || r == '!' {
			if r == '.' && endsWithAbbreviation(current.String()) {
				i++
				continue
			}
			// A sequence of terminators ("?!", "...") belongs to one boundary.
			j := i + 1
			for j < len(runes) && (runes[j] == '.' || runes[j] == '?' || runes[j] == '!') {
				current.WriteRune(runes[j])
				j++
			}
			sentence := strings.TrimSpace(current.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			current.Reset()
			i = j
			continue
		}
		i++
	}
	remainder = current.String()
	return sentences, remainder
}

func endsWithAbbreviation(s string) bool {
	trimmed := strings.TrimRight(s, ".")
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToLower(fields[len(fields)-1])
	last = strings.TrimFunc(last, func(r rune) bool {
		return r == '(' || r == '"' || r == '\''
	})
	// A single letter immediately before the dot ("z", "B", "d", "h", ...)
	// is almost always the interior of a multi-dot abbreviation such as
	// "z.B." or "d.h." rather than a sentence boundary.
	if len([]rune(last)) == 1 {
		return true
	}
	return germanAbbreviations[last]
}
