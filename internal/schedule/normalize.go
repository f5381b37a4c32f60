package schedule

import (
	"regexp"
	"strings"
)

var (
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__([^_]+)__`)
	italicRe     = regexp.MustCompile(`\*([^*]+)\*`)
	italicUnder  = regexp.MustCompile(`_([^_]+)_`)
	strayMarkers = strings.NewReplacer("*", "", "_", "")
)

// typoFixes rewrites the status-token truncations the model reliably
// produces. Whole-word, case-insensitive. Extend the map as new variants
// show up in the wild; this is deliberately not a spellchecker.
var typoFixes = map[string]*regexp.Regexp{
	"AWAY":    regexp.MustCompile(`(?i)\b(?:AWY|AWLY|AW)\b`),
	"OFFLINE": regexp.MustCompile(`(?i)\b(?:OFLINE|OFFLIN)\b`),
	"BUSY":    regexp.MustCompile(`(?i)\bBUSYY\b`),
	"ONLINE":  regexp.MustCompile(`(?i)\bONLIN\b`),
}

// exoticSpaces are whitespace code points the model sometimes emits in
// place of plain spaces (non-breaking, typographic and ideographic spaces).
var exoticSpaces = []rune{
	' ', ' ', ' ', ' ', ' ', ' ', ' ',
	' ', ' ', ' ', ' ', ' ', '​', ' ',
	' ', '　',
}

// Normalize strips markdown emphasis, flattens exotic whitespace and fixes
// the known status-word typos. Pure; always returns a string, possibly
// unchanged, and is a no-op on already-normalized text.
func Normalize(raw string) string {
	text := boldRe.ReplaceAllString(raw, "$1")
	text = boldUnderRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = italicUnder.ReplaceAllString(text, "$1")
	text = strayMarkers.Replace(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = flattenSpaces(line)
	}
	text = strings.Join(lines, "\n")

	for canonical, re := range typoFixes {
		text = re.ReplaceAllString(text, canonical)
	}

	return text
}

func flattenSpaces(line string) string {
	return strings.Map(func(r rune) rune {
		for _, sp := range exoticSpaces {
			if r == sp {
				return ' '
			}
		}
		return r
	}, line)
}
