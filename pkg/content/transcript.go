package content

import (
	"regexp"
	"strings"
)

var (
	// playMarker matches the audio button residue fandom renders before each line.
	playMarker = regexp.MustCompile(`(?:Link\s*)?▶\x{FE0F}?`)
	// leadingLink matches a bare "Link" label left when the glyph is missing.
	leadingLink = regexp.MustCompile(`^Link\b`)
	// leadingDash matches the separator between the button and the quote.
	leadingDash = regexp.MustCompile(`^\s*[—–-]\s*`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// CleanTranscript strips audio button boilerplate and the leading dash from a
// list item's text and collapses whitespace. An empty result means the item
// carried no transcript.
func CleanTranscript(text string) string {
	text = playMarker.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = leadingLink.ReplaceAllString(text, "")
	text = leadingDash.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// HeroName derives a character name from a voice-line page title.
func HeroName(title, marker string) string {
	name := strings.TrimSuffix(title, "/"+marker)
	return strings.TrimSpace(name)
}
