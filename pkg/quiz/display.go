package quiz

import (
	"regexp"
	"strings"
)

var (
	markupLetter = regexp.MustCompile(`(?i)\b[ru]\b`)
	spaceRun     = regexp.MustCompile(`\s{2,}`)
)

// DisplayText removes stray single-letter wiki artifacts ("u", "r") from a
// quote and collapses the whitespace left behind.
func DisplayText(text string) string {
	text = markupLetter.ReplaceAllString(text, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}
