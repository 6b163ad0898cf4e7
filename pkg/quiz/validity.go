package quiz

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minLineLength = 15
	minWordCount  = 4
	maxLaughRatio = 0.4
)

var (
	//go:embed items.txt
	defaultItems string

	digit         = regexp.MustCompile(`\d`)
	interjection  = regexp.MustCompile(`^(ha|he|ho|hm|ugh|ah|oh)\b`)
	nonLetter     = regexp.MustCompile(`[^a-z]`)
	laughWordSet  = map[string]bool{"ha": true, "he": true, "ho": true, "haha": true, "hehe": true, "hahaha": true}
	defaultFilter = mustParseItems(strings.NewReader(defaultItems))
)

// Validator decides whether a line is usable as a quiz prompt.
type Validator struct {
	items map[string]bool
}

// NewValidator returns a validator using the given item names.
// A nil set falls back to the built-in item list.
func NewValidator(items map[string]bool) *Validator {
	if items == nil {
		items = defaultFilter
	}
	return &Validator{items: items}
}

// IsValidLine applies the default validator.
func IsValidLine(text string) bool {
	return NewValidator(nil).IsValid(text)
}

// IsValid reports whether text survives every prompt rule.
func (v *Validator) IsValid(text string) bool {
	if text == "" || utf8.RuneCountInString(text) < minLineLength {
		return false
	}

	words := strings.Fields(text)
	if len(words) < minWordCount {
		return false
	}

	if digit.MatchString(text) {
		return false
	}

	lower := strings.ToLower(text)
	if interjection.MatchString(lower) || strings.Contains(lower, "haha") || strings.Contains(lower, "hehe") {
		laughs := 0
		for _, w := range words {
			if laughWordSet[letters(w)] {
				laughs++
			}
		}
		if float64(laughs) > float64(len(words))*maxLaughRatio {
			return false
		}
	}

	return !v.items[nonLetter.ReplaceAllString(lower, "")]
}

func letters(s string) string {
	return nonLetter.ReplaceAllString(strings.ToLower(s), "")
}

// LoadItems reads one item name per line. Names are normalized the same way
// line text is before matching; blank lines and '#' comments are skipped.
func LoadItems(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open items: %w", err)
	}
	defer f.Close()
	return parseItems(f)
}

func parseItems(r io.Reader) (map[string]bool, error) {
	items := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name := letters(line); name != "" {
			items[name] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return items, nil
}

func mustParseItems(r io.Reader) map[string]bool {
	items, err := parseItems(r)
	if err != nil {
		panic(err)
	}
	return items
}
