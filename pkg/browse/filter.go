package browse

import (
	"strings"

	"voicelines/pkg/domain"
)

// FilterCharacters returns the characters whose name contains query,
// ignoring case. An empty query returns every character in display order.
func FilterCharacters(ds *domain.Dataset, query string) []domain.Character {
	chars := ds.Characters()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return chars
	}

	var out []domain.Character
	for _, c := range chars {
		if strings.Contains(strings.ToLower(c.Hero), q) {
			out = append(out, c)
		}
	}
	return out
}

// FilterLines returns the lines of char whose text contains query, ignoring case.
func FilterLines(char domain.Character, query string) []domain.Line {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return char.Lines
	}

	var out []domain.Line
	for _, l := range char.Lines {
		if strings.Contains(strings.ToLower(l.Text), q) {
			out = append(out, l)
		}
	}
	return out
}
