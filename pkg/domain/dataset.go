package domain

import (
	"sort"
	"strings"
)

// Dataset is the immutable collection of characters loaded at startup.
// Characters are kept sorted by display name.
type Dataset struct {
	characters []Character
	byName     map[string]int
}

// NewDataset builds a dataset from raw records. Characters are re-sorted
// alphabetically; line order is preserved. When a name appears more than once
// the first record wins and the names of the dropped records are returned.
func NewDataset(records []Character) (*Dataset, []string) {
	var dropped []string
	seen := make(map[string]bool, len(records))
	chars := make([]Character, 0, len(records))
	for _, rec := range records {
		if seen[rec.Hero] {
			dropped = append(dropped, rec.Hero)
			continue
		}
		seen[rec.Hero] = true
		lines := make([]Line, len(rec.Lines))
		copy(lines, rec.Lines)
		chars = append(chars, Character{Hero: rec.Hero, Lines: lines})
	}

	sort.SliceStable(chars, func(i, j int) bool {
		a, b := strings.ToLower(chars[i].Hero), strings.ToLower(chars[j].Hero)
		if a == b {
			return chars[i].Hero < chars[j].Hero
		}
		return a < b
	})

	byName := make(map[string]int, len(chars))
	for i, c := range chars {
		byName[c.Hero] = i
	}

	return &Dataset{characters: chars, byName: byName}, dropped
}

// Len returns the number of characters.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.characters)
}

// Characters returns the characters in display order.
// The returned slice must not be modified.
func (d *Dataset) Characters() []Character {
	if d == nil {
		return nil
	}
	return d.characters
}

// Lookup finds a character by its exact display name.
func (d *Dataset) Lookup(name string) (Character, bool) {
	if d == nil {
		return Character{}, false
	}
	i, ok := d.byName[name]
	if !ok {
		return Character{}, false
	}
	return d.characters[i], true
}

// Records returns a copy of the dataset in its persisted shape.
func (d *Dataset) Records() []Character {
	out := make([]Character, 0, d.Len())
	for _, c := range d.Characters() {
		lines := make([]Line, len(c.Lines))
		copy(lines, c.Lines)
		out = append(out, Character{Hero: c.Hero, Lines: lines})
	}
	return out
}

// TotalLines counts lines across all characters.
func (d *Dataset) TotalLines() int {
	n := 0
	for _, c := range d.Characters() {
		n += len(c.Lines)
	}
	return n
}
