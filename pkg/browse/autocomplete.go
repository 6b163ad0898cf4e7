package browse

import "strings"

// Autocomplete keeps the suggestion list and focus for a name search box.
type Autocomplete struct {
	names       []string
	suggestions []string
	focus       int
}

// NewAutocomplete creates an autocomplete over names, kept in the given order.
func NewAutocomplete(names []string) *Autocomplete {
	return &Autocomplete{names: names, focus: -1}
}

// Update recomputes suggestions for query and focuses the first one.
func (a *Autocomplete) Update(query string) []string {
	a.suggestions = a.matches(query)
	a.focus = -1
	if len(a.suggestions) > 0 {
		a.focus = 0
	}
	return a.suggestions
}

// Suggestions returns the current suggestions.
func (a *Autocomplete) Suggestions() []string { return a.suggestions }

// Down moves focus to the next suggestion, wrapping to the first.
func (a *Autocomplete) Down() {
	if len(a.suggestions) == 0 {
		return
	}
	a.focus = (a.focus + 1) % len(a.suggestions)
}

// Up moves focus to the previous suggestion, wrapping to the last.
func (a *Autocomplete) Up() {
	if len(a.suggestions) == 0 {
		return
	}
	a.focus--
	if a.focus < 0 {
		a.focus = len(a.suggestions) - 1
	}
}

// Focused returns the focused suggestion.
func (a *Autocomplete) Focused() (string, bool) {
	if a.focus < 0 || a.focus >= len(a.suggestions) {
		return "", false
	}
	return a.suggestions[a.focus], true
}

// Reset clears suggestions and focus.
func (a *Autocomplete) Reset() {
	a.suggestions = nil
	a.focus = -1
}

// Choose returns the focused suggestion. Without one it falls back to a
// case-insensitive exact match for query, then to the first match.
func (a *Autocomplete) Choose(query string) (string, bool) {
	if name, ok := a.Focused(); ok {
		return name, true
	}

	matches := a.matches(query)
	if len(matches) == 0 {
		return "", false
	}
	q := normalize(query)
	for _, name := range matches {
		if strings.ToLower(name) == q {
			return name, true
		}
	}
	return matches[0], true
}

// Resolve turns free typed input into a name: an exact case-insensitive
// match wins, otherwise the first suggestion for query.
func (a *Autocomplete) Resolve(query string) (string, bool) {
	q := normalize(query)
	for _, name := range a.names {
		if strings.ToLower(name) == q && q != "" {
			return name, true
		}
	}
	a.Update(query)
	return a.Choose(query)
}

func (a *Autocomplete) matches(query string) []string {
	q := normalize(query)
	if q == "" {
		return nil
	}
	var out []string
	for _, name := range a.names {
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, name)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
