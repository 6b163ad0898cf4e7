package filter

import (
	"context"
	"fmt"
	"strings"
)

// Filter defines the interface for page title filtering
type Filter interface {
	ShouldKeep(ctx context.Context, title string) (bool, error)
}

// FilterTitles applies all filters to a list of titles, keeping order.
func FilterTitles(ctx context.Context, titles []string, filters ...Filter) ([]string, error) {
	filtered := make([]string, 0, len(titles))

	for _, title := range titles {
		keep := true
		for _, f := range filters {
			shouldKeep, err := f.ShouldKeep(ctx, title)
			if err != nil {
				return nil, fmt.Errorf("filter error for title %s: %w", title, err)
			}
			if !shouldKeep {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, title)
		}
	}

	return filtered, nil
}

// ContainsFilter keeps titles containing a marker substring (e.g. "Responses")
type ContainsFilter struct {
	marker string
}

// NewContainsFilter creates a new marker filter
func NewContainsFilter(marker string) *ContainsFilter {
	return &ContainsFilter{marker: marker}
}

// ShouldKeep returns true if title contains the marker
func (f *ContainsFilter) ShouldKeep(ctx context.Context, title string) (bool, error) {
	return strings.Contains(title, f.marker), nil
}

// TitleSetFilter keeps only titles present in the provided set
type TitleSetFilter struct {
	titles map[string]bool
}

// NewTitleSetFilter creates a filter from a list of wanted titles
func NewTitleSetFilter(titles []string) *TitleSetFilter {
	set := make(map[string]bool, len(titles))
	for _, t := range titles {
		set[t] = true
	}
	return &TitleSetFilter{titles: set}
}

// ShouldKeep returns true if title is in the set
func (f *TitleSetFilter) ShouldKeep(ctx context.Context, title string) (bool, error) {
	return f.titles[title], nil
}
