package worker

import (
	"context"
	"errors"
	"fmt"

	"voicelines/pkg/content"
	"voicelines/pkg/domain"
	"voicelines/pkg/wiki"
)

// PageSource renders wiki pages to HTML.
type PageSource interface {
	ParsePage(ctx context.Context, title string) (string, error)
}

// Worker turns one voice-line page into a character.
type Worker struct {
	pages     PageSource
	extractor content.Extractor
	marker    string
}

// NewWorker creates a new worker
func NewWorker(pages PageSource, extractor content.Extractor, marker string) *Worker {
	if extractor == nil {
		extractor = content.NewListItemExtractor()
	}
	return &Worker{
		pages:     pages,
		extractor: extractor,
		marker:    marker,
	}
}

// ProcessTitle fetches and extracts a page. Missing pages and pages without
// any line yield a nil character and no error.
func (w *Worker) ProcessTitle(ctx context.Context, title string) (*domain.Character, error) {
	html, err := w.pages.ParsePage(ctx, title)
	if errors.Is(err, wiki.ErrPageMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	lines, err := w.extractor.ExtractLines(html)
	if errors.Is(err, content.ErrEmptyHTML) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to extract lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	return &domain.Character{
		Hero:  content.HeroName(title, w.marker),
		Lines: lines,
	}, nil
}
