package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"voicelines/pkg/domain"
)

var ErrEmptyHTML = errors.New("empty HTML content")

// Extractor turns rendered page HTML into voice lines.
type Extractor interface {
	ExtractLines(htmlContent string) ([]domain.Line, error)
}

// ListItemExtractor reads lines from <li> elements that carry an audio source.
type ListItemExtractor struct{}

// NewListItemExtractor creates the default extractor for fandom response pages.
func NewListItemExtractor() *ListItemExtractor {
	return &ListItemExtractor{}
}

// ExtractLines implements Extractor.
func (e *ListItemExtractor) ExtractLines(htmlContent string) ([]domain.Line, error) {
	return ExtractLines(htmlContent)
}

// ExtractLines finds every list item with an <audio><source src> and pairs the
// source with the item's cleaned text. Nested lists are excluded so each clip
// is attributed to its own item only. Items whose text is empty after
// cleaning are dropped.
func ExtractLines(htmlContent string) ([]domain.Line, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return nil, ErrEmptyHTML
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var lines []domain.Line
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		item := li.Clone()
		item.Find("ul, ol").Remove()

		src, ok := item.Find("audio source[src]").First().Attr("src")
		src = strings.TrimSpace(src)
		if !ok || src == "" {
			return
		}

		item.Find("audio").Remove()
		text := CleanTranscript(item.Text())
		if text == "" {
			return
		}

		lines = append(lines, domain.Line{Audio: src, Text: text})
	})

	return lines, nil
}
