package wiki

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"voicelines/pkg/httpclient"
)

// RecentChanges reads the Special:RecentChanges Atom/RSS feed of a wiki.
type RecentChanges struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewRecentChanges creates a feed reader that fetches through client.
func NewRecentChanges(feedURL string, client *httpclient.HTTPClient) *RecentChanges {
	parser := gofeed.NewParser()
	parser.UserAgent = httpclient.UserAgent
	if client != nil {
		parser.Client = client.HTTP()
	}
	return &RecentChanges{feedURL: feedURL, parser: parser}
}

// DefaultFeedURL derives the recent-changes feed from an api.php URL.
func DefaultFeedURL(apiURL string) string {
	base := strings.TrimSuffix(apiURL, "/api.php")
	return base + "/wiki/Special:RecentChanges?feed=atom"
}

// ChangedTitles returns the distinct page titles changed after since, newest first.
// A zero since returns every title in the feed.
func (r *RecentChanges) ChangedTitles(ctx context.Context, since time.Time) ([]string, error) {
	feed, err := r.parser.ParseURLWithContext(r.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recent changes feed: %w", err)
	}
	return changedTitles(feed, since), nil
}

func changedTitles(feed *gofeed.Feed, since time.Time) []string {
	var titles []string
	seen := make(map[string]bool)
	for _, item := range feed.Items {
		if !since.IsZero() {
			when := item.UpdatedParsed
			if when == nil {
				when = item.PublishedParsed
			}
			if when != nil && !when.After(since) {
				continue
			}
		}
		title := strings.TrimSpace(item.Title)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	return titles
}
