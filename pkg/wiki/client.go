package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"voicelines/pkg/httpclient"
)

const (
	// DefaultAPIURL is the Dota 2 fandom MediaWiki endpoint.
	DefaultAPIURL = "https://dota2.fandom.com/api.php"
	// DefaultCategory lists every voice-line page.
	DefaultCategory = "Category:Responses"
	// PageLimit is the largest cmlimit MediaWiki grants anonymous clients.
	PageLimit = 500
)

var (
	ErrPageMissing = errors.New("page is missing")
	ErrAPI         = errors.New("wiki API error")
)

// Client talks to a MediaWiki api.php endpoint.
type Client struct {
	apiURL string
	http   *httpclient.HTTPClient
	log    *zap.Logger
}

// NewClient creates a client for apiURL.
func NewClient(apiURL string, http *httpclient.HTTPClient, log *zap.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{apiURL: apiURL, http: http, log: log.Named("wiki")}
}

// CategoryMembers returns every member title of category, following the
// cmcontinue cursor until the listing is exhausted. Titles are de-duplicated
// keeping first-seen order.
func (c *Client) CategoryMembers(ctx context.Context, category string) ([]string, error) {
	var titles []string
	seen := make(map[string]bool)
	cursor := ""

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var resp categoryMembersResponse
		if err := c.http.GetJSON(ctx, c.categoryURL(category, cursor), &resp); err != nil {
			return nil, fmt.Errorf("list %s page %d: %w", category, page, err)
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrAPI, resp.Error.Code, resp.Error.Info)
		}

		for _, m := range resp.Query.CategoryMembers {
			if m.Title == "" || seen[m.Title] {
				continue
			}
			seen[m.Title] = true
			titles = append(titles, m.Title)
		}
		c.log.Debug("category page fetched",
			zap.Int("page", page),
			zap.Int("members", len(resp.Query.CategoryMembers)),
			zap.Int("total", len(titles)))

		if resp.Continue == nil || resp.Continue.CMContinue == "" {
			return titles, nil
		}
		if resp.Continue.CMContinue == cursor {
			return nil, fmt.Errorf("%w: cursor %q did not advance", ErrAPI, cursor)
		}
		cursor = resp.Continue.CMContinue
	}
}

// ParsePage returns the rendered HTML of title.
// ErrPageMissing is returned when the API has no parse result for it.
func (c *Client) ParsePage(ctx context.Context, title string) (string, error) {
	var resp parseResponse
	if err := c.http.GetJSON(ctx, c.parseURL(title), &resp); err != nil {
		return "", fmt.Errorf("parse %s: %w", title, err)
	}
	if resp.Parse == nil {
		if resp.Error != nil && resp.Error.Code != "missingtitle" {
			return "", fmt.Errorf("%w: %s: %s", ErrAPI, resp.Error.Code, resp.Error.Info)
		}
		return "", ErrPageMissing
	}
	return resp.Parse.Text["*"], nil
}

func (c *Client) categoryURL(category, cursor string) string {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "categorymembers")
	q.Set("cmtitle", category)
	q.Set("cmlimit", strconv.Itoa(PageLimit))
	q.Set("format", "json")
	if cursor != "" {
		q.Set("cmcontinue", cursor)
	}
	return c.apiURL + "?" + q.Encode()
}

func (c *Client) parseURL(title string) string {
	q := url.Values{}
	q.Set("action", "parse")
	q.Set("page", title)
	q.Set("format", "json")
	return c.apiURL + "?" + q.Encode()
}
