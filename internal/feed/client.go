package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bilgisen/cryptonews/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
)

// Feeds is the fixed set of aggregated sources.
var Feeds = []string{
	"https://cointelegraph.com/rss",
	"https://www.coindesk.com/arc/outboundfeeds/rss/",
	"https://crypto.news/feed/",
}

// Source fetches and parses one external feed URL into normalized entries.
type Source interface {
	Fetch(ctx context.Context, url string) ([]models.FeedEntry, error)
}

// Client fetches RSS/Atom feeds over HTTP and parses them with gofeed.
type Client struct {
	http   *resty.Client
	parser *gofeed.Parser
}

// NewClient builds a feed client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second),
		parser: gofeed.NewParser(),
	}
}

// Fetch retrieves a feed from the given URL and parses it into FeedEntries.
func (c *Client) Fetch(ctx context.Context, url string) ([]models.FeedEntry, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed from %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode(), url)
	}

	parsed, err := c.parser.ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed from %s: %w", url, err)
	}

	entries := make([]models.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		link := extractLink(item)
		if link == "" {
			continue
		}
		entries = append(entries, mapEntry(item, link, parsed.Title))
	}
	return entries, nil
}

func mapEntry(item *gofeed.Item, link, sourceTitle string) models.FeedEntry {
	entry := models.FeedEntry{
		Title:       item.Title,
		Link:        link,
		Description: item.Description,
		Content:     item.Content,
		PubDate:     item.Published,
		Source:      sourceTitle,
	}
	if item.Content == "" {
		// Some feeds carry the HTML body in the description element.
		entry.Content = item.Description
	}
	if item.PublishedParsed != nil {
		entry.Published = *item.PublishedParsed
	}
	if len(item.Enclosures) > 0 {
		entry.Enclosure = item.Enclosures[0].URL
	}
	if item.ITunesExt != nil {
		entry.ItunesImage = item.ITunesExt.Image
	}
	if entry.ItunesImage == "" && item.Image != nil {
		entry.ItunesImage = item.Image.URL
	}
	return entry
}

// extractLink returns the best available URL from a feed item, preferring the
// explicit link and falling back to the GUID when it looks like an HTTP URL.
func extractLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, "http") {
		return item.GUID
	}
	return ""
}
