// Package rssout re-exports the aggregated article set as one combined RSS
// feed, so downstream readers can consume the merged stream.
package rssout

import (
	"context"
	"fmt"
	"time"

	"github.com/bilgisen/cryptonews/internal/news"
	"github.com/gorilla/feeds"
)

const maxItems = 100

// Exporter renders the aggregator's cached result set as RSS.
type Exporter struct {
	aggregator *news.Aggregator
	siteURL    string
}

func NewExporter(aggregator *news.Aggregator, siteURL string) *Exporter {
	return &Exporter{aggregator: aggregator, siteURL: siteURL}
}

// RSS returns the combined feed XML for the most recent articles.
func (e *Exporter) RSS(ctx context.Context) (string, error) {
	articles, err := e.aggregator.Top(ctx, maxItems)
	if err != nil {
		return "", fmt.Errorf("failed to aggregate articles for rss export: %w", err)
	}

	combined := &feeds.Feed{
		Title:       "Crypto News Portal",
		Link:        &feeds.Link{Href: e.siteURL},
		Description: "Aggregated cryptocurrency news from trusted sources",
		Created:     time.Now(),
	}

	for _, article := range articles {
		item := &feeds.Item{
			Title:       article.Title,
			Link:        &feeds.Link{Href: article.Link},
			Description: article.Description,
			Source:      &feeds.Link{Href: article.Link},
			Author:      &feeds.Author{Name: article.Source},
			Created:     article.Published,
			Enclosure:   &feeds.Enclosure{Url: article.Image, Type: "image/jpeg", Length: "0"},
		}
		combined.Items = append(combined.Items, item)
	}

	rss, err := combined.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to render rss export: %w", err)
	}
	return rss, nil
}
