package models

import "time"

// FeedEntry is a raw entry from one source, before image extraction and
// validation. Content, Enclosure and ItunesImage are only consumed by the
// image extractor.
type FeedEntry struct {
	Title       string
	Link        string
	Description string
	Content     string
	Enclosure   string
	ItunesImage string
	PubDate     string
	Published   time.Time
	Source      string
}

// Article is the full normalized record held in the aggregate cache.
// Image is always non-empty and has passed validation.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description,omitempty"`
	PubDate     string    `json:"pubDate"`
	Published   time.Time `json:"published,omitzero"`
	Source      string    `json:"source"`
	Image       string    `json:"image"`
	Content     string    `json:"content,omitempty"`
}

// NewsItem is the trimmed list view served by /api/news, /api/popular and
// /api/related-posts.
type NewsItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Image   string `json:"image"`
	PubDate string `json:"pubDate"`
	Source  string `json:"source"`
}

// View converts an Article to its list representation.
func (a Article) View() NewsItem {
	return NewsItem{
		Title:   a.Title,
		Link:    a.Link,
		Image:   a.Image,
		PubDate: a.PubDate,
		Source:  a.Source,
	}
}

// Views maps a slice of Articles to their list representations.
func Views(articles []Article) []NewsItem {
	items := make([]NewsItem, len(articles))
	for i, a := range articles {
		items[i] = a.View()
	}
	return items
}
