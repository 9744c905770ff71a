// Package sitemap builds the XML sitemap from a fresh aggregation pass and
// caches it under its own freshness window.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"time"

	"github.com/bilgisen/cryptonews/internal/cache"
	"github.com/bilgisen/cryptonews/internal/news"
)

const (
	cacheKey    = "sitemap-xml"
	maxArticles = 100
	dateLayout  = "2006-01-02"
)

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// staticPages are the fixed front-end pages always present in the sitemap.
var staticPages = []struct {
	path       string
	changeFreq string
	priority   string
}{
	{"/", "daily", "1.0"},
	{"/index.html", "daily", "1.0"},
	{"/about.html", "weekly", "0.8"},
	{"/terms.html", "monthly", "0.6"},
	{"/privacy.html", "monthly", "0.6"},
}

// Generator builds and caches the sitemap. The article entries come from a
// fresh aggregation pass, not from the aggregate cache.
type Generator struct {
	aggregator *news.Aggregator
	store      cache.Store
	ttl        time.Duration
	siteURL    string
}

func NewGenerator(aggregator *news.Aggregator, store cache.Store, ttl time.Duration, siteURL string) *Generator {
	return &Generator{
		aggregator: aggregator,
		store:      store,
		ttl:        ttl,
		siteURL:    siteURL,
	}
}

// Generate returns the sitemap XML, rebuilt when the cached copy has aged
// out of the freshness window.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	return cache.GetOrFetch(ctx, g.store, cacheKey, g.ttl, g.build)
}

func (g *Generator) build(ctx context.Context) (string, error) {
	articles, err := g.aggregator.FetchFresh(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to aggregate articles for sitemap: %w", err)
	}
	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	today := time.Now().Format(dateLayout)
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]urlEntry, 0, len(staticPages)+len(articles)),
	}

	for _, page := range staticPages {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        g.siteURL + page.path,
			LastMod:    today,
			ChangeFreq: page.changeFreq,
			Priority:   page.priority,
		})
	}

	for _, article := range articles {
		lastMod := today
		if !article.Published.IsZero() {
			lastMod = article.Published.Format(dateLayout)
		}
		set.URLs = append(set.URLs, urlEntry{
			Loc:        g.siteURL + "/post.html?url=" + url.QueryEscape(article.Link),
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	body, err := xml.MarshalIndent(set, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal sitemap: %w", err)
	}
	return xml.Header + string(body), nil
}
