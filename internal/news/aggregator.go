// Package news implements the feed aggregation core: fetching all configured
// sources, filtering entries down to image-validated articles and exposing
// the ranked views served by the API.
package news

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bilgisen/cryptonews/internal/cache"
	"github.com/bilgisen/cryptonews/internal/feed"
	"github.com/bilgisen/cryptonews/internal/logger"
	"github.com/bilgisen/cryptonews/internal/models"
)

// ErrNotFound is returned when no aggregated article matches a lookup URL.
var ErrNotFound = errors.New("article not found in any feed")

// aggregateCacheKey is the single global key for the merged result set.
const aggregateCacheKey = "all-feeds-data"

const (
	relatedLimit     = 5
	minCategoryMatch = 3
)

// Aggregator orchestrates fetching all configured feeds and caches the
// merged result set under a freshness window.
type Aggregator struct {
	source feed.Source
	feeds  []string
	store  cache.Store
	ttl    time.Duration
}

func NewAggregator(source feed.Source, feeds []string, store cache.Store, ttl time.Duration) *Aggregator {
	return &Aggregator{
		source: source,
		feeds:  feeds,
		store:  store,
		ttl:    ttl,
	}
}

// FeedURLs returns the configured source URLs.
func (a *Aggregator) FeedURLs() []string {
	return a.feeds
}

// FetchAll returns the merged, sorted article set, served from the cache
// while it is within the freshness window.
func (a *Aggregator) FetchAll(ctx context.Context) ([]models.Article, error) {
	return cache.GetOrFetch(ctx, a.store, aggregateCacheKey, a.ttl, a.FetchFresh)
}

// FetchFresh performs a full aggregation pass across all sources, bypassing
// the cache. A single source's failure is logged and skipped; it never
// aborts the pass.
func (a *Aggregator) FetchFresh(ctx context.Context) ([]models.Article, error) {
	log := logger.Get()
	start := time.Now()

	type result struct {
		url      string
		articles []models.Article
		err      error
	}

	results := make(chan result, len(a.feeds))
	var wg sync.WaitGroup

	for _, url := range a.feeds {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			entries, err := a.source.Fetch(ctx, u)
			if err != nil {
				results <- result{url: u, err: err}
				return
			}
			results <- result{url: u, articles: collectArticles(entries)}
		}(url)
	}

	wg.Wait()
	close(results)

	var merged []models.Article
	seen := make(map[string]bool)
	failed := 0

	for res := range results {
		if res.err != nil {
			failed++
			log.Error().
				Err(res.err).
				Str("feed_url", res.url).
				Msg("Error fetching feed, skipping source")
			continue
		}
		for _, article := range res.articles {
			if seen[article.Link] {
				continue
			}
			seen[article.Link] = true
			merged = append(merged, article)
		}
	}

	sortByDate(merged)

	log.Info().
		Int("articles", len(merged)).
		Int("failed_sources", failed).
		Dur("duration", time.Since(start)).
		Msg("Aggregated feeds")

	return merged, nil
}

// collectArticles maps the entries that survive image extraction and
// validation. Entries without a valid image are dropped entirely.
func collectArticles(entries []models.FeedEntry) []models.Article {
	articles := make([]models.Article, 0, len(entries))
	for _, entry := range entries {
		image := feed.ExtractImage(entry)
		if !feed.IsValidImage(image) {
			continue
		}
		articles = append(articles, models.Article{
			Title:       entry.Title,
			Link:        entry.Link,
			Description: entry.Description,
			PubDate:     entry.PubDate,
			Published:   entry.Published,
			Source:      entry.Source,
			Image:       image,
		})
	}
	return articles
}

// Top returns the n most recent articles.
func (a *Aggregator) Top(ctx context.Context, n int) ([]models.Article, error) {
	articles, err := a.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(articles) > n {
		articles = articles[:n]
	}
	return articles, nil
}

// FindByURL returns the article whose link exactly equals url. No
// normalization is applied to either side.
func (a *Aggregator) FindByURL(ctx context.Context, url string) (models.Article, error) {
	articles, err := a.FetchAll(ctx)
	if err != nil {
		return models.Article{}, err
	}
	for _, article := range articles {
		if article.Link == url {
			return article, nil
		}
	}
	return models.Article{}, ErrNotFound
}

// Related returns up to five articles related to url, never including the
// article itself. When a category is supplied, matching articles come first;
// if fewer than three match, the remaining sorted articles back-fill the pool.
func (a *Aggregator) Related(ctx context.Context, url, category string) ([]models.Article, error) {
	articles, err := a.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	pool := make([]models.Article, 0, len(articles))
	for _, article := range articles {
		if article.Link != url {
			pool = append(pool, article)
		}
	}

	if category != "" {
		matched := make([]models.Article, 0, len(pool))
		var rest []models.Article
		for _, article := range pool {
			if MatchesCategory(article, category) {
				matched = append(matched, article)
			} else {
				rest = append(rest, article)
			}
		}
		if len(matched) < minCategoryMatch {
			matched = append(matched, rest...)
		}
		pool = matched
	}

	if len(pool) > relatedLimit {
		pool = pool[:relatedLimit]
	}
	return pool, nil
}
