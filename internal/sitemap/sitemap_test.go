package sitemap

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bilgisen/cryptonews/internal/cache"
	"github.com/bilgisen/cryptonews/internal/models"
	"github.com/bilgisen/cryptonews/internal/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	entries []models.FeedEntry
	calls   atomic.Int32
}

func (s *stubSource) Fetch(context.Context, string) ([]models.FeedEntry, error) {
	s.calls.Add(1)
	return s.entries, nil
}

func TestGenerateIncludesStaticPagesAndArticles(t *testing.T) {
	published := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	source := &stubSource{entries: []models.FeedEntry{{
		Title:     "Story",
		Link:      "https://news.example.com/story?id=1",
		Content:   `<img src="https://cdn.example.com/story.jpg">`,
		Published: published,
		Source:    "Example News",
	}}}
	agg := news.NewAggregator(source, []string{"feed-a"}, cache.NewMemoryStore(), 5*time.Minute)
	gen := NewGenerator(agg, cache.NewMemoryStore(), 5*time.Minute, "http://localhost:3000")

	xml, err := gen.Generate(context.Background())
	require.NoError(t, err)

	assert.Contains(t, xml, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, xml, "<loc>http://localhost:3000/</loc>")
	assert.Contains(t, xml, "<loc>http://localhost:3000/about.html</loc>")
	assert.Contains(t, xml, "<loc>http://localhost:3000/privacy.html</loc>")
	// Article URLs are query-escaped into the post page link.
	assert.Contains(t, xml, "/post.html?url=https%3A%2F%2Fnews.example.com%2Fstory%3Fid%3D1")
	assert.Contains(t, xml, "<lastmod>2025-08-30</lastmod>")
	assert.Contains(t, xml, "<changefreq>weekly</changefreq>")
	assert.Contains(t, xml, "<priority>0.7</priority>")
}

func TestGenerateCachesIndependentlyOfAggregateCache(t *testing.T) {
	source := &stubSource{entries: []models.FeedEntry{{
		Title:   "Story",
		Link:    "https://news.example.com/story",
		Content: `<img src="https://cdn.example.com/story.jpg">`,
		Source:  "Example News",
	}}}
	agg := news.NewAggregator(source, []string{"feed-a"}, cache.NewMemoryStore(), 5*time.Minute)
	gen := NewGenerator(agg, cache.NewMemoryStore(), 5*time.Minute, "http://localhost:3000")

	// Warm the aggregate cache; the sitemap still does its own fresh pass.
	_, err := agg.FetchAll(context.Background())
	require.NoError(t, err)
	warmCalls := source.calls.Load()

	_, err = gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, warmCalls+1, source.calls.Load(), "sitemap generation performs a fresh aggregation pass")

	// A second generation inside the window serves the cached XML.
	_, err = gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, warmCalls+1, source.calls.Load())
}
