package news

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bilgisen/cryptonews/internal/cache"
	"github.com/bilgisen/cryptonews/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource serves canned entries or errors per feed URL and counts calls.
type stubSource struct {
	entries map[string][]models.FeedEntry
	errs    map[string]error
	calls   atomic.Int32
}

func (s *stubSource) Fetch(_ context.Context, url string) ([]models.FeedEntry, error) {
	s.calls.Add(1)
	if err := s.errs[url]; err != nil {
		return nil, err
	}
	return s.entries[url], nil
}

func entry(title, link, image string, published time.Time) models.FeedEntry {
	return models.FeedEntry{
		Title:     title,
		Link:      link,
		Content:   `<img src="` + image + `">`,
		PubDate:   published.Format(time.RFC1123Z),
		Published: published,
		Source:    "Stub Feed",
	}
}

func newTestAggregator(source *stubSource, feeds []string) *Aggregator {
	return NewAggregator(source, feeds, cache.NewMemoryStore(), 5*time.Minute)
}

func TestFetchAllToleratesFailingSource(t *testing.T) {
	now := time.Now()
	source := &stubSource{
		entries: map[string][]models.FeedEntry{
			"feed-a": {entry("Valid", "https://a.example.com/1", "https://cdn.example.com/1.jpg", now)},
			"feed-b": {entry("Junk image", "https://b.example.com/1", "https://via.placeholder.com/600.jpg", now)},
		},
		errs: map[string]error{
			"feed-c": errors.New("connection refused"),
		},
	}
	agg := newTestAggregator(source, []string{"feed-a", "feed-b", "feed-c"})

	articles, err := agg.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://a.example.com/1", articles[0].Link)
	assert.Equal(t, "https://cdn.example.com/1.jpg", articles[0].Image)
}

func TestFetchAllSortsNewestFirstWithUndatedLast(t *testing.T) {
	now := time.Now()
	source := &stubSource{
		entries: map[string][]models.FeedEntry{
			"feed-a": {
				entry("Old", "https://a.example.com/old", "https://cdn.example.com/old.jpg", now.Add(-2*time.Hour)),
				entry("New", "https://a.example.com/new", "https://cdn.example.com/new.jpg", now),
				entry("Undated", "https://a.example.com/undated", "https://cdn.example.com/un.jpg", time.Time{}),
				entry("Middle", "https://a.example.com/mid", "https://cdn.example.com/mid.jpg", now.Add(-time.Hour)),
			},
		},
	}
	agg := newTestAggregator(source, []string{"feed-a"})

	articles, err := agg.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 4)
	assert.Equal(t, "New", articles[0].Title)
	assert.Equal(t, "Middle", articles[1].Title)
	assert.Equal(t, "Old", articles[2].Title)
	assert.Equal(t, "Undated", articles[3].Title)
}

func TestFetchAllDeduplicatesByLink(t *testing.T) {
	now := time.Now()
	shared := entry("Shared", "https://a.example.com/1", "https://cdn.example.com/1.jpg", now)
	source := &stubSource{
		entries: map[string][]models.FeedEntry{
			"feed-a": {shared},
			"feed-b": {shared},
		},
	}
	agg := newTestAggregator(source, []string{"feed-a", "feed-b"})

	articles, err := agg.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestFetchAllServesFromCacheWithinWindow(t *testing.T) {
	now := time.Now()
	source := &stubSource{
		entries: map[string][]models.FeedEntry{
			"feed-a": {entry("Valid", "https://a.example.com/1", "https://cdn.example.com/1.jpg", now)},
		},
	}
	agg := newTestAggregator(source, []string{"feed-a"})

	first, err := agg.FetchAll(context.Background())
	require.NoError(t, err)
	second, err := agg.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Link, second[i].Link)
		assert.Equal(t, first[i].Image, second[i].Image)
	}
	assert.Equal(t, int32(1), source.calls.Load(), "second call must be served from cache")
}

func TestTopTruncates(t *testing.T) {
	now := time.Now()
	var entries []models.FeedEntry
	for _, link := range []string{"1", "2", "3"} {
		entries = append(entries, entry("Item "+link, "https://a.example.com/"+link, "https://cdn.example.com/"+link+".jpg", now))
	}
	source := &stubSource{entries: map[string][]models.FeedEntry{"feed-a": entries}}
	agg := newTestAggregator(source, []string{"feed-a"})

	top, err := agg.Top(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestFindByURLExactMatch(t *testing.T) {
	now := time.Now()
	source := &stubSource{
		entries: map[string][]models.FeedEntry{
			"feed-a": {entry("Valid", "https://a.example.com/1", "https://cdn.example.com/1.jpg", now)},
		},
	}
	agg := newTestAggregator(source, []string{"feed-a"})

	article, err := agg.FindByURL(context.Background(), "https://a.example.com/1")
	require.NoError(t, err)
	assert.Equal(t, "Valid", article.Title)

	// Trailing slash is a different URL; no normalization happens.
	_, err = agg.FindByURL(context.Background(), "https://a.example.com/1/")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelatedExcludesSelfAndCapsAtFive(t *testing.T) {
	now := time.Now()
	var entries []models.FeedEntry
	for _, link := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		entries = append(entries, entry("Item "+link, "https://a.example.com/"+link, "https://cdn.example.com/"+link+".jpg", now))
	}
	source := &stubSource{entries: map[string][]models.FeedEntry{"feed-a": entries}}
	agg := newTestAggregator(source, []string{"feed-a"})

	related, err := agg.Related(context.Background(), "https://a.example.com/1", "")
	require.NoError(t, err)
	assert.Len(t, related, 5)
	for _, article := range related {
		assert.NotEqual(t, "https://a.example.com/1", article.Link)
	}
}

func TestRelatedCategoryFilterWithBackfill(t *testing.T) {
	now := time.Now()
	bitcoin := entry("Bitcoin rallies", "https://a.example.com/btc", "https://cdn.example.com/btc.jpg", now)
	other1 := entry("Market roundup", "https://a.example.com/m1", "https://cdn.example.com/m1.jpg", now.Add(-time.Hour))
	other2 := entry("Exchange news", "https://a.example.com/m2", "https://cdn.example.com/m2.jpg", now.Add(-2*time.Hour))
	source := &stubSource{
		entries: map[string][]models.FeedEntry{"feed-a": {bitcoin, other1, other2}},
	}
	agg := newTestAggregator(source, []string{"feed-a"})

	// Only one bitcoin match exists, so non-matching items back-fill the pool.
	related, err := agg.Related(context.Background(), "https://a.example.com/other", "bitcoin")
	require.NoError(t, err)
	require.Len(t, related, 3)
	assert.Equal(t, "Bitcoin rallies", related[0].Title)
}

func TestMatchesCategory(t *testing.T) {
	article := models.Article{Title: "Ethereum upgrade ships", Description: "rollups galore"}

	assert.True(t, MatchesCategory(article, "ethereum"))
	assert.False(t, MatchesCategory(article, "bitcoin"))
	// Unknown categories match on the raw token.
	assert.True(t, MatchesCategory(article, "rollups"))
	assert.True(t, MatchesCategory(article, ""))
}

func TestMatchesCategoryKeywordSets(t *testing.T) {
	cases := []struct {
		name     string
		title    string
		category string
		matches  bool
	}{
		{"defi via staking", "Staking rewards surge on leading DEX", "defi", true},
		{"defi via uniswap", "Uniswap volume hits a record", "defi", true},
		{"defi via aave", "Aave expands collateral options", "defi", true},
		{"nfts via opensea", "OpenSea lists a new collection", "nfts", true},
		{"nfts via bored ape", "Bored Ape floor price recovers", "nfts", true},
		{"regulation via policy", "New policy framework proposed", "regulation", true},
		{"regulation via legal", "Exchange faces legal challenge", "regulation", true},
		{"web3 via dapps", "Dapps see record daily users", "web3", true},
		{"altcoins via alt coins", "Alt coins rally across the board", "altcoins", true},
		// Tokens must match at the end of the text too.
		{"ethereum at end", "Traders rotate into ETH", "ethereum", true},
		{"regulation at end", "New filing lands at the SEC", "regulation", true},
		{"no keyword", "Mining hardware supply update", "defi", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			article := models.Article{Title: tc.title}
			assert.Equal(t, tc.matches, MatchesCategory(article, tc.category))
		})
	}
}
