package api

import (
	"errors"
	"time"

	"github.com/bilgisen/cryptonews/internal/logger"
	"github.com/bilgisen/cryptonews/internal/middleware"
	"github.com/bilgisen/cryptonews/internal/models"
	"github.com/bilgisen/cryptonews/internal/news"
	"github.com/bilgisen/cryptonews/internal/proxy"
	"github.com/bilgisen/cryptonews/internal/rssout"
	"github.com/bilgisen/cryptonews/internal/scrape"
	"github.com/bilgisen/cryptonews/internal/sitemap"
	"github.com/bilgisen/cryptonews/internal/views"
	"github.com/gofiber/fiber/v2"
)

const (
	newsLimit    = 100
	popularLimit = 10
)

// URLQuery is the query shape of every url-parameterized endpoint.
type URLQuery struct {
	URL string `query:"url" validate:"required"`
}

// RelatedQuery adds the optional category filter.
type RelatedQuery struct {
	URL      string `query:"url" validate:"required"`
	Category string `query:"category"`
}

type Handlers struct {
	aggregator *news.Aggregator
	proxy      *proxy.Proxy
	scraper    *scrape.Scraper
	counter    *views.Counter
	sitemap    *sitemap.Generator
	rss        *rssout.Exporter
}

func NewHandlers(
	aggregator *news.Aggregator,
	contentProxy *proxy.Proxy,
	scraper *scrape.Scraper,
	counter *views.Counter,
	sitemapGen *sitemap.Generator,
	rss *rssout.Exporter,
) *Handlers {
	return &Handlers{
		aggregator: aggregator,
		proxy:      contentProxy,
		scraper:    scraper,
		counter:    counter,
		sitemap:    sitemapGen,
		rss:        rss,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetNews handles GET /api/news
func (h *Handlers) GetNews(c *fiber.Ctx) error {
	articles, err := h.aggregator.Top(c.Context(), newsLimit)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error fetching news")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch news",
		})
	}
	return c.JSON(models.Views(articles))
}

// GetPopular handles GET /api/popular. Popularity is simulated by recency.
func (h *Handlers) GetPopular(c *fiber.Ctx) error {
	articles, err := h.aggregator.Top(c.Context(), popularLimit)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error fetching popular news")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch popular news",
		})
	}
	return c.JSON(models.Views(articles))
}

// GetArticle handles GET /api/article?url=
func (h *Handlers) GetArticle(c *fiber.Ctx) error {
	query := middleware.Query[URLQuery](c)

	article, err := h.aggregator.FindByURL(c.Context(), query.URL)
	if errors.Is(err, news.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Article not found in our feeds",
		})
	}
	if err != nil {
		logger.Get().Error().Err(err).Str("url", query.URL).Msg("Error fetching article")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch article",
		})
	}

	// Best effort: a failed scrape still returns the article metadata.
	content, err := h.scraper.FullContent(c.Context(), query.URL)
	if err != nil {
		logger.Get().Error().Err(err).Str("url", query.URL).Msg("Error fetching full article content")
	} else {
		article.Content = content
	}

	return c.JSON(article)
}

// GetViewCount handles GET /api/view-count?url=
func (h *Handlers) GetViewCount(c *fiber.Ctx) error {
	query := middleware.Query[URLQuery](c)
	return c.JSON(fiber.Map{
		"count": h.counter.Record(query.URL),
	})
}

// GetRelatedPosts handles GET /api/related-posts?url=&category=
func (h *Handlers) GetRelatedPosts(c *fiber.Ctx) error {
	query := middleware.Query[RelatedQuery](c)

	related, err := h.aggregator.Related(c.Context(), query.URL, query.Category)
	if err != nil {
		logger.Get().Error().Err(err).Str("url", query.URL).Msg("Error fetching related posts")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch related posts",
		})
	}
	return c.JSON(models.Views(related))
}

// ProxyContent handles GET /api/proxy-content?url=
func (h *Handlers) ProxyContent(c *fiber.Ctx) error {
	query := middleware.Query[URLQuery](c)

	result, err := h.proxy.Render(c.Context(), query.URL)
	if errors.Is(err, proxy.ErrUntrustedHost) {
		return c.Status(fiber.StatusForbidden).SendString("URL is not from a trusted source")
	}
	if err != nil {
		logger.Get().Error().Err(err).Str("url", query.URL).Msg("Proxy fallback failed")
		c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
		return c.Status(fiber.StatusInternalServerError).SendString(proxy.ErrorPage(query.URL))
	}

	c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
	if !result.Fallback {
		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	}
	return c.SendString(result.HTML)
}

// GetSitemap handles GET /sitemap.xml
func (h *Handlers) GetSitemap(c *fiber.Ctx) error {
	xml, err := h.sitemap.Generate(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error generating sitemap")
		return c.Status(fiber.StatusInternalServerError).SendString("Error generating sitemap")
	}

	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return c.SendString(xml)
}

// GetFeed handles GET /feed.xml
func (h *Handlers) GetFeed(c *fiber.Ctx) error {
	rss, err := h.rss.RSS(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error exporting rss feed")
		return c.Status(fiber.StatusInternalServerError).SendString("Error exporting feed")
	}

	c.Set(fiber.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return c.SendString(rss)
}
