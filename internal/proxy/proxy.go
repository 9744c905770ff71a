// Package proxy relays external article HTML so the front end can embed it
// in an iframe despite framing restrictions.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/bilgisen/cryptonews/internal/logger"
	"github.com/bilgisen/cryptonews/internal/models"
	"github.com/bilgisen/cryptonews/internal/news"
	"github.com/go-resty/resty/v2"
)

// ErrUntrustedHost is returned when the requested URL's hostname does not
// belong to any configured feed source. No outbound fetch is attempted.
var ErrUntrustedHost = errors.New("url is not from a trusted source")

var (
	scriptRegex   = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	viewportRegex = regexp.MustCompile(`(?i)<meta[^>]*name=["']viewport["'][^>]*>`)
)

// browserHeaders is the request profile used against article pages; some
// publishers refuse requests that do not look like a browser.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Cache-Control":             "no-cache",
}

// Result is a rendered proxy response. Fallback marks pages synthesized
// from aggregator metadata instead of fetched from the origin.
type Result struct {
	HTML     string
	Fallback bool
}

// Proxy fetches and sanitizes article pages from trusted feed hosts.
type Proxy struct {
	aggregator *news.Aggregator
	trusted    map[string]bool
	fetch      func(ctx context.Context, target string) (string, error)
}

func New(aggregator *news.Aggregator, timeout time.Duration, maxRedirects int) *Proxy {
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
		SetHeaders(browserHeaders)

	trusted := make(map[string]bool)
	for _, feedURL := range aggregator.FeedURLs() {
		if parsed, err := url.Parse(feedURL); err == nil {
			trusted[parsed.Hostname()] = true
		}
	}

	return &Proxy{
		aggregator: aggregator,
		trusted:    trusted,
		fetch: func(ctx context.Context, target string) (string, error) {
			resp, err := client.R().SetContext(ctx).Get(target)
			if err != nil {
				return "", fmt.Errorf("failed to fetch %s: %w", target, err)
			}
			if resp.StatusCode() != http.StatusOK {
				return "", fmt.Errorf("unexpected status code %d from %s", resp.StatusCode(), target)
			}
			return string(resp.Body()), nil
		},
	}
}

// Render returns the sanitized article page for target, or a synthesized
// metadata page when the origin fetch fails. It returns ErrUntrustedHost
// without fetching when the hostname is not a feed source's.
func (p *Proxy) Render(ctx context.Context, target string) (Result, error) {
	parsed, err := url.Parse(target)
	if err != nil || !p.trusted[parsed.Hostname()] {
		return Result{}, ErrUntrustedHost
	}

	body, err := p.fetch(ctx, target)
	if err != nil {
		logger.Get().Error().
			Err(err).
			Str("url", target).
			Msg("Error proxying content, synthesizing fallback page")
		return p.renderFallback(ctx, target)
	}

	return Result{HTML: Sanitize(body)}, nil
}

// Sanitize strips script blocks and viewport meta tags by text substitution.
// Best effort, not a full XSS-proof sanitizer; everything else passes
// through unchanged.
func Sanitize(html string) string {
	html = scriptRegex.ReplaceAllString(html, "")
	return viewportRegex.ReplaceAllString(html, "")
}

// renderFallback builds a minimal article page from whatever metadata the
// aggregator knows about target. It always succeeds unless template
// rendering itself fails; a miss just renders generic placeholders.
func (p *Proxy) renderFallback(ctx context.Context, target string) (Result, error) {
	var article models.Article
	if found, err := p.aggregator.FindByURL(ctx, target); err == nil {
		article = found
	}

	html, err := fallbackPage(article, target)
	if err != nil {
		return Result{}, fmt.Errorf("failed to render fallback page: %w", err)
	}
	return Result{HTML: html, Fallback: true}, nil
}
