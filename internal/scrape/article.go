// Package scrape extracts full article bodies from publisher pages on a
// best-effort basis.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// contentSelectors is the priority list of places publishers commonly put
// the article body; the first whose text is long enough wins.
var contentSelectors = []string{
	"article .content",
	"article div",
	".post-content",
	".article-content",
	".entry-content",
	".post-body",
	".story-body",
	"main .content",
	".content article",
	"article",
}

const (
	minContentLength   = 100
	minParagraphLength = 20
	maxParagraphs      = 10
)

// Scraper fetches publisher pages and extracts their article content.
type Scraper struct {
	http *resty.Client
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; CryptoNewsBot/1.0)"),
	}
}

// FullContent fetches target and returns the extracted article body HTML.
// Heuristic across arbitrary sites; an empty result is not an error.
func (s *Scraper) FullContent(ctx context.Context, target string) (string, error) {
	resp, err := s.http.R().SetContext(ctx).Get(target)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article page %s: %w", target, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d from %s", resp.StatusCode(), target)
	}
	return ExtractContent(string(resp.Body()))
}

// ExtractContent walks the selector priority list and returns the first
// match with substantial text, falling back to concatenated paragraphs.
func ExtractContent(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse article html: %w", err)
	}

	for _, selector := range contentSelectors {
		element := doc.Find(selector).First()
		if element.Length() == 0 {
			continue
		}
		if len(strings.TrimSpace(element.Text())) > minContentLength {
			inner, err := element.Html()
			if err != nil {
				continue
			}
			return inner, nil
		}
	}

	return collectParagraphs(doc), nil
}

// collectParagraphs gathers meaningful <p> elements when no selector
// matched, bounded to avoid excessive content.
func collectParagraphs(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) > minParagraphLength {
			paragraphs = append(paragraphs, "<p>"+text+"</p>")
		}
		return len(paragraphs) < maxParagraphs
	})
	return strings.Join(paragraphs, "")
}
