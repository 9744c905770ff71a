package feed

import (
	"regexp"
	"strings"

	"github.com/bilgisen/cryptonews/internal/models"
)

var imgSrcRegex = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)

// extraction strategies, tried in order; the first non-empty result wins.
var imageStrategies = []func(models.FeedEntry) string{
	fromContent,
	fromEnclosure,
	fromItunesImage,
}

// ExtractImage derives a representative image URL for an entry, or returns
// an empty string when no strategy yields one. Pure string inspection, no
// network access.
func ExtractImage(entry models.FeedEntry) string {
	for _, strategy := range imageStrategies {
		if url := strategy(entry); url != "" {
			return url
		}
	}
	return ""
}

// fromContent scans the entry's content HTML for the first <img src="...">.
func fromContent(entry models.FeedEntry) string {
	if entry.Content == "" {
		return ""
	}
	match := imgSrcRegex.FindStringSubmatch(entry.Content)
	if match == nil {
		return ""
	}
	return match[1]
}

func fromEnclosure(entry models.FeedEntry) string {
	return entry.Enclosure
}

func fromItunesImage(entry models.FeedEntry) string {
	return entry.ItunesImage
}

// junkTokens mark placeholder images. Substring matches, so legitimate URLs
// containing one of these tokens are rejected too.
var junkTokens = []string{
	"placeholder.com",
	"placeholder",
	"temp",
	"dummy",
	"no-image",
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// IsValidImage reports whether an image URL looks like a real photo rather
// than a placeholder. Extension checks run against the raw URL, so a query
// string after the extension fails the check.
func IsValidImage(url string) bool {
	if url == "" {
		return false
	}

	for _, token := range junkTokens {
		if strings.Contains(url, token) {
			return false
		}
	}

	if !strings.HasPrefix(url, "http") {
		return false
	}

	for _, ext := range imageExtensions {
		if strings.HasSuffix(url, ext) {
			return true
		}
	}
	return strings.Contains(url, "/images/") || strings.Contains(url, "img.")
}
