package proxy

import (
	"html/template"
	"strings"
	"time"

	"github.com/bilgisen/cryptonews/internal/models"
)

var fallbackTemplate = template.Must(template.New("fallback").Parse(`<html>
    <head>
        <title>{{.Title}}</title>
        <style>
            body { font-family: Arial, sans-serif; margin: 20px; line-height: 1.6; }
            .header { border-bottom: 2px solid #3a86ff; padding-bottom: 10px; margin-bottom: 20px; }
            .title { color: #222; margin-bottom: 10px; }
            .meta { color: #666; font-size: 0.9em; margin-bottom: 15px; }
            .content { color: #333; }
            .original-link { margin-top: 20px; padding-top: 10px; border-top: 1px solid #eee; }
        </style>
    </head>
    <body>
        <div class="header">
            <h1 class="title">{{.Title}}</h1>
            <div class="meta">
                <span>Date: {{.Date}}</span> |
                <span>Source: {{.Source}}</span>
            </div>
        </div>
        <div class="content">
            <p>{{.Description}}</p>
        </div>
        <div class="original-link">
            <a href="{{.URL}}" target="_blank">View Original Article</a>
        </div>
    </body>
</html>
`))

// errorTemplate is only rendered when fallback synthesis itself fails.
var errorTemplate = template.Must(template.New("error").Parse(`<html>
    <head><title>Unable to load article</title></head>
    <body>
        <h2>Unable to load article</h2>
        <p>There was an error loading the requested article content.</p>
        <p><a href="{{.URL}}" target="_blank">View Original Article</a></p>
    </body>
</html>
`))

type fallbackData struct {
	Title       string
	Date        string
	Source      string
	Description string
	URL         string
}

// fallbackPage renders the synthesized article page. Every missing metadata
// field falls back to a generic placeholder.
func fallbackPage(article models.Article, target string) (string, error) {
	data := fallbackData{
		Title:       article.Title,
		Date:        article.PubDate,
		Source:      article.Source,
		Description: article.Description,
		URL:         target,
	}
	if data.Title == "" {
		data.Title = "Article"
	}
	if data.Date == "" {
		data.Date = time.Now().Format("Mon Jan 02 2006")
	}
	if data.Source == "" {
		data.Source = target
	}
	if data.Description == "" {
		data.Description = "Content could not be loaded. Please view the original article."
	}

	var sb strings.Builder
	if err := fallbackTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ErrorPage renders the terminal error page for target.
func ErrorPage(target string) string {
	var sb strings.Builder
	if err := errorTemplate.Execute(&sb, struct{ URL string }{URL: target}); err != nil {
		return "<html><body><h2>Unable to load article</h2></body></html>"
	}
	return sb.String()
}
