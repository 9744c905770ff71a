package news

import (
	"sort"

	"github.com/bilgisen/cryptonews/internal/models"
)

// sortByDate stable-sorts articles by publish date, newest first. Articles
// with an unparsable date carry the zero time, so they sort after every
// dated article.
func sortByDate(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
}
