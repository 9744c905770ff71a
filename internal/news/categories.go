package news

import (
	"strings"

	"github.com/bilgisen/cryptonews/internal/models"
)

// categoryKeywords maps each known category to the tokens that classify an
// article into it. Matching is a case-insensitive substring check against
// the article's title and description.
var categoryKeywords = map[string][]string{
	"bitcoin":  {"bitcoin", "btc"},
	"ethereum": {"ethereum", "eth"},
	"altcoins": {"altcoin", "alt coins", "dogecoin", "solana", "cardano", "litecoin"},
	"defi": {
		"defi", "decentralized finance", "yield farming", "staking",
		"dex", "uniswap", "compound", "aave",
	},
	"nfts": {
		"nft", "non-fungible token", "opensea", "foundation",
		"cryptopunk", "bored ape",
	},
	"regulation": {"regulation", "regulatory", "sec", "policy", "compliance", "legal"},
	"web3":       {"web3", "metaverse", "decentralized web", "dapps"},
}

// MatchesCategory reports whether an article belongs to the given category.
// Known categories match on their keyword set; an unknown category matches
// on the raw token itself.
func MatchesCategory(article models.Article, category string) bool {
	token := strings.ToLower(strings.TrimSpace(category))
	if token == "" {
		return true
	}

	keywords, known := categoryKeywords[token]
	if !known {
		keywords = []string{token}
	}

	haystack := strings.ToLower(article.Title + " " + article.Description)
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}
