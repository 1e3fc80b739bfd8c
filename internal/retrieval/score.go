package retrieval

import (
	"strings"
	"time"

	"github.com/lexwatch/lexwatch/internal/domain"
)

const (
	recencyMaxBonus   = 3
	recencyBonusWeeks = 7 // days per bonus step
)

// ScoredItem pairs an item with its relevance score. A negative score marks
// an item the filter rejected; only non-negative scores survive ranking.
type ScoredItem struct {
	Item  domain.Item
	Score int
}

// Tokenize lower-cases and whitespace-splits a query, discarding empty
// tokens.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Score computes term overlap plus a recency bonus for an item that already
// passed the filter. Each query token that occurs as a substring of the
// item's haystack (title, summary, tags, source) counts 1. Items dated
// within the last week earn a bonus of 3, decaying by 1 per additional week
// and flooring at 0; a missing or unparseable date earns nothing.
func Score(item *domain.Item, tokens []string, now time.Time) int {
	haystack := strings.ToLower(
		item.Title + " " + item.Summary + " " + strings.Join(item.Tags, " ") + " " + item.Source,
	)

	score := 0
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			score++
		}
	}

	if age := item.AgeDays(now); age >= 0 {
		weeks := age / recencyBonusWeeks
		if weeks < recencyMaxBonus {
			score += recencyMaxBonus - weeks
		}
	}

	return score
}
