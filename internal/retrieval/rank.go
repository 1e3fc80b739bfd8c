package retrieval

import (
	"sort"
	"time"

	"github.com/lexwatch/lexwatch/internal/domain"
)

// Rank drops negative-scored candidates, orders the rest by descending
// score, and truncates to topK. The sort is stable, so equal scores keep
// corpus iteration order (posts before reports, each in collection order).
// topK below 1 is clamped to 1; an empty qualifying set yields an empty
// result, not an error.
func Rank(scored []ScoredItem, topK int) []domain.Item {
	if topK < 1 {
		topK = 1
	}

	qualifying := make([]ScoredItem, 0, len(scored))
	for _, s := range scored {
		if s.Score >= 0 {
			qualifying = append(qualifying, s)
		}
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].Score > qualifying[j].Score
	})

	if len(qualifying) > topK {
		qualifying = qualifying[:topK]
	}

	items := make([]domain.Item, len(qualifying))
	for i, s := range qualifying {
		items[i] = s.Item
	}
	return items
}

// SearchItems runs the full selection pass over a snapshot: expand report
// key items into derived candidates, filter, score, collapse derived
// candidates back to their parent at the best score, then rank.
func SearchItems(items []domain.Item, query string, criteria domain.FilterCriteria, topK int, now time.Time) []domain.Item {
	tokens := Tokenize(query)

	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		best := -1
		for _, candidate := range expandKeyItems(item) {
			if !Passes(&candidate, criteria, now) {
				continue
			}
			if s := Score(&candidate, tokens, now); s > best {
				best = s
			}
		}
		if best >= 0 {
			scored = append(scored, ScoredItem{Item: item, Score: best})
		}
	}

	return Rank(scored, topK)
}

// expandKeyItems returns the item itself plus one derived candidate per
// report key item. Derived candidates inherit the report's tags, date, URL,
// and source, carrying the key item text as their title so it participates
// in term matching.
func expandKeyItems(item domain.Item) []domain.Item {
	candidates := []domain.Item{item}
	for _, key := range item.KeyItems {
		derived := item
		derived.Title = key
		derived.Summary = ""
		derived.KeyItems = nil
		candidates = append(candidates, derived)
	}
	return candidates
}
