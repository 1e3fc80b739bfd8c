// Package retrieval implements the filtering, scoring, ranking, and
// context-assembly pipeline over a corpus snapshot.
package retrieval

import (
	"strings"
	"time"

	"github.com/lexwatch/lexwatch/internal/domain"
)

// Passes applies the facet predicates to one item. All predicates are
// ANDed; an empty required set is always satisfied. Evaluation
// short-circuits on the first miss but the outcome is order-independent.
func Passes(item *domain.Item, criteria domain.FilterCriteria, now time.Time) bool {
	if len(criteria.Sources) > 0 && !containsFold(criteria.Sources, item.Source) {
		return false
	}

	// Categories match against the union of the item's tags and categories.
	for _, category := range criteria.Categories {
		if !item.HasTagOrCategory(category) {
			return false
		}
	}

	for _, tag := range criteria.Tags {
		if !item.HasTag(tag) {
			return false
		}
	}

	// An item without a date is never excluded for missing data.
	if criteria.MaxAgeDays > 0 && item.EffectiveDate != nil {
		cutoff := now.AddDate(0, 0, -criteria.MaxAgeDays)
		if item.EffectiveDate.Before(cutoff) {
			return false
		}
	}

	return true
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
