package domain

import (
	"strings"
	"time"
)

// ItemKind discriminates the two corpus collections.
type ItemKind string

const (
	ItemKindPost   ItemKind = "post"
	ItemKindReport ItemKind = "report"
)

// DefaultSource labels items whose collection carries no source field.
const DefaultSource = "Other"

// Item is the canonical record both corpus collections normalize into.
// Posts carry their date in `added`, reports in `date`; whichever was
// present becomes EffectiveDate. A nil EffectiveDate means the item had
// no parseable date and passes any recency filter vacuously.
type Item struct {
	ID            string     `json:"id"`
	Kind          ItemKind   `json:"kind"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Source        string     `json:"source"`
	Tags          []string   `json:"tags,omitempty"`
	Categories    []string   `json:"categories,omitempty"`
	Summary       string     `json:"summary,omitempty"`
	KeyItems      []string   `json:"key_items,omitempty"`
	EffectiveDate *time.Time `json:"date,omitempty"`
}

// AgeDays returns the whole days elapsed since the item's effective date,
// or -1 when the item has none.
func (i *Item) AgeDays(now time.Time) int {
	if i.EffectiveDate == nil {
		return -1
	}
	age := now.Sub(*i.EffectiveDate)
	if age < 0 {
		return 0
	}
	return int(age.Hours() / 24)
}

// HasTag reports whether the item carries the tag, case-insensitively.
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// HasTagOrCategory reports whether the value appears in the union of the
// item's tags and categories, case-insensitively.
func (i *Item) HasTagOrCategory(value string) bool {
	if i.HasTag(value) {
		return true
	}
	for _, c := range i.Categories {
		if strings.EqualFold(c, value) {
			return true
		}
	}
	return false
}

// FilterCriteria is the conjunction of facet predicates a request scopes
// retrieval with. Empty sets are always satisfied; MaxAgeDays of zero means
// no recency bound.
type FilterCriteria struct {
	Sources    []string
	Categories []string
	Tags       []string
	MaxAgeDays int
}

// IsZero reports whether the criteria constrain nothing.
func (c FilterCriteria) IsZero() bool {
	return len(c.Sources) == 0 && len(c.Categories) == 0 && len(c.Tags) == 0 && c.MaxAgeDays <= 0
}
