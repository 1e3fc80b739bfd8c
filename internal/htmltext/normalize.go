// Package htmltext reduces fetched HTML to plain text for context
// assembly. It is a best-effort normalizer, not a general HTML-to-text
// converter: malformed markup may survive in degraded form, which is
// acceptable for prompt material.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Normalize strips script/style/noscript subtrees and all tags from raw
// HTML, collapses whitespace runs to single spaces, trims, and caps the
// result at maxChars (0 means uncapped). It never fails; unparseable input
// yields "".
func Normalize(raw string, maxChars int) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()
	text := doc.Text()

	return Truncate(strings.Join(strings.Fields(text), " "), maxChars)
}

// Truncate caps s at maxChars runes. A zero or negative cap leaves s
// unchanged.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
