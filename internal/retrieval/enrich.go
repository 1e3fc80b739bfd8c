package retrieval

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lexwatch/lexwatch/internal/domain"
)

// PageFetcher fetches a URL and returns its normalized plain text, or ""
// on any failure.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) string
}

// Enricher fetches linked page text for ranked items. Fan-out is bounded
// by an explicit worker limit rather than top-k alone, and each fetch
// carries its own timeout inside the fetcher; a failed fetch degrades to a
// missing extract for that item only. One attempt per item, no retry.
type Enricher struct {
	fetcher     PageFetcher
	concurrency int
}

func NewEnricher(fetcher PageFetcher, concurrency int) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{fetcher: fetcher, concurrency: concurrency}
}

// Enrich returns a map of item ID to page extract for every item with a
// non-empty ID and URL whose fetch produced text. Items without IDs or
// URLs, and items repeating an earlier ID, are skipped so two results never
// share one extract slot; failed fetches are simply absent from the map.
func (e *Enricher) Enrich(ctx context.Context, items []domain.Item) map[string]string {
	extracts := make(map[string]string, len(items))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" || item.URL == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		g.Go(func() error {
			text := e.fetcher.FetchText(gctx, item.URL)
			if text == "" {
				return nil
			}
			mu.Lock()
			extracts[item.ID] = text
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return extracts
}
