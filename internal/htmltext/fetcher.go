package htmltext

import (
	"context"
	"io"
	"net/http"
	"time"
)

const fetcherUserAgent = "lexwatch/1.0"

// Fetcher retrieves a page and normalizes it to plain text. Every failure
// mode (transport, status, decode) degrades to an empty string; a missing
// extract is never an error for the pipeline.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxChars int
}

func NewFetcher(client *http.Client, timeout time.Duration, maxChars int) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Fetcher{client: client, timeout: timeout, maxChars: maxChars}
}

// FetchText fetches url and returns its normalized text, or "" on any
// failure.
func (f *Fetcher) FetchText(ctx context.Context, url string) string {
	if url == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", fetcherUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}

	return Normalize(string(body), f.maxChars)
}
