// Package corpus fetches and normalizes the two document collections the
// retrieval pipeline runs over. Both collections are re-fetched on every
// load so corpus updates are visible without redeploying the service.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lexwatch/lexwatch/internal/domain"
)

// Snapshot is one request's view of the corpus: posts first, then reports,
// each in source-collection order. That order is what the ranker's stable
// sort falls back to for equal scores.
type Snapshot struct {
	Items []domain.Item
}

// Loader retrieves posts.json and reports.json from a base URL.
type Loader struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewLoader(baseURL string, client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Loader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     time.Now,
	}
}

// rawPost is the posts.json entry shape produced by the site builder.
type rawPost struct {
	ID         string   `json:"id"`
	Source     string   `json:"source"`
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Added      string   `json:"added"`
	Summary    string   `json:"summary"`
	Categories []string `json:"categories"`
}

// rawReport is the reports.json entry shape. Reports carry their link in
// url_html and their long-form text in abstract.
type rawReport struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	Title    string   `json:"title"`
	URLHTML  string   `json:"url_html"`
	URL      string   `json:"url"`
	Tags     []string `json:"tags"`
	KeyItems []string `json:"key_items"`
	Abstract string   `json:"abstract"`
}

// Load fetches both collections concurrently. A transport or decode failure
// on either collection degrades to an empty slice for that collection only;
// Load itself never fails because one source is unreachable.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	if l.baseURL == "" {
		return nil, domain.ErrCorpusBaseUnset
	}

	var posts []rawPost
	var reports []rawReport

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := l.fetchJSON(gctx, "posts.json", &posts); err != nil {
			posts = nil
		}
		return nil
	})
	g.Go(func() error {
		if err := l.fetchJSON(gctx, "reports.json", &reports); err != nil {
			reports = nil
		}
		return nil
	})
	_ = g.Wait()

	items := make([]domain.Item, 0, len(posts)+len(reports))
	for _, p := range posts {
		items = append(items, normalizePost(p))
	}
	for _, r := range reports {
		items = append(items, normalizeReport(r))
	}

	return &Snapshot{Items: items}, nil
}

func (l *Loader) fetchJSON(ctx context.Context, name string, out any) error {
	// Cache-busting query parameter so transparent caches never serve a
	// stale collection.
	url := fmt.Sprintf("%s/%s?t=%d", l.baseURL, name, l.now().UnixNano())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func normalizePost(p rawPost) domain.Item {
	return domain.Item{
		ID:            p.ID,
		Kind:          domain.ItemKindPost,
		Title:         p.Title,
		URL:           p.URL,
		Source:        defaultSource(p.Source),
		Tags:          p.Tags,
		Categories:    p.Categories,
		Summary:       p.Summary,
		EffectiveDate: ParseDate(p.Added),
	}
}

func normalizeReport(r rawReport) domain.Item {
	url := r.URLHTML
	if url == "" {
		url = r.URL
	}
	return domain.Item{
		ID:            r.ID,
		Kind:          domain.ItemKindReport,
		Title:         r.Title,
		URL:           url,
		Source:        defaultSource(""),
		Tags:          r.Tags,
		Summary:       r.Abstract,
		KeyItems:      r.KeyItems,
		EffectiveDate: ParseDate(r.Date),
	}
}

func defaultSource(source string) string {
	if strings.TrimSpace(source) == "" {
		return domain.DefaultSource
	}
	return source
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats the collections carry. Returns nil for
// anything unparseable; absence of a date is never an error.
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
