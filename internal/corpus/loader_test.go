package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexwatch/lexwatch/internal/domain"
)

const postsJSON = `[
	{
		"id": "p1",
		"source": "EP",
		"url": "https://example.org/ai-act",
		"title": "AI Act passed",
		"tags": ["ai", "law"],
		"added": "2024-01-01T10:00:00Z",
		"summary": "The regulation was adopted.",
		"categories": ["Digital"]
	},
	{
		"id": "p2",
		"url": "https://example.org/other",
		"title": "No source post",
		"added": "not-a-date"
	}
]`

const reportsJSON = `[
	{
		"id": "rep-2024-01-05",
		"date": "2024-01-05",
		"title": "Weekly report",
		"url_html": "https://example.org/reports/weekly.html",
		"tags": ["weekly"],
		"key_items": ["AI Act vote", "GDPR enforcement"],
		"abstract": "Highlights of the week."
	}
]`

func newTestLoader(t *testing.T, postsStatus, reportsStatus int) (*Loader, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts.json":
			if postsStatus != http.StatusOK {
				w.WriteHeader(postsStatus)
				return
			}
			w.Write([]byte(postsJSON))
		case "/reports.json":
			if reportsStatus != http.StatusOK {
				w.WriteHeader(reportsStatus)
				return
			}
			w.Write([]byte(reportsJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return NewLoader(srv.URL, srv.Client()), srv
}

func TestLoader_Load(t *testing.T) {
	loader, _ := newTestLoader(t, http.StatusOK, http.StatusOK)

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Items, 3)

	// Posts come before reports, each in collection order.
	post := snap.Items[0]
	assert.Equal(t, domain.ItemKindPost, post.Kind)
	assert.Equal(t, "AI Act passed", post.Title)
	assert.Equal(t, "EP", post.Source)
	require.NotNil(t, post.EffectiveDate)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), *post.EffectiveDate)

	// Missing source defaults, unparseable date yields nil.
	assert.Equal(t, domain.DefaultSource, snap.Items[1].Source)
	assert.Nil(t, snap.Items[1].EffectiveDate)

	report := snap.Items[2]
	assert.Equal(t, domain.ItemKindReport, report.Kind)
	assert.Equal(t, "https://example.org/reports/weekly.html", report.URL)
	assert.Equal(t, "Highlights of the week.", report.Summary)
	assert.Equal(t, []string{"AI Act vote", "GDPR enforcement"}, report.KeyItems)
	require.NotNil(t, report.EffectiveDate)
	assert.Equal(t, "2024-01-05", report.EffectiveDate.Format("2006-01-02"))
}

func TestLoader_Load_OneCollectionUnavailable(t *testing.T) {
	loader, _ := newTestLoader(t, http.StatusInternalServerError, http.StatusOK)

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, domain.ItemKindReport, snap.Items[0].Kind)
}

func TestLoader_Load_AllCollectionsUnavailable(t *testing.T) {
	loader, _ := newTestLoader(t, http.StatusInternalServerError, http.StatusNotFound)

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestLoader_Load_CacheBusting(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RawQuery)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, srv.Client())
	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	for _, q := range seen {
		assert.Contains(t, q, "t=")
	}
}

func TestLoader_Load_NoBaseURL(t *testing.T) {
	loader := NewLoader("", nil)
	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorpusBaseUnset)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"2024-01-01", true},
		{"2024-01-01T10:00:00Z", true},
		{"2024-01-01T10:00:00.123456Z", true},
		{"2024-01-01T10:00:00", true},
		{"yesterday", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := ParseDate(tt.value)
			if tt.ok {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}
