package htmltext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		max  int
		want string
	}{
		{
			name: "strips tags",
			raw:  "<html><body><h1>Title</h1><p>Hello <b>world</b></p></body></html>",
			want: "Title Hello world",
		},
		{
			name: "removes script and style contents",
			raw:  "<html><head><style>.x{color:red}</style></head><body><script>var x=1;</script><p>Kept</p></body></html>",
			want: "Kept",
		},
		{
			name: "collapses whitespace",
			raw:  "<p>a\n\n   b\t\tc</p>",
			want: "a b c",
		},
		{
			name: "caps result length",
			raw:  "<p>" + strings.Repeat("x", 100) + "</p>",
			max:  10,
			want: strings.Repeat("x", 10),
		},
		{
			name: "empty input",
			raw:  "   ",
			want: "",
		},
		{
			name: "malformed markup degrades instead of failing",
			raw:  "<p>unclosed <div>nested",
			want: "unclosed nested",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw, tt.max))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	// Rune-safe, not byte-safe.
	assert.Equal(t, "héll", Truncate("héllo", 4))
}

func TestFetcher_FetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Write([]byte("<html><body><p>Page   text</p><script>x()</script></body></html>"))
		case "/error":
			w.WriteHeader(http.StatusBadGateway)
		case "/slow":
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte("<p>late</p>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), 5*time.Second, 8000)
	ctx := context.Background()

	assert.Equal(t, "Page text", f.FetchText(ctx, srv.URL+"/page"))
	assert.Equal(t, "", f.FetchText(ctx, srv.URL+"/error"))
	assert.Equal(t, "", f.FetchText(ctx, srv.URL+"/missing"))
	assert.Equal(t, "", f.FetchText(ctx, ""))
	assert.Equal(t, "", f.FetchText(ctx, "http://invalid.invalid/"))

	fast := NewFetcher(srv.Client(), 50*time.Millisecond, 8000)
	assert.Equal(t, "", fast.FetchText(ctx, srv.URL+"/slow"))
}
