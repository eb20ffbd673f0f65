package unsplash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"herbal-site/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleResponse = `{
  "total": 2,
  "results": [
    {"id": "a1", "description": "Chamomile field", "alt_description": "flowers",
     "urls": {"regular": "https://img/a1", "small": "https://img/a1-s"}, "user": {"name": "Dana"}},
    {"id": "b2", "description": "", "alt_description": "mint leaves",
     "urls": {"regular": "https://img/b2", "small": "https://img/b2-s"}, "user": {"name": "Avi"}}
  ]
}`

func newTestFetcher(baseURL string) *Fetcher {
	return NewFetcher(&config.Config{UnsplashBaseURL: baseURL, UnsplashPerPage: 5}, zap.NewNop())
}

func TestSearch(t *testing.T) {
	var gotAuth, gotPath, gotQuery, gotPerPage, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	images := newTestFetcher(srv.URL+"/").Search(context.Background(), "key-123", " chamomile ")

	assert.Equal(t, "Client-ID key-123", gotAuth)
	assert.Contains(t, gotAgent, "herbal-site")
	assert.Equal(t, "/search/photos", gotPath)
	assert.Equal(t, "chamomile", gotQuery)
	assert.Equal(t, "5", gotPerPage)

	require.Len(t, images, 2)
	assert.Equal(t, "a1", images[0].ID)
	assert.Equal(t, "https://img/a1", images[0].URL)
	assert.Equal(t, "https://img/a1-s", images[0].ThumbURL)
	assert.Equal(t, "Chamomile field", images[0].Description)
	assert.Equal(t, "Dana", images[0].Author)
	assert.Equal(t, "mint leaves", images[1].Description, "falls back to alt description")
}

func TestSearchReturnsEmptyList(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()
	f := newTestFetcher(srv.URL)

	tests := []struct {
		name  string
		key   string
		query string
	}{
		{"no key", "", "mint"},
		{"blank query", "key", "   "},
		{"error status", "key", "mint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := f.Search(context.Background(), tt.key, tt.query)
			assert.NotNil(t, images)
			assert.Empty(t, images)
		})
	}
	assert.Equal(t, 1, calls, "only the request with key and query reaches the API")
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	images := newTestFetcher(srv.URL).Search(context.Background(), "key", "mint")
	assert.Empty(t, images)
}
