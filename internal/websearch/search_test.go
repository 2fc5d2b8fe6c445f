package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "photosynthesis in plants", req["q"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"organic": []map[string]string{
				{"title": "Result One", "link": "https://example.com/1", "snippet": "first"},
				{"title": "Result Two", "link": "https://example.com/2", "snippet": "second"},
				{"title": "Result Three", "link": "https://example.com/3", "snippet": "third"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 2, 5*time.Second)
	results, err := client.Search(context.Background(), "photosynthesis in plants")
	require.NoError(t, err)
	require.Len(t, results, 2, "results are capped at max_results")
	require.Equal(t, "Result One", results[0].Title)
	require.Equal(t, "https://example.com/1", results[0].URL)
}

func TestSearchEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 5, 5*time.Second)
	results, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", 5, 5*time.Second)
	_, err := client.Search(context.Background(), "anything")
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}

func TestFetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>skip</title></head><body><p>Actual page text.</p><script>skip()</script></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	text, err := fetcher.FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "Actual page text.", text)
}

func TestFetchTextNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.FetchText(context.Background(), server.URL)
	require.Error(t, err)
}
