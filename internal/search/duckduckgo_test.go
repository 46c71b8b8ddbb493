package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const resultsHTML = `<!DOCTYPE html>
<html><body>
<div class="results">
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="/l/?uddg=https%3A%2F%2Fexample.com%2Falpha">Alpha result</a>
    </h2>
    <a class="result__snippet">First snippet of text.</a>
  </div>
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="https://example.org/beta">Beta result</a>
    </h2>
    <a class="result__snippet">Second snippet of text.</a>
  </div>
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="https://example.net/gamma">Gamma result</a>
    </h2>
    <a class="result__snippet">Third snippet of text.</a>
  </div>
</div>
</body></html>`

func TestDuckDuckGoSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "test query" {
			t.Errorf("expected query 'test query', got %q", got)
		}
		io.WriteString(w, resultsHTML)
	}))
	defer server.Close()

	searcher := NewDuckDuckGoSearcher("TestBot/1.0", 5*time.Second, 10, nil)
	searcher.SetBaseURL(server.URL)

	results, err := searcher.Search(context.Background(), "test query")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Redirect links are unwrapped
	if results[0].URL != "https://example.com/alpha" {
		t.Errorf("expected unwrapped redirect URL, got %s", results[0].URL)
	}
	if results[0].Title != "Alpha result" {
		t.Errorf("unexpected title: %s", results[0].Title)
	}
	if results[0].Snippet != "First snippet of text." {
		t.Errorf("unexpected snippet: %s", results[0].Snippet)
	}

	// Direct links pass through
	if results[1].URL != "https://example.org/beta" {
		t.Errorf("unexpected URL: %s", results[1].URL)
	}
}

func TestDuckDuckGoSearchMaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, resultsHTML)
	}))
	defer server.Close()

	searcher := NewDuckDuckGoSearcher("TestBot/1.0", 5*time.Second, 2, nil)
	searcher.SetBaseURL(server.URL)

	results, err := searcher.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results with cap, got %d", len(results))
	}
}

func TestDuckDuckGoSearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	searcher := NewDuckDuckGoSearcher("TestBot/1.0", 5*time.Second, 5, nil)
	searcher.SetBaseURL(server.URL)

	if _, err := searcher.Search(context.Background(), "anything"); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=abc", "https://example.com/page"},
		{"https://example.com/direct", "https://example.com/direct"},
	}

	for _, tt := range tests {
		if got := resolveRedirect(tt.href); got != tt.want {
			t.Errorf("resolveRedirect(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
