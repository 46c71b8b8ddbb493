package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/claimwise/claimwise/internal/worker"
)

const defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGoSearcher implements Searcher against the DuckDuckGo HTML
// endpoint, which needs no API key.
type DuckDuckGoSearcher struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxResults int
	limiter    *worker.Limiter
}

// NewDuckDuckGoSearcher creates a searcher. limiter may be shared with
// the page fetcher so all outbound traffic observes the same budget.
func NewDuckDuckGoSearcher(userAgent string, timeout time.Duration, maxResults int, limiter *worker.Limiter) *DuckDuckGoSearcher {
	if maxResults <= 0 {
		maxResults = 5
	}

	return &DuckDuckGoSearcher{
		baseURL: defaultDuckDuckGoURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:  userAgent,
		maxResults: maxResults,
		limiter:    limiter,
	}
}

// SetBaseURL overrides the search endpoint. Used in tests.
func (s *DuckDuckGoSearcher) SetBaseURL(u string) {
	s.baseURL = u
}

// Search queries DuckDuckGo and parses the result page.
func (s *DuckDuckGoSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.baseURL); err != nil {
			return nil, err
		}
	}

	reqURL := fmt.Sprintf("%s?q=%s", s.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	var results []SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}

		results = append(results, SearchResult{
			URL:     resolveRedirect(href),
			Title:   strings.TrimSpace(link.Text()),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").Text()),
		})
		return len(results) < s.maxResults
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}

	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}

	return href
}
