package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/claimwise/claimwise/internal/util"
	"github.com/claimwise/claimwise/internal/worker"
)

// ErrRobotsDisallowed is returned when a site's robots.txt forbids the
// requested fetch.
var ErrRobotsDisallowed = errors.New("fetch disallowed by robots.txt")

// Page is the readable content of a fetched web page.
type Page struct {
	URL   string
	Title string
	Text  string
}

// PageFetcher retrieves a page and reduces it to plain text for the
// agent. Fetches honor robots.txt and per-host rate limits.
type PageFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// NewPageFetcher creates a fetcher. robots may be nil to skip
// robots.txt checks; limiter may be nil to skip rate limiting.
func NewPageFetcher(userAgent string, timeout time.Duration, maxBytes int64, limiter *worker.Limiter, robots *util.RobotsChecker) *PageFetcher {
	return &PageFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		limiter:   limiter,
		robots:    robots,
	}
}

// Fetch retrieves rawURL and extracts its title and visible text.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if f.robots != nil {
		allowed, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, ErrRobotsDisallowed
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	title, text := extractText(string(body))

	return &Page{
		URL:   resp.Request.URL.String(),
		Title: title,
		Text:  text,
	}, nil
}

// extractText walks the HTML tree collecting the document title and
// visible text, skipping script and style subtrees.
func extractText(htmlContent string) (string, string) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", htmlContent
	}

	var title string
	var sb strings.Builder
	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				sb.WriteString(trimmed)
				sb.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return title, strings.TrimSpace(sb.String())
}
