package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher finds open-web results for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// PageFetcher dereferences a URL into plain text, best effort.
type PageFetcher interface {
	FetchPageText(ctx context.Context, pageURL string) (string, error)
}

// DuckDuckGoClient implements Searcher and PageFetcher against the
// DuckDuckGo instant-answer API with an HTML-results fallback. Neither
// endpoint needs an API key.
type DuckDuckGoClient struct {
	client         *http.Client
	instantBaseURL string
	htmlBaseURL    string
}

func NewDuckDuckGoClient() *DuckDuckGoClient {
	return &DuckDuckGoClient{
		client:         &http.Client{Timeout: 10 * time.Second},
		instantBaseURL: "https://api.duckduckgo.com/",
		htmlBaseURL:    "https://html.duckduckgo.com/html/",
	}
}

func (c *DuckDuckGoClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	if results, err := c.instantAnswer(ctx, query); err == nil && len(results) > 0 {
		return results, nil
	}
	results, err := c.htmlSearch(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (c *DuckDuckGoClient) instantAnswer(ctx context.Context, query string) ([]Result, error) {
	q := url.Values{"q": {query}, "format": {"json"}, "no_html": {"1"}, "skip_disambig": {"1"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.instantBaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body struct {
		Heading      string `json:"Heading"`
		AbstractText string `json:"AbstractText"`
		AbstractURL  string `json:"AbstractURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.AbstractText == "" {
		return nil, nil
	}
	title := body.Heading
	if title == "" {
		title = truncate(body.AbstractText, 100)
	}
	link := body.AbstractURL
	if link == "" {
		link = "https://duckduckgo.com/?q=" + url.QueryEscape(query)
	}
	return []Result{{Title: title, URL: link, Snippet: body.AbstractText}}, nil
}

var (
	resultLinkRe    = regexp.MustCompile(`<a[^>]*class="result__a"[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	resultSnippetRe = regexp.MustCompile(`<a[^>]*class="result__snippet"[^>]*>(.*?)</a>`)
	tagRe           = regexp.MustCompile(`<[^>]*>`)
)

func (c *DuckDuckGoClient) htmlSearch(ctx context.Context, query string, maxResults int) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.htmlBaseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "sahayak/1.0")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	page, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	links := resultLinkRe.FindAllStringSubmatch(string(page), maxResults)
	snippets := resultSnippetRe.FindAllStringSubmatch(string(page), maxResults)

	results := make([]Result, 0, len(links))
	for i, m := range links {
		title := strings.TrimSpace(tagRe.ReplaceAllString(m[2], ""))
		if title == "" || m[1] == "" {
			continue
		}
		snippet := "No description available"
		if i < len(snippets) {
			if s := strings.TrimSpace(tagRe.ReplaceAllString(snippets[i][1], "")); s != "" {
				snippet = s
			}
		}
		results = append(results, Result{Title: title, URL: m[1], Snippet: snippet})
	}
	return results, nil
}

// FetchPageText downloads a page and strips markup, scripts, and styles.
func (c *DuckDuckGoClient) FetchPageText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "sahayak/1.0")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("page fetch returned status %d", resp.StatusCode)
	}
	page, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return ExtractText(string(page)), nil
}

var (
	scriptRe     = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style.*?</style>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ExtractText reduces an HTML document to whitespace-normalized plain text.
func ExtractText(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
