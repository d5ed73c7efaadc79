package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchPrefersInstantAnswer(t *testing.T) {
	instant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Heading":"Library","AbstractText":"Open 8 AM to 10 PM","AbstractURL":"https://example.edu/library"}`))
	}))
	defer instant.Close()

	c := NewDuckDuckGoClient()
	c.instantBaseURL = instant.URL + "/"

	results, err := c.Search(context.Background(), "library timings", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Title != "Library" || results[0].URL != "https://example.edu/library" {
		t.Fatalf("unexpected result: %+v", results[0])
	}
}

func TestSearchFallsBackToHTMLResults(t *testing.T) {
	instant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"AbstractText":""}`))
	}))
	defer instant.Close()
	html := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<div>
			<a class="result__a" href="https://example.edu/a">First <b>Hit</b></a>
			<a class="result__snippet">Snippet one</a>
			<a class="result__a" href="https://example.edu/b">Second Hit</a>
			<a class="result__snippet">Snippet two</a>
		</div>`))
	}))
	defer html.Close()

	c := NewDuckDuckGoClient()
	c.instantBaseURL = instant.URL + "/"
	c.htmlBaseURL = html.URL + "/"

	results, err := c.Search(context.Background(), "library timings", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Title != "First Hit" || results[0].Snippet != "Snippet one" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
}

func TestExtractText(t *testing.T) {
	html := `<html><head><style>.x{}</style><script>var a=1;</script></head>
		<body><h1>Fees</h1><p>Pay before  10/09/2025.</p></body></html>`
	got := ExtractText(html)
	if !strings.Contains(got, "Fees") || !strings.Contains(got, "Pay before 10/09/2025.") {
		t.Fatalf("ExtractText() = %q", got)
	}
	if strings.Contains(got, "var a") || strings.Contains(got, "<") {
		t.Fatalf("ExtractText() leaked markup: %q", got)
	}
}
