package knowledge

import (
	"context"
	"testing"

	"github.com/vivekmuskan03/sahayak/internal/llm"
	"github.com/vivekmuskan03/sahayak/internal/websearch"
)

type stubSearcher struct {
	results []websearch.Result
	calls   int
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]websearch.Result, error) {
	s.calls++
	return s.results, nil
}

type stubFetcher struct {
	pages map[string]string
	calls int
}

func (f *stubFetcher) FetchPageText(_ context.Context, pageURL string) (string, error) {
	f.calls++
	return f.pages[pageURL], nil
}

func newTestRetriever(docs map[Corpus][]Document, searcher websearch.Searcher, fetcher websearch.PageFetcher) *Retriever {
	set := NewIndexSet(&stubSource{docs: docs}, llm.NewMockClient(32))
	return NewRetriever(set, searcher, fetcher)
}

func TestRetrieveSkipsWebWhenStructuredHit(t *testing.T) {
	searcher := &stubSearcher{results: []websearch.Result{{Title: "web", URL: "https://example.com"}}}
	r := newTestRetriever(map[Corpus][]Document{
		CorpusFAQs: {{ID: "f1", Corpus: CorpusFAQs, Title: "Library timings", Body: "8 AM to 10 PM"}},
	}, searcher, nil)

	bundle := r.Retrieve(context.Background(), "library timings", RetrieveOptions{})
	if len(bundle.FAQs) == 0 {
		t.Fatal("expected FAQ hit")
	}
	if searcher.calls != 0 {
		t.Fatalf("web search should be skipped, got %d calls", searcher.calls)
	}
}

func TestRetrieveFallsBackToWebWhenEmpty(t *testing.T) {
	searcher := &stubSearcher{results: []websearch.Result{
		{Title: "campus news", URL: "https://example.com/a"},
		{Title: "more news", URL: "https://example.com/b"},
	}}
	fetcher := &stubFetcher{pages: map[string]string{
		"https://example.com/a": "page a text",
		"https://example.com/b": "page b text",
	}}
	r := newTestRetriever(map[Corpus][]Document{}, searcher, fetcher)

	bundle := r.Retrieve(context.Background(), "latest campus news", RetrieveOptions{MaxPages: 1})
	if !bundle.StructuredEmpty() {
		t.Fatal("expected empty structured evidence")
	}
	if searcher.calls != 1 || len(bundle.Web) != 2 {
		t.Fatalf("expected one web search with 2 results, calls=%d results=%d", searcher.calls, len(bundle.Web))
	}
	if len(bundle.Pages) != 1 {
		t.Fatalf("expected page fetches capped at 1, got %d", len(bundle.Pages))
	}
}

func TestRetrieveIncludeWebFlag(t *testing.T) {
	searcher := &stubSearcher{results: []websearch.Result{{Title: "web", URL: "https://example.com"}}}
	r := newTestRetriever(map[Corpus][]Document{
		CorpusFAQs: {{ID: "f1", Corpus: CorpusFAQs, Title: "Library timings", Body: "8 AM to 10 PM"}},
	}, searcher, nil)

	bundle := r.Retrieve(context.Background(), "library timings", RetrieveOptions{IncludeWeb: true})
	if searcher.calls != 1 || len(bundle.Web) != 1 {
		t.Fatalf("expected forced web leg, calls=%d results=%d", searcher.calls, len(bundle.Web))
	}
}

func TestRetrieveFiltersOtherUsersRows(t *testing.T) {
	r := newTestRetriever(map[Corpus][]Document{
		CorpusChatLogs: {
			{ID: "c1", Corpus: CorpusChatLogs, Title: "chat", Body: "mess menu question", OwnerID: "u1"},
			{ID: "c2", Corpus: CorpusChatLogs, Title: "chat", Body: "mess menu question", OwnerID: "u2"},
		},
	}, nil, nil)

	bundle := r.Retrieve(context.Background(), "mess menu", RetrieveOptions{UserID: "u1"})
	if len(bundle.ChatLogs) != 1 || bundle.ChatLogs[0].OwnerID != "u1" {
		t.Fatalf("expected only u1 chat logs, got %+v", bundle.ChatLogs)
	}
}
