package knowledge

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/vivekmuskan03/sahayak/internal/websearch"
)

// Bundle is everything the fan-out gathered for one query, grouped by
// corpus in merge-priority order plus any web results.
type Bundle struct {
	FAQs      []Scored
	Documents []Scored
	Events    []Scored
	ChatLogs  []Scored
	Profiles  []Scored

	Web   []websearch.Result
	Pages []string
}

// StructuredEmpty reports whether no indexed corpus produced a hit.
func (b *Bundle) StructuredEmpty() bool {
	return len(b.FAQs) == 0 && len(b.Documents) == 0 && len(b.Events) == 0 &&
		len(b.ChatLogs) == 0 && len(b.Profiles) == 0
}

// RetrieveOptions tunes one fan-out. Zero values fall back to defaults.
type RetrieveOptions struct {
	// UserID scopes chat logs and profiles to the asking user.
	UserID string

	// IncludeWeb forces the web leg even when structured corpora hit.
	IncludeWeb bool

	MaxPerCorpus  int
	MaxWebResults int
	MaxPages      int
}

const (
	defaultMaxPerCorpus  = 3
	defaultMaxWebResults = 3
	defaultMaxPages      = 2
)

// Retriever fans a query out across every corpus concurrently and falls back
// to web search when the structured corpora come up empty.
type Retriever struct {
	Indexes  *IndexSet
	Searcher websearch.Searcher
	Fetcher  websearch.PageFetcher
}

func NewRetriever(indexes *IndexSet, searcher websearch.Searcher, fetcher websearch.PageFetcher) *Retriever {
	return &Retriever{Indexes: indexes, Searcher: searcher, Fetcher: fetcher}
}

// Retrieve gathers evidence for query. A failing corpus is logged and
// skipped; the bundle carries whatever the rest produced.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts RetrieveOptions) *Bundle {
	if opts.MaxPerCorpus <= 0 {
		opts.MaxPerCorpus = defaultMaxPerCorpus
	}
	if opts.MaxWebResults <= 0 {
		opts.MaxWebResults = defaultMaxWebResults
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}

	bundle := &Bundle{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, corpus := range AllCorpora {
		corpus := corpus
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := r.Indexes.Search(ctx, corpus, query, opts.MaxPerCorpus)
			if err != nil {
				log.Printf("knowledge: %s search failed: %v", corpus, err)
				return
			}
			hits = filterOwner(corpus, hits, opts.UserID)
			mu.Lock()
			bundle.assign(corpus, hits)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if r.Searcher != nil && (opts.IncludeWeb || bundle.StructuredEmpty()) {
		r.searchWeb(ctx, query, opts, bundle)
	}
	return bundle
}

func (b *Bundle) assign(corpus Corpus, hits []Scored) {
	switch corpus {
	case CorpusFAQs:
		b.FAQs = hits
	case CorpusDocuments:
		b.Documents = hits
	case CorpusEvents:
		b.Events = hits
	case CorpusChatLogs:
		b.ChatLogs = hits
	case CorpusProfiles:
		b.Profiles = hits
	}
}

// filterOwner keeps only the caller's rows for per-user corpora. Ownerless
// rows in those corpora are shared and pass through.
func filterOwner(corpus Corpus, hits []Scored, userID string) []Scored {
	if corpus != CorpusChatLogs && corpus != CorpusProfiles {
		return hits
	}
	kept := hits[:0]
	for _, h := range hits {
		if h.OwnerID == "" || h.OwnerID == userID {
			kept = append(kept, h)
		}
	}
	return kept
}

func (r *Retriever) searchWeb(ctx context.Context, query string, opts RetrieveOptions, bundle *Bundle) {
	results, err := r.Searcher.Search(ctx, query, opts.MaxWebResults)
	if err != nil {
		log.Printf("knowledge: web search failed: %v", err)
		return
	}
	bundle.Web = results
	if r.Fetcher == nil {
		return
	}
	for _, res := range results {
		if len(bundle.Pages) >= opts.MaxPages || res.URL == "" {
			break
		}
		text, err := r.Fetcher.FetchPageText(ctx, res.URL)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		bundle.Pages = append(bundle.Pages, text)
	}
}
