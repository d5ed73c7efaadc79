package knowledge

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/vivekmuskan03/sahayak/internal/llm"
)

// Scored pairs a document with its query similarity.
type Scored struct {
	Document
	Score float64
}

// embedBatchSize bounds one batch embed call during an index build.
const embedBatchSize = 64

type index struct {
	docs []Document
}

// build tracks one in-flight or finished index construction. Callers that
// arrive while done is still open wait on it and share the outcome.
type build struct {
	done  chan struct{}
	index *index
	err   error
}

// IndexSet holds one lazily built similarity index per corpus. A corpus is
// absent, building, or ready; concurrent searches against an absent corpus
// trigger exactly one build and the rest wait for it.
type IndexSet struct {
	source   Source
	embedder llm.Embedder

	mu     sync.Mutex
	builds map[Corpus]*build

	// OnRebuild, when set, observes completed builds. Used for metrics.
	OnRebuild func(corpus Corpus, docs int, took time.Duration)
}

func NewIndexSet(source Source, embedder llm.Embedder) *IndexSet {
	return &IndexSet{
		source:   source,
		embedder: embedder,
		builds:   make(map[Corpus]*build),
	}
}

// Invalidate drops the cached index for corpus. A build already in flight is
// left to finish; it is discarded because Invalidate removes its map entry,
// so the next search starts fresh.
func (s *IndexSet) Invalidate(corpus Corpus) {
	s.mu.Lock()
	delete(s.builds, corpus)
	s.mu.Unlock()
}

// Search returns the top-k documents of corpus most similar to query. An
// empty corpus yields no results and no error. A failed build is not cached:
// the next call retries.
func (s *IndexSet) Search(ctx context.Context, corpus Corpus, query string, k int) ([]Scored, error) {
	idx, err := s.indexFor(ctx, corpus)
	if err != nil {
		return nil, err
	}
	if len(idx.docs) == 0 || k <= 0 {
		return nil, nil
	}

	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored := make([]Scored, 0, len(idx.docs))
	for _, d := range idx.docs {
		scored = append(scored, Scored{Document: d, Score: cosine(qv, d.Embedding)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (s *IndexSet) indexFor(ctx context.Context, corpus Corpus) (*index, error) {
	s.mu.Lock()
	b, ok := s.builds[corpus]
	if !ok {
		b = &build{done: make(chan struct{})}
		s.builds[corpus] = b
		go s.runBuild(corpus, b)
	}
	s.mu.Unlock()

	select {
	case <-b.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if b.err != nil {
		// Do not cache the failure.
		s.mu.Lock()
		if s.builds[corpus] == b {
			delete(s.builds, corpus)
		}
		s.mu.Unlock()
		return nil, b.err
	}
	return b.index, nil
}

func (s *IndexSet) runBuild(corpus Corpus, b *build) {
	defer close(b.done)
	start := time.Now()

	// Builds outlive the request that triggered them so waiters that
	// arrive later still get a usable index.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	docs, err := s.source.Documents(ctx, corpus)
	if err != nil {
		b.err = fmt.Errorf("load %s: %w", corpus, err)
		return
	}

	var pending []int
	var texts []string
	for i := range docs {
		if len(docs[i].Embedding) == 0 {
			pending = append(pending, i)
			texts = append(texts, docs[i].EmbedText())
		}
	}
	for off := 0; off < len(pending); off += embedBatchSize {
		end := off + embedBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		vecs, err := s.embedder.EmbedBatch(ctx, texts[off:end])
		if err != nil {
			b.err = fmt.Errorf("embed %s batch: %w", corpus, err)
			return
		}
		if len(vecs) != end-off {
			b.err = fmt.Errorf("embed %s batch: got %d vectors for %d inputs", corpus, len(vecs), end-off)
			return
		}
		for j, vi := range pending[off:end] {
			docs[vi].Embedding = vecs[j]
		}
	}

	b.index = &index{docs: docs}
	took := time.Since(start)
	log.Printf("knowledge: built %s index, %d docs in %s", corpus, len(docs), took.Round(time.Millisecond))
	if s.OnRebuild != nil {
		s.OnRebuild(corpus, len(docs), took)
	}
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
