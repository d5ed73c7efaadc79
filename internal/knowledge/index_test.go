package knowledge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/vivekmuskan03/sahayak/internal/llm"
)

type stubSource struct {
	docs  map[Corpus][]Document
	err   error
	calls atomic.Int64
}

func (s *stubSource) Documents(_ context.Context, corpus Corpus) ([]Document, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.docs[corpus], nil
}

func TestSearchRanksByVocabularyOverlap(t *testing.T) {
	src := &stubSource{docs: map[Corpus][]Document{
		CorpusFAQs: {
			{ID: "f1", Corpus: CorpusFAQs, Title: "What are the library timings?", Body: "The library is open from 8:00 AM to 10:00 PM."},
			{ID: "f2", Corpus: CorpusFAQs, Title: "How do I pay the hostel fee?", Body: "Pay at the accounts office."},
		},
	}}
	set := NewIndexSet(src, llm.NewMockClient(32))

	hits, err := set.Search(context.Background(), CorpusFAQs, "library timings", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "f1" {
		t.Fatalf("expected f1 on top, got %+v", hits)
	}
	if hits[0].Score <= 0 {
		t.Fatalf("expected positive similarity, got %f", hits[0].Score)
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	set := NewIndexSet(&stubSource{docs: map[Corpus][]Document{}}, llm.NewMockClient(16))
	hits, err := set.Search(context.Background(), CorpusEvents, "anything", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
}

func TestConcurrentSearchesShareOneBuild(t *testing.T) {
	src := &stubSource{docs: map[Corpus][]Document{
		CorpusDocuments: {{ID: "d1", Corpus: CorpusDocuments, Title: "Exam schedule", Body: "Exams start in May."}},
	}}
	set := NewIndexSet(src, llm.NewMockClient(16))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := set.Search(context.Background(), CorpusDocuments, "exam schedule", 1); err != nil {
				t.Errorf("Search: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected a single source load, got %d", got)
	}
}

type truncatingEmbedder struct {
	inner llm.Embedder
}

func (e *truncatingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.inner.Embed(ctx, text)
}

func (e *truncatingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.inner.EmbedBatch(ctx, texts)
	if err != nil || len(vecs) == 0 {
		return vecs, err
	}
	return vecs[:len(vecs)-1], nil
}

func TestShortEmbedBatchFailsBuild(t *testing.T) {
	src := &stubSource{docs: map[Corpus][]Document{
		CorpusFAQs: {
			{ID: "f1", Corpus: CorpusFAQs, Title: "Q1", Body: "A1"},
			{ID: "f2", Corpus: CorpusFAQs, Title: "Q2", Body: "A2"},
		},
	}}
	set := NewIndexSet(src, &truncatingEmbedder{inner: llm.NewMockClient(16)})

	if _, err := set.Search(context.Background(), CorpusFAQs, "q", 1); err == nil {
		t.Fatal("expected build error when the embedder returns too few vectors")
	}
}

func TestFailedBuildIsRetried(t *testing.T) {
	src := &stubSource{err: errors.New("db down")}
	set := NewIndexSet(src, llm.NewMockClient(16))

	if _, err := set.Search(context.Background(), CorpusFAQs, "q", 1); err == nil {
		t.Fatal("expected build error")
	}
	src.err = nil
	src.docs = map[Corpus][]Document{CorpusFAQs: {{ID: "f1", Corpus: CorpusFAQs, Title: "Q", Body: "A"}}}
	hits, err := set.Search(context.Background(), CorpusFAQs, "Q", 1)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected one hit after retry, got %d", len(hits))
	}
}

func TestInvalidatePicksUpNewDocuments(t *testing.T) {
	src := &stubSource{docs: map[Corpus][]Document{
		CorpusEvents: {{ID: "e1", Corpus: CorpusEvents, Title: "Hackathon", Body: "Annual coding event."}},
	}}
	set := NewIndexSet(src, llm.NewMockClient(32))

	if _, err := set.Search(context.Background(), CorpusEvents, "hackathon", 2); err != nil {
		t.Fatalf("Search: %v", err)
	}
	src.docs[CorpusEvents] = append(src.docs[CorpusEvents],
		Document{ID: "e2", Corpus: CorpusEvents, Title: "Cultural fest", Body: "Music and dance."})
	set.Invalidate(CorpusEvents)

	hits, err := set.Search(context.Background(), CorpusEvents, "cultural fest music", 2)
	if err != nil {
		t.Fatalf("Search after invalidate: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected rebuilt index with 2 docs, got %d", len(hits))
	}
	if got := src.calls.Load(); got != 2 {
		t.Fatalf("expected two source loads, got %d", got)
	}
}
