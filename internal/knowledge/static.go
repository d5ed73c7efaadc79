package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// StaticSource serves documents from process memory. Seed corpora are
// loaded at startup; the chat log corpus grows as conversations happen.
// Callers must invalidate the matching index after Add or Replace.
type StaticSource struct {
	mu   sync.RWMutex
	docs map[Corpus][]Document
}

func NewStaticSource() *StaticSource {
	return &StaticSource{docs: make(map[Corpus][]Document)}
}

func (s *StaticSource) Documents(_ context.Context, corpus Corpus) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, len(s.docs[corpus]))
	copy(out, s.docs[corpus])
	return out, nil
}

// Add appends documents, assigning IDs where missing.
func (s *StaticSource) Add(docs ...Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		s.docs[d.Corpus] = append(s.docs[d.Corpus], d)
	}
}

// Replace swaps the whole corpus in one step.
func (s *StaticSource) Replace(corpus Corpus, docs []Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[corpus] = append([]Document(nil), docs...)
}

// Count reports how many documents a corpus holds.
func (s *StaticSource) Count(corpus Corpus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs[corpus])
}

// LoadSeedDir reads one JSON file per corpus (faqs.json, documents.json,
// events.json, profiles.json) from dir. Missing files are skipped.
func (s *StaticSource) LoadSeedDir(dir string) error {
	for _, corpus := range []Corpus{CorpusFAQs, CorpusDocuments, CorpusEvents, CorpusProfiles} {
		path := filepath.Join(dir, string(corpus)+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("read seed %s: %w", path, err)
		}
		var docs []Document
		if err := json.Unmarshal(data, &docs); err != nil {
			return fmt.Errorf("parse seed %s: %w", path, err)
		}
		for i := range docs {
			docs[i].Corpus = corpus
		}
		s.Replace(corpus, docs)
	}
	return nil
}
