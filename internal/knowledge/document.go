package knowledge

import (
	"context"
	"fmt"
	"time"
)

// Corpus names one independently indexed evidence collection.
type Corpus string

const (
	CorpusDocuments Corpus = "documents"
	CorpusFAQs      Corpus = "faqs"
	CorpusEvents    Corpus = "events"
	CorpusChatLogs  Corpus = "chatlogs"
	CorpusProfiles  Corpus = "profiles"
)

// AllCorpora lists every corpus in merge-priority order.
var AllCorpora = []Corpus{CorpusFAQs, CorpusDocuments, CorpusEvents, CorpusChatLogs, CorpusProfiles}

// Document is one retrievable evidence unit. For FAQs, Title is the question
// and Body the answer. OwnerID tags per-user documents such as timetables.
type Document struct {
	ID       string    `json:"id"`
	Corpus   Corpus    `json:"corpus"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Category string    `json:"category,omitempty"`
	OwnerID  string    `json:"owner_id,omitempty"`
	StartsAt time.Time `json:"starts_at,omitempty"`
	EndsAt   time.Time `json:"ends_at,omitempty"`

	// Embedding may be precomputed by the ingestion collaborator; when
	// empty, the index build embeds EmbedText.
	Embedding []float32 `json:"-"`
}

// EmbedText is the canonical text embedded and searched for the document.
func (d Document) EmbedText() string {
	switch d.Corpus {
	case CorpusFAQs:
		return fmt.Sprintf("Question: %s\nAnswer: %s", d.Title, d.Body)
	case CorpusEvents:
		date := "Not specified"
		if !d.StartsAt.IsZero() {
			date = d.StartsAt.Format("2006-01-02")
		}
		return fmt.Sprintf("Event: %s\n\n%s\n\nDate: %s", d.Title, d.Body, date)
	default:
		return fmt.Sprintf("%s\n\n%s", d.Title, d.Body)
	}
}

// Source supplies the documents of a corpus at index build time. After any
// write, the ingestion collaborator must call IndexSet.Invalidate for that
// corpus.
type Source interface {
	Documents(ctx context.Context, corpus Corpus) ([]Document, error)
}
