package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vivekmuskan03/sahayak/internal/knowledge"
	"github.com/vivekmuskan03/sahayak/internal/llm"
	"github.com/vivekmuskan03/sahayak/internal/session"
	"github.com/vivekmuskan03/sahayak/internal/websearch"
)

type stubGen struct {
	reply string
	err   error
	turns []llm.Turn
}

func (s *stubGen) Generate(_ context.Context, turns []llm.Turn) (string, error) {
	s.turns = turns
	return s.reply, s.err
}

func faqBundle() *knowledge.Bundle {
	return &knowledge.Bundle{
		FAQs: []knowledge.Scored{{Document: knowledge.Document{
			Corpus: knowledge.CorpusFAQs,
			Title:  "What are the library timings?",
			Body:   "The library is open from 8:00 A.M. to 10:00 P.M. on weekdays.",
		}, Score: 0.9}},
		Documents: []knowledge.Scored{{Document: knowledge.Document{
			Corpus: knowledge.CorpusDocuments,
			Title:  "Campus guide",
			Body:   "General campus information.",
		}, Score: 0.8}},
	}
}

func TestAnswerPrefersFAQOverDocuments(t *testing.T) {
	c := NewComposer(nil)
	answer, source := c.Answer(context.Background(), "library timings?", session.Context{}, nil, faqBundle())
	if source != SourceFAQ {
		t.Fatalf("source = %q, want %q", source, SourceFAQ)
	}
	if !strings.Contains(answer, "8:00 A.M. to 10:00 P.M.") {
		t.Fatalf("answer = %q", answer)
	}
}

func TestAnswerFallsBackToEvidenceOnGenerationError(t *testing.T) {
	gen := &stubGen{err: errors.New("model unavailable")}
	c := NewComposer(gen)
	answer, source := c.Answer(context.Background(), "library timings?", session.Context{}, nil, faqBundle())
	if source != SourceFAQ {
		t.Fatalf("source = %q", source)
	}
	if !strings.Contains(answer, "library is open") {
		t.Fatalf("answer = %q", answer)
	}
}

func TestAnswerPromptCarriesContextAndEvidence(t *testing.T) {
	gen := &stubGen{reply: "Generated reply."}
	c := NewComposer(gen)
	userCtx := session.Context{PreferredName: "Ananya", Department: "Computer Science"}
	history := []session.Turn{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}

	answer, source := c.Answer(context.Background(), "when does the library open?", userCtx, history, faqBundle())
	if answer != "Generated reply." || source != SourceFAQ {
		t.Fatalf("answer=%q source=%q", answer, source)
	}
	if len(gen.turns) != 4 {
		t.Fatalf("prompt turns = %d, want system+2 history+question", len(gen.turns))
	}
	sys := gen.turns[0]
	if sys.Role != "system" {
		t.Fatalf("first turn role = %q", sys.Role)
	}
	for _, want := range []string{"Ananya", "Computer Science", "Relevant FAQs", "library is open"} {
		if !strings.Contains(sys.Content, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if gen.turns[3].Content != "when does the library open?" {
		t.Fatalf("last turn = %q", gen.turns[3].Content)
	}
}

func TestAnswerWebOnlyBundle(t *testing.T) {
	c := NewComposer(nil)
	bundle := &knowledge.Bundle{Web: []websearch.Result{{Title: "Result", Snippet: "Snippet text."}}}
	answer, source := c.Answer(context.Background(), "latest news", session.Context{}, nil, bundle)
	if source != SourceWebSearch {
		t.Fatalf("source = %q", source)
	}
	if !strings.Contains(answer, "Snippet text.") {
		t.Fatalf("answer = %q", answer)
	}
}

func TestAnswerNoEvidenceNoModel(t *testing.T) {
	c := NewComposer(nil)
	answer, source := c.Answer(context.Background(), "anything", session.Context{}, nil, &knowledge.Bundle{})
	if source != SourceGenerated || answer == "" {
		t.Fatalf("answer=%q source=%q", answer, source)
	}
}

func TestAnswerShortPreferenceTrimsToThreeSentences(t *testing.T) {
	gen := &stubGen{reply: "First fact here! Second fact here. Third fact here. Fourth fact here. Fifth fact here."}
	c := NewComposer(gen)
	answer, _ := c.Answer(context.Background(), "tell me about hostels",
		session.Context{AnswerLength: "short"}, nil, nil)
	if answer != "First fact here! Second fact here. Third fact here." {
		t.Fatalf("answer = %q, want first three sentences", answer)
	}
}

func TestAnswerLongPreferenceInvitesFollowUp(t *testing.T) {
	gen := &stubGen{reply: "The hostel has four blocks."}
	c := NewComposer(gen)
	answer, _ := c.Answer(context.Background(), "tell me about hostels",
		session.Context{AnswerLength: "long"}, nil, nil)
	if !strings.Contains(answer, "Would you like more details on any section?") {
		t.Fatalf("answer = %q, want follow-up invitation", answer)
	}

	// Answers already ending in a question are left alone.
	gen.reply = "The hostel has four blocks. Which one are you in?"
	answer, _ = c.Answer(context.Background(), "tell me about hostels",
		session.Context{AnswerLength: "long"}, nil, nil)
	if strings.Contains(answer, "Would you like more details") {
		t.Fatalf("answer = %q, follow-up should not stack on a question", answer)
	}
}

func TestAnswerFormalStyleDropsEmoji(t *testing.T) {
	gen := &stubGen{reply: "Welcome to Vignan \U0001F44B Your form is ready ✅ \U0001F389"}
	c := NewComposer(gen)
	answer, _ := c.Answer(context.Background(), "registration status",
		session.Context{ResponseStyle: "formal"}, nil, nil)
	if strings.ContainsAny(answer, "\U0001F44B✅\U0001F389") {
		t.Fatalf("answer = %q, emoji should be stripped", answer)
	}
	if !strings.Contains(answer, "Welcome to Vignan") {
		t.Fatalf("answer = %q, text should survive", answer)
	}
}
