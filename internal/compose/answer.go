package compose

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/vivekmuskan03/sahayak/internal/knowledge"
	"github.com/vivekmuskan03/sahayak/internal/llm"
	"github.com/vivekmuskan03/sahayak/internal/session"
)

// Evidence sources, in the priority the composer consults them.
const (
	SourceFAQ       = "faq"
	SourceDocuments = "documents"
	SourceEvents    = "events"
	SourceChatLogs  = "chatlogs"
	SourceProfiles  = "profiles"
	SourceWebSearch = "web_search"
	SourceGenerated = "generated"
)

const systemPersona = `You are Sahayak, Vignan University's AI assistant for students.

CONVERSATION STYLE:
- Use natural, friendly language that students can easily understand
- Structure information clearly with bullet points and headers when helpful
- Be conversational and engaging, never robotic or formal
- Show empathy and understanding for all student challenges
- If you don't know something, admit it and offer to help find the answer

UNIVERSITY INFO:
- Vignan University: Guntur, Andhra Pradesh, India
- Programs: Engineering, Management, Pharmacy
- JNTU-affiliated with modern facilities and strong industry connections

Answer using the provided context when it is relevant. Keep answers focused on the student's question.`

// Composer turns retrieved evidence into a final answer, generating with
// the model when one is available and falling straight back to the best
// evidence text when it is not.
type Composer struct {
	Gen llm.Generator

	// HistoryWindow caps how many recent turns feed the prompt.
	HistoryWindow int
}

func NewComposer(gen llm.Generator) *Composer {
	return &Composer{Gen: gen, HistoryWindow: 4}
}

// Answer produces the reply text and the name of the evidence source it
// leaned on. The priority order is FAQs, then documents, events, chat logs,
// profiles, and only then web results. The user's formatting preferences
// are applied to the final text.
func (c *Composer) Answer(ctx context.Context, question string, userCtx session.Context, history []session.Turn, bundle *knowledge.Bundle) (string, string) {
	answer, source := c.compose(ctx, question, userCtx, history, bundle)
	return applyPreferences(answer, userCtx), source
}

func (c *Composer) compose(ctx context.Context, question string, userCtx session.Context, history []session.Turn, bundle *knowledge.Bundle) (string, string) {
	content, source := pickEvidence(bundle)

	if c.Gen == nil {
		if content != "" {
			return content, source
		}
		return unknownReply(), SourceGenerated
	}

	turns := c.buildPrompt(question, userCtx, history, bundle)
	answer, err := c.Gen.Generate(ctx, turns)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			log.Printf("compose: generation failed, serving evidence directly: %v", err)
		}
		if content != "" {
			return content, source
		}
		return unknownReply(), SourceGenerated
	}
	if source == "" {
		source = SourceGenerated
	}
	return strings.TrimSpace(answer), source
}

func pickEvidence(bundle *knowledge.Bundle) (string, string) {
	if bundle == nil {
		return "", ""
	}
	switch {
	case len(bundle.FAQs) > 0:
		hit := bundle.FAQs[0]
		return fmt.Sprintf("Question: %s\n\nAnswer: %s", hit.Title, hit.Body), SourceFAQ
	case len(bundle.Documents) > 0:
		return bundle.Documents[0].Body, SourceDocuments
	case len(bundle.Events) > 0:
		return EventDetail(bundle.Events[0].Document), SourceEvents
	case len(bundle.ChatLogs) > 0:
		return bundle.ChatLogs[0].Body, SourceChatLogs
	case len(bundle.Profiles) > 0:
		return bundle.Profiles[0].Body, SourceProfiles
	case len(bundle.Web) > 0:
		hit := bundle.Web[0]
		return fmt.Sprintf("%s\n\n%s", hit.Title, hit.Snippet), SourceWebSearch
	}
	return "", ""
}

func (c *Composer) buildPrompt(question string, userCtx session.Context, history []session.Turn, bundle *knowledge.Bundle) []llm.Turn {
	var sys strings.Builder
	sys.WriteString(systemPersona)

	if ctxBlock := contextBlock(userCtx); ctxBlock != "" {
		sys.WriteString("\n\nCURRENT USER CONTEXT:")
		sys.WriteString(ctxBlock)
	}
	if evBlock := evidenceBlock(bundle); evBlock != "" {
		sys.WriteString("\n\nRELEVANT CONTEXT:")
		sys.WriteString(evBlock)
	}

	turns := []llm.Turn{{Role: "system", Content: sys.String()}}
	window := c.HistoryWindow
	if window <= 0 {
		window = 4
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}
	for _, t := range history {
		role := t.Role
		if role != "user" {
			role = "assistant"
		}
		turns = append(turns, llm.Turn{Role: role, Content: t.Content})
	}
	turns = append(turns, llm.Turn{Role: "user", Content: question})
	return turns
}

func contextBlock(c session.Context) string {
	var b strings.Builder
	add := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "\n- %s: %s", label, value)
		}
	}
	add("Preferred Name", c.PreferredName)
	add("Department", c.Department)
	add("Year", c.Year)
	if len(c.Interests) > 0 {
		add("Interests", strings.Join(c.Interests, ", "))
	}
	if len(c.AcademicGoals) > 0 {
		add("Academic Goals", strings.Join(c.AcademicGoals, ", "))
	}
	if len(c.CurrentChallenges) > 0 {
		add("Current Challenges", strings.Join(c.CurrentChallenges, ", "))
	}
	return b.String()
}

func evidenceBlock(bundle *knowledge.Bundle) string {
	if bundle == nil {
		return ""
	}
	var b strings.Builder
	if len(bundle.FAQs) > 0 {
		b.WriteString("\n\nRelevant FAQs:")
		for _, f := range bundle.FAQs {
			fmt.Fprintf(&b, "\nQ: %s\nA: %s", f.Title, f.Body)
		}
	}
	if len(bundle.Documents) > 0 {
		b.WriteString("\n\nRelevant Knowledge:")
		for _, d := range bundle.Documents {
			fmt.Fprintf(&b, "\n%s: %s", d.Title, d.Body)
		}
	}
	if len(bundle.Events) > 0 {
		b.WriteString("\n\nRelevant Events:")
		for _, e := range bundle.Events {
			date := "Not specified"
			if !e.StartsAt.IsZero() {
				date = e.StartsAt.Format("Jan 2, 2006")
			}
			fmt.Fprintf(&b, "\nEvent: %s\nDescription: %s\nDate: %s", e.Title, e.Body, date)
		}
	}
	if len(bundle.ChatLogs) > 0 {
		b.WriteString("\n\nRelevant past conversations:")
		for _, cl := range bundle.ChatLogs {
			fmt.Fprintf(&b, "\n%s", cl.Body)
		}
	}
	if len(bundle.Web) > 0 {
		b.WriteString("\n\nWeb results:")
		for _, w := range bundle.Web {
			fmt.Fprintf(&b, "\n%s: %s", w.Title, w.Snippet)
		}
	}
	for _, page := range bundle.Pages {
		if len(page) > 1500 {
			page = page[:1500]
		}
		fmt.Fprintf(&b, "\n\nPage excerpt:\n%s", page)
	}
	return b.String()
}

// applyPreferences reshapes the answer per the user's stated preferences.
// Short answers keep the first three sentences. Long answers invite a
// follow-up unless the answer already ends with a question. A formal style
// drops decorative emoji.
func applyPreferences(answer string, c session.Context) string {
	switch c.AnswerLength {
	case "short":
		answer = firstSentences(answer, 3)
	case "long":
		if !strings.Contains(answer, "Would you like more details") && !strings.HasSuffix(strings.TrimSpace(answer), "?") {
			answer += "\n\nWould you like more details on any section?"
		}
	}
	if c.ResponseStyle == "formal" {
		answer = formalStrip.Replace(answer)
	}
	return strings.TrimSpace(answer)
}

var formalStrip = strings.NewReplacer(
	"\U0001F44B", "", "\U0001F60A", "", "\U0001F389", "", "\u2705", "",
	"\u26A0\uFE0F", "", "\U0001F4DD", "", "\U0001F4A1", "", "\U0001F91D", "",
)

func firstSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}

func unknownReply() string {
	return "I'm not sure about that yet. Could you rephrase the question, or ask me about academics, campus facilities, events, or regulations at Vignan University?"
}
