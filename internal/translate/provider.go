package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/vivekmuskan03/sahayak/internal/lang"
	"github.com/vivekmuskan03/sahayak/internal/llm"
)

// Provider performs machine translation between supported language codes.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
	Detect(ctx context.Context, text string) (string, error)
}

// ModelProvider translates by prompting the generation capability. Preferred
// over the dedicated translation service because completions stay fluent and
// keep phrasing consistent across a conversation.
type ModelProvider struct {
	generator llm.Generator
}

func NewModelProvider(generator llm.Generator) *ModelProvider {
	return &ModelProvider{generator: generator}
}

func (p *ModelProvider) Name() string { return "model" }

func (p *ModelProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following text from %s to %s. Preserve numbers, dates, times (e.g., 8:00 A.M. to 10:00 P.M.), names, and acronyms exactly. Do not add extra commentary.\n\nText:\n%s",
		lang.Name(source), lang.Name(target), text,
	)
	out, err := p.generator.Generate(ctx, []llm.Turn{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("model returned an empty translation")
	}
	return out, nil
}

func (p *ModelProvider) Detect(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"Identify the language of the following text. Answer with exactly one code from: en, hi, te, gu, ta, kn.\n\nText:\n%s",
		text,
	)
	out, err := p.generator.Generate(ctx, []llm.Turn{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}
	code := lang.Normalize(strings.Trim(strings.TrimSpace(out), ".\"'`"))
	if code == "" {
		return "", fmt.Errorf("model detection returned %q", out)
	}
	return code, nil
}
