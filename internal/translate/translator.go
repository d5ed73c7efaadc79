package translate

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/vivekmuskan03/sahayak/internal/lang"
)

// Translator tries providers strictly in preference order. It never returns
// an error: when every provider fails the original text is the answer.
type Translator struct {
	providers      []Provider
	breakers       []*Breaker
	attemptTimeout time.Duration

	// OnFallback is invoked when a provider attempt fails and the next one
	// is tried; OnBreakerOpen when repeated failures open a provider's
	// breaker. Both are used for metrics.
	OnFallback    func(provider string)
	OnBreakerOpen func(provider string)
}

type Option func(*Translator)

// WithAttemptTimeout bounds each individual provider attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(t *Translator) { t.attemptTimeout = d }
}

// WithBreaker sets breaker parameters shared by all providers.
func WithBreaker(threshold int, cooldown time.Duration) Option {
	return func(t *Translator) {
		for i := range t.breakers {
			t.breakers[i] = NewBreaker(threshold, cooldown)
		}
	}
}

func NewTranslator(providers []Provider, opts ...Option) *Translator {
	t := &Translator{
		providers:      providers,
		breakers:       make([]*Breaker, len(providers)),
		attemptTimeout: 10 * time.Second,
	}
	for i := range t.breakers {
		t.breakers[i] = NewBreaker(3, 10*time.Minute)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate converts text between supported languages, masking protected
// segments around the provider call. Identity and empty inputs short-circuit
// with no network activity.
func (t *Translator) Translate(ctx context.Context, text, source, target string) string {
	if strings.TrimSpace(text) == "" || source == target {
		return text
	}

	masked, segs := Protect(text)
	for i, provider := range t.providers {
		if !t.breakers[i].Allow() {
			log.Printf("translate: skipping %s provider (breaker open)", provider.Name())
			continue
		}
		attemptCtx, cancel := context.WithTimeout(ctx, t.attemptTimeout)
		out, err := provider.Translate(attemptCtx, masked, source, target)
		cancel()
		if err != nil || strings.TrimSpace(out) == "" {
			if t.breakers[i].Failure() && t.OnBreakerOpen != nil {
				t.OnBreakerOpen(provider.Name())
			}
			if t.OnFallback != nil {
				t.OnFallback(provider.Name())
			}
			log.Printf("translate: %s provider failed (%s -> %s): %v", provider.Name(), source, target, err)
			continue
		}
		t.breakers[i].Success()
		return Restore(out, segs)
	}

	log.Printf("translate: all providers failed (%s -> %s), returning original text", source, target)
	return text
}

// Detect resolves the language of text, preferring providers and falling
// back to script and romanized-keyword heuristics. Always returns a
// supported code.
func (t *Translator) Detect(ctx context.Context, text string) string {
	for i, provider := range t.providers {
		if !t.breakers[i].Allow() {
			continue
		}
		attemptCtx, cancel := context.WithTimeout(ctx, t.attemptTimeout)
		code, err := provider.Detect(attemptCtx, text)
		cancel()
		if err != nil {
			log.Printf("translate: %s detection failed: %v", provider.Name(), err)
			continue
		}
		if normalized := lang.Normalize(code); normalized != "" {
			return normalized
		}
	}
	return lang.DetectHeuristic(text)
}
