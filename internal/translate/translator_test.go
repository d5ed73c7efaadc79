package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubProvider struct {
	name      string
	translate func(ctx context.Context, text, source, target string) (string, error)
	detect    func(ctx context.Context, text string) (string, error)
	calls     int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	p.calls++
	if p.translate == nil {
		return "", errors.New("not implemented")
	}
	return p.translate(ctx, text, source, target)
}

func (p *stubProvider) Detect(ctx context.Context, text string) (string, error) {
	if p.detect == nil {
		return "", errors.New("not implemented")
	}
	return p.detect(ctx, text)
}

func TestTranslateIdentityShortCircuit(t *testing.T) {
	primary := &stubProvider{name: "model"}
	tr := NewTranslator([]Provider{primary})

	if got := tr.Translate(context.Background(), "hello", "en", "en"); got != "hello" {
		t.Fatalf("Translate() = %q, want identity", got)
	}
	if got := tr.Translate(context.Background(), "", "en", "hi"); got != "" {
		t.Fatalf("Translate() on empty = %q, want empty", got)
	}
	if primary.calls != 0 {
		t.Fatalf("provider calls = %d, want 0 for short-circuit paths", primary.calls)
	}
}

func TestTranslateFallsBackToSecondaryProvider(t *testing.T) {
	primary := &stubProvider{
		name: "model",
		translate: func(context.Context, string, string, string) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	secondary := &stubProvider{
		name: "service",
		translate: func(_ context.Context, text, _, _ string) (string, error) {
			return "अनुवाद: " + text, nil
		},
	}
	tr := NewTranslator([]Provider{primary, secondary})

	got := tr.Translate(context.Background(), "hello", "en", "hi")
	if !strings.HasPrefix(got, "अनुवाद:") {
		t.Fatalf("Translate() = %q, want secondary result", got)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestTranslateReturnsOriginalWhenAllProvidersFail(t *testing.T) {
	failing := func(context.Context, string, string, string) (string, error) {
		return "", errors.New("down")
	}
	tr := NewTranslator([]Provider{
		&stubProvider{name: "model", translate: failing},
		&stubProvider{name: "service", translate: failing},
	})

	if got := tr.Translate(context.Background(), "library timings", "en", "te"); got != "library timings" {
		t.Fatalf("Translate() = %q, want original text back", got)
	}
}

func TestTranslatePreservesProtectedSegments(t *testing.T) {
	// Provider garbles everything except placeholders, as a worst-case MT.
	provider := &stubProvider{
		name: "model",
		translate: func(_ context.Context, text, _, _ string) (string, error) {
			out := text
			for _, w := range strings.Fields(text) {
				if !strings.HasPrefix(w, "__T") {
					out = strings.Replace(out, w, "xx", 1)
				}
			}
			return out, nil
		},
	}
	tr := NewTranslator([]Provider{provider})

	got := tr.Translate(context.Background(), "Open 8:00 A.M. to 10:00 P.M. daily", "en", "hi")
	if !strings.Contains(got, "8:00 A.M. to 10:00 P.M.") {
		t.Fatalf("Translate() = %q, want the time range preserved verbatim", got)
	}
}

func TestTranslateSkipsProviderWhileBreakerOpen(t *testing.T) {
	primary := &stubProvider{
		name: "model",
		translate: func(context.Context, string, string, string) (string, error) {
			return "", errors.New("down")
		},
	}
	secondary := &stubProvider{
		name: "service",
		translate: func(_ context.Context, text, _, _ string) (string, error) {
			return "ok:" + text, nil
		},
	}
	tr := NewTranslator([]Provider{primary, secondary}, WithBreaker(2, time.Hour))

	for i := 0; i < 3; i++ {
		tr.Translate(context.Background(), "hello", "en", "hi")
	}
	// Two failures open the primary breaker; the third call must skip it.
	if primary.calls != 2 {
		t.Fatalf("primary calls = %d, want 2 (skipped once breaker opened)", primary.calls)
	}
	if secondary.calls != 3 {
		t.Fatalf("secondary calls = %d, want 3", secondary.calls)
	}
}

func TestDetectFallsBackToHeuristic(t *testing.T) {
	tr := NewTranslator([]Provider{&stubProvider{
		name: "model",
		detect: func(context.Context, string) (string, error) {
			return "", errors.New("down")
		},
	}})

	if got := tr.Detect(context.Background(), "लाइब्रेरी कब खुलती है"); got != "hi" {
		t.Fatalf("Detect() = %q, want hi via script heuristic", got)
	}
	if got := tr.Detect(context.Background(), "plain english sentence"); got != "en" {
		t.Fatalf("Detect() = %q, want en default", got)
	}
}
