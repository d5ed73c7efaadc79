package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ServiceProvider calls a LibreTranslate-compatible HTTP service. Public
// instances are unreliable, so it keeps an ordered candidate list, probes
// each with a cached health check, and fails over to the next candidate
// within a single call when the preferred one misbehaves.
type ServiceProvider struct {
	client         *http.Client
	endpoints      []string
	apiKey         string
	attemptTimeout time.Duration
	totalBudget    time.Duration
	probeTTL       time.Duration

	mu        sync.Mutex
	healthy   string
	checkedAt time.Time

	now func() time.Time
}

type ServiceConfig struct {
	Endpoints      []string
	APIKey         string
	AttemptTimeout time.Duration
	TotalBudget    time.Duration
	ProbeTTL       time.Duration
}

func NewServiceProvider(cfg ServiceConfig) *ServiceProvider {
	p := &ServiceProvider{
		endpoints:      dedupe(cfg.Endpoints),
		apiKey:         cfg.APIKey,
		attemptTimeout: cfg.AttemptTimeout,
		totalBudget:    cfg.TotalBudget,
		probeTTL:       cfg.ProbeTTL,
		now:            time.Now,
	}
	if p.attemptTimeout <= 0 {
		p.attemptTimeout = 1500 * time.Millisecond
	}
	if p.totalBudget <= 0 {
		p.totalBudget = 4 * time.Second
	}
	if p.probeTTL <= 0 {
		p.probeTTL = 5 * time.Minute
	}
	p.client = &http.Client{Timeout: p.attemptTimeout}
	return p
}

func (p *ServiceProvider) Name() string { return "service" }

func (p *ServiceProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	deadline := p.now().Add(p.totalBudget)
	var lastErr error
	for _, endpoint := range p.candidates() {
		if p.now().After(deadline) {
			break
		}
		form := url.Values{"q": {text}, "source": {source}, "target": {target}, "format": {"text"}}
		if p.apiKey != "" {
			form.Set("api_key", p.apiKey)
		}

		var body struct {
			TranslatedText string `json:"translatedText"`
			Translation    string `json:"translation"`
		}
		if err := p.postForm(ctx, endpoint, "/translate", form, &body); err != nil {
			lastErr = err
			continue
		}
		translated := body.TranslatedText
		if translated == "" {
			translated = body.Translation
		}
		if translated == "" || looksLikeHTML(translated) {
			lastErr = fmt.Errorf("%s returned a malformed translation payload", endpoint)
			continue
		}
		p.markHealthy(endpoint)
		return translated, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no translation service endpoints configured")
	}
	return "", fmt.Errorf("all translation service endpoints failed: %w", lastErr)
}

func (p *ServiceProvider) Detect(ctx context.Context, text string) (string, error) {
	form := url.Values{"q": {text}}
	if p.apiKey != "" {
		form.Set("api_key", p.apiKey)
	}
	var lastErr error
	for _, endpoint := range p.candidates() {
		var detections []struct {
			Language string `json:"language"`
		}
		if err := p.postForm(ctx, endpoint, "/detect", form, &detections); err != nil {
			lastErr = err
			continue
		}
		if len(detections) == 0 || detections[0].Language == "" {
			lastErr = fmt.Errorf("%s returned no detections", endpoint)
			continue
		}
		p.markHealthy(endpoint)
		return detections[0].Language, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no translation service endpoints configured")
	}
	return "", fmt.Errorf("language detection failed: %w", lastErr)
}

// candidates returns the cached healthy endpoint first, then the rest of the
// configured list in preference order.
func (p *ServiceProvider) candidates() []string {
	healthy := p.resolveHealthy()
	if healthy == "" {
		return p.endpoints
	}
	out := make([]string, 0, len(p.endpoints)+1)
	out = append(out, healthy)
	for _, e := range p.endpoints {
		if e != healthy {
			out = append(out, e)
		}
	}
	return out
}

func (p *ServiceProvider) resolveHealthy() string {
	p.mu.Lock()
	cached, fresh := p.healthy, p.now().Sub(p.checkedAt) < p.probeTTL
	p.mu.Unlock()
	if cached != "" && fresh {
		return cached
	}

	for _, endpoint := range p.endpoints {
		if p.probe(endpoint) {
			p.markHealthy(endpoint)
			return endpoint
		}
	}
	return ""
}

// probe checks GET /languages responds with JSON within a short timeout.
func (p *ServiceProvider) probe(endpoint string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(endpoint, "/languages"), nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300 &&
		strings.Contains(resp.Header.Get("Content-Type"), "application/json")
}

func (p *ServiceProvider) markHealthy(endpoint string) {
	p.mu.Lock()
	p.healthy = endpoint
	p.checkedAt = p.now()
	p.mu.Unlock()
}

func (p *ServiceProvider) postForm(ctx context.Context, endpoint, path string, form url.Values, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, joinURL(endpoint, path), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s%s request failed: %w", endpoint, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s%s returned status %d", endpoint, path, resp.StatusCode)
	}
	// Public instances often front errors with an HTML challenge page.
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return fmt.Errorf("%s%s returned a non-JSON response", endpoint, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s%s decode failed: %w", endpoint, path, err)
	}
	return nil
}

func looksLikeHTML(text string) bool {
	sample := strings.ToLower(text)
	if len(sample) > 200 {
		sample = sample[:200]
	}
	return strings.Contains(sample, "<!doctype") || strings.Contains(sample, "<html")
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimRight(strings.TrimSpace(v), "/")
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
