package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newLibreServer(t *testing.T, translated string, healthy bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/languages", func(w http.ResponseWriter, _ *http.Request) {
		if !healthy {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"code":"en"},{"code":"hi"}]`))
	})
	mux.HandleFunc("/translate", func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<!DOCTYPE html><html>rate limited</html>"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"translatedText": translated})
	})
	mux.HandleFunc("/detect", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"language":"hi","confidence":92}]`))
	})
	return httptest.NewServer(mux)
}

func TestServiceProviderTranslates(t *testing.T) {
	srv := newLibreServer(t, "नमस्ते", true)
	defer srv.Close()

	p := NewServiceProvider(ServiceConfig{Endpoints: []string{srv.URL}})
	got, err := p.Translate(context.Background(), "hello", "en", "hi")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "नमस्ते" {
		t.Fatalf("Translate() = %q, want नमस्ते", got)
	}
}

func TestServiceProviderFailsOverWithinOneCall(t *testing.T) {
	broken := newLibreServer(t, "", false)
	defer broken.Close()
	working := newLibreServer(t, "vanakkam", true)
	defer working.Close()

	p := NewServiceProvider(ServiceConfig{Endpoints: []string{broken.URL, working.URL}})
	got, err := p.Translate(context.Background(), "hello", "en", "ta")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "vanakkam" {
		t.Fatalf("Translate() = %q, want result from the healthy endpoint", got)
	}

	// The healthy endpoint is now cached and preferred.
	if cands := p.candidates(); cands[0] != working.URL {
		t.Fatalf("candidates()[0] = %q, want cached healthy endpoint %q", cands[0], working.URL)
	}
}

func TestServiceProviderRejectsHTMLPayload(t *testing.T) {
	broken := newLibreServer(t, "", false)
	defer broken.Close()

	p := NewServiceProvider(ServiceConfig{Endpoints: []string{broken.URL}})
	if _, err := p.Translate(context.Background(), "hello", "en", "hi"); err == nil {
		t.Fatal("Translate() should fail when the endpoint returns HTML")
	}
}

func TestServiceProviderDetect(t *testing.T) {
	srv := newLibreServer(t, "", true)
	defer srv.Close()

	p := NewServiceProvider(ServiceConfig{Endpoints: []string{srv.URL}})
	got, err := p.Detect(context.Background(), "library kab khulti hai")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got != "hi" {
		t.Fatalf("Detect() = %q, want hi", got)
	}
}
