package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vivekmuskan03/sahayak/internal/config"
	"github.com/vivekmuskan03/sahayak/internal/lang"
	"github.com/vivekmuskan03/sahayak/internal/observability"
	"github.com/vivekmuskan03/sahayak/internal/orchestrator"
	"github.com/vivekmuskan03/sahayak/internal/session"
	"github.com/vivekmuskan03/sahayak/internal/tasks"
)

// Chat is the slice of the orchestrator the HTTP layer needs.
type Chat interface {
	HandleMessage(ctx context.Context, req orchestrator.Request) (orchestrator.Reply, error)
}

type Server struct {
	cfg      config.Config
	chat     Chat
	sessions *session.Store
	todos    *tasks.Manager
	metrics  *observability.Metrics
	window   *observability.PipelineWindow
}

func New(cfg config.Config, chat Chat, sessions *session.Store, todos *tasks.Manager, metrics *observability.Metrics, window *observability.PipelineWindow) *Server {
	return &Server{
		cfg:      cfg,
		chat:     chat,
		sessions: sessions,
		todos:    todos,
		metrics:  metrics,
		window:   window,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/chat", s.handleChat)
	r.Get("/v1/todos", s.handleListTodos)
	r.Get("/v1/languages", s.handleLanguages)
	r.Get("/v1/perf/latency", s.handlePerfLatency)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"active_sessions":    s.activeSessions(),
		"web_search_enabled": s.cfg.WebSearchEnabled,
		"store_mode":         s.storeMode(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.chat == nil {
		respondError(w, http.StatusServiceUnavailable, "unavailable", "orchestrator not configured")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

type chatRequest struct {
	UserID       string `json:"user_id"`
	SessionLabel string `json:"session_label,omitempty"`
	Message      string `json:"message"`
	Lang         string `json:"lang,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "orchestrator not configured")
		return
	}
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	reply, err := s.chat.HandleMessage(r.Context(), orchestrator.Request{
		UserID:       req.UserID,
		SessionLabel: req.SessionLabel,
		Message:      req.Message,
		Lang:         req.Lang,
	})
	switch {
	case errors.Is(err, orchestrator.ErrEmptyMessage):
		respondError(w, http.StatusBadRequest, "empty_message", err.Error())
		return
	case errors.Is(err, orchestrator.ErrNoUser):
		respondError(w, http.StatusBadRequest, "missing_user_id", err.Error())
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	if s.metrics != nil && s.sessions != nil {
		s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	}
	respondJSON(w, http.StatusOK, reply)
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "query parameter user_id is required")
		return
	}
	if s.todos == nil {
		respondJSON(w, http.StatusOK, map[string]any{"todos": []any{}})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"todos": s.todos.List(r.Context(), userID)})
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	type language struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	out := make([]language, 0, len(lang.Supported))
	for _, code := range lang.Supported {
		out = append(out, language{Code: code, Name: lang.Name(code)})
	}
	respondJSON(w, http.StatusOK, map[string]any{"languages": out, "default": lang.Default})
}

func (s *Server) handlePerfLatency(w http.ResponseWriter, _ *http.Request) {
	if s.window == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"generated_at": "",
			"window_size":  0,
			"stages":       []any{},
		})
		return
	}
	respondJSON(w, http.StatusOK, s.window.Snapshot())
}

func (s *Server) activeSessions() int {
	if s.sessions == nil {
		return 0
	}
	return s.sessions.ActiveCount()
}

func (s *Server) storeMode() string {
	if strings.TrimSpace(s.cfg.DatabaseURL) != "" {
		return "postgres"
	}
	return "in-memory"
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
