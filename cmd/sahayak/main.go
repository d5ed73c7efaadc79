package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vivekmuskan03/sahayak/internal/compose"
	"github.com/vivekmuskan03/sahayak/internal/config"
	"github.com/vivekmuskan03/sahayak/internal/httpapi"
	"github.com/vivekmuskan03/sahayak/internal/knowledge"
	"github.com/vivekmuskan03/sahayak/internal/llm"
	"github.com/vivekmuskan03/sahayak/internal/memory"
	"github.com/vivekmuskan03/sahayak/internal/observability"
	"github.com/vivekmuskan03/sahayak/internal/orchestrator"
	"github.com/vivekmuskan03/sahayak/internal/session"
	"github.com/vivekmuskan03/sahayak/internal/tasks"
	"github.com/vivekmuskan03/sahayak/internal/translate"
	"github.com/vivekmuskan03/sahayak/internal/websearch"
)

type modelClient interface {
	llm.Generator
	llm.Embedder
}

func main() {
	// Local development keeps secrets in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	window := observability.NewPipelineWindow(256)

	ctx := context.Background()
	memoryStore, err := memory.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("memory store init failed: %v", err)
	}
	defer memoryStore.Close()

	var model modelClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			ChatModel:  cfg.GeminiChatModel,
			EmbedModel: cfg.GeminiEmbedModel,
		})
		if err != nil {
			log.Fatalf("gemini client init failed: %v", err)
		}
		defer gemini.Close()
		model = gemini
		log.Printf("model provider: gemini (%s / %s)", cfg.GeminiChatModel, cfg.GeminiEmbedModel)
	} else {
		model = llm.NewMockClient(cfg.MockDim)
		log.Printf("model provider: mock (GEMINI_API_KEY not set)")
	}

	providers := []translate.Provider{
		translate.NewModelProvider(model),
		translate.NewServiceProvider(translate.ServiceConfig{
			Endpoints:      cfg.TranslateEndpoints,
			APIKey:         cfg.TranslateAPIKey,
			AttemptTimeout: cfg.TranslateAttemptTimeout,
			TotalBudget:    cfg.TranslateTotalBudget,
		}),
	}
	translator := translate.NewTranslator(providers,
		translate.WithAttemptTimeout(cfg.TranslateAttemptTimeout),
		translate.WithBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
	)
	translator.OnFallback = func(provider string) {
		metrics.TranslationFallbacks.WithLabelValues(provider).Inc()
		window.ObserveIndicator("translation_fallback")
	}
	translator.OnBreakerOpen = func(provider string) {
		metrics.BreakerOpens.WithLabelValues(provider).Inc()
		window.ObserveIndicator("breaker_open")
	}

	source := knowledge.NewStaticSource()
	if cfg.SeedDataDir != "" {
		if err := source.LoadSeedDir(cfg.SeedDataDir); err != nil {
			log.Fatalf("seed data load failed: %v", err)
		}
		for _, corpus := range knowledge.AllCorpora {
			log.Printf("seed data: %d %s documents", source.Count(corpus), corpus)
		}
	}
	// Replay durable conversation memory so past exchanges survive restarts.
	if seeded, err := memory.SeedChatLogs(ctx, memoryStore, source, 200); err != nil {
		log.Printf("chat log seeding failed: %v", err)
	} else if seeded > 0 {
		log.Printf("seed data: %d chat log documents from durable memory", seeded)
	}

	indexes := knowledge.NewIndexSet(source, model)
	indexes.OnRebuild = func(corpus knowledge.Corpus, _ int, _ time.Duration) {
		metrics.IndexRebuilds.WithLabelValues(string(corpus)).Inc()
		window.ObserveIndicator("index_rebuild")
	}

	ddg := websearch.NewDuckDuckGoClient()
	retriever := knowledge.NewRetriever(indexes, ddg, ddg)

	todos := tasks.NewManager()
	todoStore, err := tasks.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("todo store init failed: %v", err)
	}
	if todoStore != nil {
		defer todoStore.Close()
		todos.SetStore(todoStore)
	}

	sessions := session.NewStore(cfg.SessionTTL)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	orch := orchestrator.New()
	orch.Translator = translator
	orch.Sessions = sessions
	orch.Memory = memoryStore
	orch.Todos = todos
	orch.Retriever = retriever
	orch.Indexes = indexes
	orch.Composer = compose.NewComposer(model)
	orch.ChatLogs = source
	orch.Metrics = metrics
	orch.Window = window
	orch.WebSearchEnabled = cfg.WebSearchEnabled
	orch.MaxWebResults = cfg.MaxWebResults

	api := httpapi.New(cfg, orch, sessions, todos, metrics, window)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, cfg.JanitorInterval)
	go func() {
		ticker := time.NewTicker(cfg.JanitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if n := todos.Prune(); n > 0 {
					log.Printf("todos: pruned %d expired items", n)
				}
			}
		}
	}()

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
