package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the campus assistant service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	SessionTTL      time.Duration
	JanitorInterval time.Duration

	GeminiAPIKey     string
	GeminiChatModel  string
	GeminiEmbedModel string

	TranslateEndpoints      []string
	TranslateAPIKey         string
	TranslateAttemptTimeout time.Duration
	TranslateTotalBudget    time.Duration
	BreakerThreshold        int
	BreakerCooldown         time.Duration

	WebSearchEnabled bool
	MaxWebResults    int

	SeedDataDir string

	DatabaseURL string
	MockDim     int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:                envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:        envOrDefault("APP_METRICS_NAMESPACE", "sahayak"),
		GeminiAPIKey:            stringsTrimSpace("GEMINI_API_KEY"),
		GeminiChatModel:         envOrDefault("GEMINI_CHAT_MODEL", "gemini-1.5-flash"),
		GeminiEmbedModel:        envOrDefault("GEMINI_EMBED_MODEL", "text-embedding-004"),
		TranslateAPIKey:         stringsTrimSpace("LT_API_KEY"),
		SeedDataDir:             envOrDefault("APP_SEED_DATA_DIR", ""),
		DatabaseURL:             stringsTrimSpace("DATABASE_URL"),
		ShutdownTimeout:         15 * time.Second,
		SessionTTL:              30 * time.Minute,
		JanitorInterval:         time.Minute,
		TranslateAttemptTimeout: 1500 * time.Millisecond,
		TranslateTotalBudget:    4 * time.Second,
		BreakerThreshold:        3,
		BreakerCooldown:         10 * time.Minute,
		WebSearchEnabled:        true,
		MaxWebResults:           3,
		MockDim:                 64,
	}

	// Comma-separated candidate endpoints, first healthy wins.
	if raw := stringsTrimSpace("LT_ENDPOINTS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			if e = trimSpace(e); e != "" {
				cfg.TranslateEndpoints = append(cfg.TranslateEndpoints, e)
			}
		}
	} else {
		cfg.TranslateEndpoints = []string{
			"https://libretranslate.de",
			"https://translate.argosopentech.com",
		}
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL, err = durationFromEnv("APP_SESSION_TTL", cfg.SessionTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.JanitorInterval, err = durationFromEnv("APP_JANITOR_INTERVAL", cfg.JanitorInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.TranslateAttemptTimeout, err = durationFromEnv("LT_ATTEMPT_TIMEOUT", cfg.TranslateAttemptTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.TranslateTotalBudget, err = durationFromEnv("LT_TOTAL_BUDGET", cfg.TranslateTotalBudget)
	if err != nil {
		return Config{}, err
	}
	cfg.BreakerCooldown, err = durationFromEnv("LT_BREAKER_COOLDOWN", cfg.BreakerCooldown)
	if err != nil {
		return Config{}, err
	}
	cfg.BreakerThreshold, err = intFromEnv("LT_BREAKER_THRESHOLD", cfg.BreakerThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxWebResults, err = intFromEnv("APP_MAX_WEB_RESULTS", cfg.MaxWebResults)
	if err != nil {
		return Config{}, err
	}
	cfg.MockDim, err = intFromEnv("APP_MOCK_EMBED_DIM", cfg.MockDim)
	if err != nil {
		return Config{}, err
	}
	cfg.WebSearchEnabled, err = boolFromEnv("APP_WEB_SEARCH_ENABLED", cfg.WebSearchEnabled)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionTTL < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_TTL must be at least 5s")
	}
	if cfg.TranslateAttemptTimeout <= 0 {
		return Config{}, fmt.Errorf("LT_ATTEMPT_TIMEOUT must be positive")
	}
	if cfg.TranslateTotalBudget < cfg.TranslateAttemptTimeout {
		return Config{}, fmt.Errorf("LT_TOTAL_BUDGET must be at least LT_ATTEMPT_TIMEOUT")
	}
	if cfg.BreakerThreshold <= 0 {
		return Config{}, fmt.Errorf("LT_BREAKER_THRESHOLD must be positive")
	}
	if cfg.MaxWebResults <= 0 {
		return Config{}, fmt.Errorf("APP_MAX_WEB_RESULTS must be positive")
	}
	if cfg.MockDim <= 0 {
		return Config{}, fmt.Errorf("APP_MOCK_EMBED_DIM must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return trimSpace(os.Getenv(key))
}

func trimSpace(v string) string {
	for len(v) > 0 && (v[0] == ' ' || v[0] == '\n' || v[0] == '\t' || v[0] == '\r') {
		v = v[1:]
	}
	for len(v) > 0 {
		c := v[len(v)-1]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			v = v[:len(v)-1]
			continue
		}
		break
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
