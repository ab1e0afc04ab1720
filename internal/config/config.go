package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cfg is the global configuration loaded at startup.
var Cfg Config

// Config holds all application configuration.
type Config struct {
	// Server
	Port    string
	BaseURL string

	// Sentry
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string

	// Upstream recommendation service
	OrchestratorURL     string
	OrchestratorTimeout time.Duration

	// Recommendation policy knobs. The upstream hardcoded several
	// min_score/max_results pairs over time; this is the single source
	// of truth now.
	RecommendMinScore   float64
	RecommendMaxResults int

	// Wizard
	IncomeStepEnabled bool
	SessionTTL        time.Duration

	// Bulk policy dataset
	DatasetURL  string
	DatasetPath string

	// Saved items store
	SavedStorePath string

	// Rate limiter
	RateLimitRPS   int
	RateLimitBurst int

	// HTTP
	UserAgent string

	// Gzip
	GzipEnabled bool

	// PDF report (Korean text needs an embedded UTF-8 font)
	PDFFontPath string
}

// Load reads .env (if present) and populates Cfg from environment variables.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables")
	}

	Cfg = Config{
		Port:    envOr("PORT", "8080"),
		BaseURL: envOr("BASE_URL", "http://localhost:8080"),

		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: envOr("SENTRY_ENVIRONMENT", "production"),
		SentryRelease:     envOr("SENTRY_RELEASE", "youthpolicy@1.0.0"),

		OrchestratorURL:     envOr("ORCHESTRATOR_URL", "http://localhost:8000"),
		OrchestratorTimeout: envDuration("ORCHESTRATOR_TIMEOUT", 30*time.Second),

		RecommendMinScore:   envFloat64("RECOMMEND_MIN_SCORE", 30.0),
		RecommendMaxResults: envInt("RECOMMEND_MAX_RESULTS", 20),

		IncomeStepEnabled: envBool("INCOME_STEP_ENABLED", true),
		SessionTTL:        envDuration("SESSION_TTL", 2*time.Hour),

		DatasetURL:  envOr("DATASET_URL", ""),
		DatasetPath: envOr("DATASET_PATH", "data/policies.csv"),

		SavedStorePath: envOr("SAVED_STORE_PATH", "saved_policies.json"),

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 30),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 60),

		UserAgent: envOr("USER_AGENT", "Mozilla/5.0 (compatible; YouthPolicyBot/1.0)"),

		GzipEnabled: envBool("GZIP_ENABLED", true),

		PDFFontPath: envOr("PDF_FONT_PATH", "assets/fonts/NotoSansKR-Regular.ttf"),
	}

	log.Printf("config: loaded (port=%s, orchestrator=%s, min_score=%.1f, max_results=%d)",
		Cfg.Port, Cfg.OrchestratorURL, Cfg.RecommendMinScore, Cfg.RecommendMaxResults)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat64(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
