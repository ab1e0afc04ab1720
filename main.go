package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"youthpolicy/internal/config"
	"youthpolicy/internal/dataset"
	"youthpolicy/internal/handlers"
	"youthpolicy/internal/logger"
	"youthpolicy/internal/middleware"
	"youthpolicy/internal/recommend"
	"youthpolicy/internal/saved"
	sentryutil "youthpolicy/internal/sentry"
	"youthpolicy/internal/session"
)

func main() {
	// Load configuration from .env and environment variables
	config.Load()

	// Initialize Sentry (non-blocking if SENTRY_DSN is empty)
	sentryutil.Init()
	defer sentryutil.Flush()

	// Wire the collaborators
	sessions := session.NewStore(config.Cfg.SessionTTL)
	savedStore := saved.NewStore(&saved.FileStorage{Path: config.Cfg.SavedStorePath})
	client := recommend.New(config.Cfg.OrchestratorURL, config.Cfg.UserAgent, config.Cfg.OrchestratorTimeout)
	loader := dataset.NewLoader(config.Cfg.DatasetURL, config.Cfg.DatasetPath, config.Cfg.UserAgent)

	// Ingest the bulk dataset in the background; the policies endpoint
	// reports unavailable until this finishes.
	go func() {
		if err := loader.Load(); err != nil {
			sentryutil.CaptureError(err, map[string]string{"component": "dataset"})
		}
	}()

	// Expire idle wizard sessions
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := sessions.Sweep(); n > 0 {
				logger.Info("session: swept idle sessions", map[string]interface{}{"count": n})
			}
		}
	}()

	// Rate limiter from config
	limiter := middleware.NewRateLimiter(
		config.Cfg.RateLimitRPS,
		config.Cfg.RateLimitBurst,
		time.Second,
	)

	// Create mux and register API routes
	mux := http.NewServeMux()
	handlers.NewHandler(sessions, savedStore, client, loader).RegisterRoutes(mux)

	// Wrap with middleware: Recovery → SecurityHeaders → Gzip (if enabled) → Rate Limiter
	var handler http.Handler = limiter.Middleware(mux)
	if config.Cfg.GzipEnabled {
		handler = middleware.Gzip(handler)
	}
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.Recovery(handler)

	logger.Info("server starting", map[string]interface{}{"port": config.Cfg.Port})
	fmt.Printf("youthpolicy running on http://localhost:%s\n", config.Cfg.Port)
	log.Fatal(http.ListenAndServe(":"+config.Cfg.Port, handler))
}
