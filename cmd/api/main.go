package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fazecat/dexsignals/Internal/analysis"
	"github.com/fazecat/dexsignals/Internal/cache"
	"github.com/fazecat/dexsignals/Internal/datafeed"
	"github.com/fazecat/dexsignals/Internal/strategy/signals"
	"github.com/fazecat/dexsignals/Internal/utils/config"
	"github.com/fazecat/dexsignals/Internal/utils/scanner"
	"github.com/fazecat/dexsignals/cmd/api/internal"
	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Warning: config.yaml not loaded (%v), using defaults", err)
		cfg = config.Default()
		cfg.Secrets = config.SecretsFromEnv()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshotCache := newSnapshotCache(ctx, cfg)

	feed := datafeed.NewClient(cfg.Sources.BaseURL, cfg.SourceTimeout())
	scan := scanner.NewScanner(feed, snapshotCache, signals.NewEngine(nil), scanner.OptionsFromConfig(cfg), time.Now)

	groq := analysis.NewGroqClient(analysis.GroqOptions{
		BaseURL:     cfg.Analysis.BaseURL,
		APIKey:      cfg.Secrets.GroqAPIKey,
		Model:       cfg.Analysis.Model,
		Temperature: cfg.Analysis.Temperature,
		MaxTokens:   cfg.Analysis.MaxTokens,
		Timeout:     cfg.AnalysisTimeout(),
	})
	if !groq.Configured() {
		log.Println("Warning: GROQ_API_KEY not configured. Token analysis will return a fallback message.")
	}

	jwtManager := internal.NewJWTManager(cfg.Secrets.JWTSecretKey, cfg.Auth.Issuer, cfg.Auth.OwnerWallets)
	if !jwtManager.Configured() {
		log.Println("Warning: JWT_SECRET_KEY not configured. All callers receive the free signal tier.")
	}

	apiServer := &internal.API{
		Scanner:         scan,
		Analyzer:        analysis.NewAnalyzer(groq, cfg.Analysis.SystemPrompt, cfg.Global.ChainLabel),
		FreeSignalLimit: cfg.Global.FreeSignalLimit,
		ChainLabel:      cfg.Global.ChainLabel,
		Now:             time.Now,
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           internal.NewRouter(apiServer, jwtManager),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting API server on %s", srv.Addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
		log.Println("API server stopped")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}
}

func newSnapshotCache(ctx context.Context, cfg *config.Config) cache.SnapshotCache {
	if cfg.Cache.Backend != "redis" {
		return cache.NewMemory(cfg.CacheTTL(), time.Now)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Secrets.RedisAddr,
		Password: cfg.Secrets.RedisPassword,
		DB:       cfg.Secrets.RedisDB,
	})
	rc := cache.NewRedis(client, cfg.Cache.RedisKey, cfg.CacheTTL(), time.Now)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Printf("Warning: redis at %s unreachable (%v), falling back to in-memory cache", cfg.Secrets.RedisAddr, err)
		_ = rc.Close()
		return cache.NewMemory(cfg.CacheTTL(), time.Now)
	}
	log.Printf("Snapshot cache backed by redis at %s", cfg.Secrets.RedisAddr)
	return rc
}
