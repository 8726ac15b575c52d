package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"posterforge/internal/cache"
	"posterforge/internal/config"
	"posterforge/internal/handlers"
	"posterforge/internal/httpserver"
	"posterforge/internal/llm"
	"posterforge/internal/metrics"
	"posterforge/internal/orchestrator"
	"posterforge/internal/ratelimit"
	"posterforge/internal/validation"
	"posterforge/pkg/logging/logging"
)

func main() {
	configFile := flag.String("config", os.Getenv("POSTERFORGE_CONFIG"), "path to YAML configuration file")
	envPrefix := flag.String("env-prefix", config.EnvPrefix, "environment variable prefix")
	flag.Parse()

	if err := run(*configFile, *envPrefix); err != nil {
		log.Fatalf("posterforge exited with error: %v", err)
	}
}

func run(configFile, envPrefix string) error {
	// ----- Config -----
	cfg, err := config.NewLoader(envPrefix, configFile).WithDotenv(".env").Load(context.Background())
	if err != nil {
		return err
	}

	// ----- Logger -----
	logger, err := logging.NewLogger(logging.Options{Env: cfg.Server.Env, Level: cfg.Logging.Level})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// ----- Metrics -----
	metrics.Register()

	logger.Info("loaded config",
		zap.String("addr", cfg.Addr()),
		zap.String("env", cfg.Server.Env),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.String("text_base_url", cfg.Text.BaseURL),
		zap.String("image_base_url", cfg.Image.BaseURL),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)
	if cfg.Text.APIKey == "" {
		logger.Warn("ANTHROPIC_API_KEY is not set; concept generation will fail")
	}
	if cfg.Image.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; image generation will fail")
	}

	// ----- Cache -----
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	store, closeStore, err := cache.New(startCtx, cache.Config{
		Backend:  cfg.Cache.Backend,
		TTL:      cfg.Cache.TTL,
		Capacity: cfg.Cache.Capacity,
		Prefix:   cfg.Cache.Prefix,
		Addr:     cfg.Cache.Redis.Address,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	cancelStart()
	if err != nil {
		logger.Error("cache backend unavailable", zap.Error(err))
		return err
	}
	defer func() { _ = closeStore() }()
	store = cache.NewInstrumented(store)

	// ----- External services -----
	textClient, err := llm.NewTextClient(llm.TextConfig{
		Config: llm.Config{
			BaseURL:         cfg.Text.BaseURL,
			APIKey:          cfg.Text.APIKey,
			UpstreamTimeout: cfg.Text.Timeout,
		},
		Model:       cfg.Text.Model,
		MaxTokens:   cfg.Text.MaxTokens,
		Temperature: &cfg.Text.Temperature,
	}, logger)
	if err != nil {
		return err
	}
	defer textClient.Close()

	imageClient, err := llm.NewImageClient(llm.ImageConfig{
		Config: llm.Config{
			BaseURL:         cfg.Image.BaseURL,
			APIKey:          cfg.Image.APIKey,
			UpstreamTimeout: cfg.Image.Timeout,
		},
		Model:   cfg.Image.Model,
		Size:    cfg.Image.Size,
		Quality: cfg.Image.Quality,
		Style:   cfg.Image.Style,
	}, logger)
	if err != nil {
		return err
	}
	defer imageClient.Close()

	orch := orchestrator.New(store, textClient, imageClient, orchestrator.Options{
		Limits:              cfg.Limits(),
		AllowRemoteFallback: cfg.Image.AllowRemoteFallback,
	})

	// ----- Router + middleware -----
	opts := httpserver.Options{
		Poster:         handlers.NewPosterHandler(orch, validation.New()),
		Health:         handlers.NewHealthHandler(cfg.Server.Env, cfg.Server.Version, textClient.HasKey(), imageClient.HasKey()),
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
	}
	if cfg.RateLimit.Enabled {
		opts.Limiter = ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, opts)

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Leave room for the request timeout plus writing the answer
		WriteTimeout: cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting posterforge",
		zap.String("addr", srv.Addr),
		zap.String("version", cfg.Server.Version),
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		logger.Error("server error", zap.Error(err))
		return err
	case sig := <-stop:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
