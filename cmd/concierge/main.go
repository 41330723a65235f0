package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/launchline/concierge/internal/anthropic"
	"github.com/launchline/concierge/internal/api"
	"github.com/launchline/concierge/internal/checklist"
	"github.com/launchline/concierge/internal/config"
	"github.com/launchline/concierge/internal/events"
	"github.com/launchline/concierge/internal/extract"
	"github.com/launchline/concierge/internal/gaps"
	"github.com/launchline/concierge/internal/identity"
	"github.com/launchline/concierge/internal/processor"
	"github.com/launchline/concierge/internal/prompt"
	"github.com/launchline/concierge/internal/refresh"
	"github.com/launchline/concierge/internal/store"
	"github.com/launchline/concierge/internal/voice"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("concierge starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Checklist catalog and priority table: declarative config, loaded first
	// because the store's column list derives from the catalog.
	catalog, err := checklist.Load(cfg.ChecklistPath)
	if err != nil {
		slog.Error("failed to load checklist", "error", err)
		os.Exit(1)
	}
	priorities, err := gaps.LoadTable(cfg.PriorityPath)
	if err != nil {
		slog.Error("failed to load priority table", "error", err)
		os.Exit(1)
	}
	slog.Info("checklist loaded", "fields", catalog.TotalFields())

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL, catalog.FieldNames())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Extraction model client (optional; pattern-only extraction without it)
	var llm *anthropic.Client
	if cfg.AnthropicAPIKey != "" {
		llm = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		slog.Info("extraction model ready", "model", cfg.AnthropicModel)
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set, running pattern-only extraction")
	}
	ext := extract.New(llm, slog.Default())

	// Voice platform client (optional; scripts are generated but not pushed)
	var vc *voice.Client
	if cfg.VoiceAPIKey != "" {
		vc = voice.NewClient(cfg.VoiceAPIKey, cfg.VoiceBaseURL, slog.Default())
		slog.Info("voice platform client ready")
	} else {
		slog.Warn("VOICE_API_KEY not set, prompt pushes disabled")
	}

	// NATS events (optional; pipeline works without the bus)
	var ev *events.Client
	if cfg.NatsURL != "" {
		ev, err = events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer ev.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, operational events disabled")
	}

	resolver := identity.NewResolver(db, slog.Default())
	generator := prompt.NewGenerator(catalog)

	proc := processor.New(db, ext, generator, vc, ev, resolver, catalog, priorities, cfg, slog.Default())

	// Background prompt refresh sweep
	sweeper := refresh.New(db, proc, resolver, cfg.SweepInterval, cfg.RefreshDebounce, slog.Default())
	go sweeper.Run(ctx)

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, cfg.VoiceWebhookSecret, proc, proc)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("concierge ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("concierge stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
