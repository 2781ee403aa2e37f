package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/claimsight/internal/anthropic"
	"github.com/MikeSquared-Agency/claimsight/internal/api"
	"github.com/MikeSquared-Agency/claimsight/internal/config"
	"github.com/MikeSquared-Agency/claimsight/internal/hermes"
	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
	"github.com/MikeSquared-Agency/claimsight/internal/processor"
	"github.com/MikeSquared-Agency/claimsight/internal/slack"
	"github.com/MikeSquared-Agency/claimsight/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("claimsight starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outcome model
	var weights *predictor.Weights
	if cfg.WeightsPath != "" {
		w, err := predictor.LoadWeightsFile(cfg.WeightsPath)
		if err != nil {
			slog.Error("failed to load weights", "path", cfg.WeightsPath, "error", err)
			os.Exit(1)
		}
		weights = w
	}
	model := predictor.NewModel(weights)
	slog.Info("outcome model loaded", "version", model.Version())

	// Anthropic client (optional, templated text without it)
	var llm predictor.TextGenerator
	if cfg.AnthropicAPIKey != "" {
		llm = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		slog.Info("anthropic client ready", "model", cfg.AnthropicModel)
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set, using templated carrier and summary text")
	}

	pr := predictor.New(model, llm,
		predictor.WithLogger(slog.Default()),
		predictor.WithTimeout(cfg.LLMTimeout),
	)

	// Database (optional, predictions are not persisted without it)
	var predStore processor.PredictionStore
	var records api.PredictionReader
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		predStore, records = db, db
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, predictions will not be stored")
	}

	// NATS/Hermes (optional)
	var hermesClient *hermes.Client
	var publisher processor.Publisher
	if cfg.NatsURL != "" {
		c, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		hermesClient, publisher = c, c
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, running HTTP only")
	}

	// Slack poster (optional)
	var alerter processor.RiskAlerter
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		alerter = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	}

	proc := processor.New(pr, predStore, publisher, alerter, slog.Default())

	if hermesClient != nil {
		if err := hermesClient.QueueSubscribe(hermes.SubjectPredictionRequested, hermes.QueuePredictors, proc.HandlePredictionRequested); err != nil {
			slog.Error("failed to subscribe to prediction requests", "error", err)
			os.Exit(1)
		}
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, api.Backends{
		Processor:        proc,
		Batch:            pr,
		Records:          records,
		BatchConcurrency: cfg.BatchConcurrency,
		ModelVersion:     model.Version(),
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if hermesClient != nil {
		if err := hermesClient.Publish(hermes.SubjectRegistered, hermes.Registration{
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Port:         cfg.Port,
			ModelVersion: model.Version(),
			LLM:          llm != nil,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("claimsight ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("claimsight stopped")
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
