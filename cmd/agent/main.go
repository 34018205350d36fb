package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/hi-updesh/my-space-agent/internal/adapter/http"
	kafkaadapter "github.com/hi-updesh/my-space-agent/internal/adapter/kafka"
	"github.com/hi-updesh/my-space-agent/internal/adapter/llm"
	"github.com/hi-updesh/my-space-agent/internal/adapter/openweather"
	"github.com/hi-updesh/my-space-agent/internal/adapter/rocketlaunch"
	"github.com/hi-updesh/my-space-agent/internal/adapter/spacex"
	"github.com/hi-updesh/my-space-agent/internal/agent"
	"github.com/hi-updesh/my-space-agent/internal/config"
	"github.com/hi-updesh/my-space-agent/internal/domain"
	"github.com/hi-updesh/my-space-agent/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	feed := rocketlaunch.NewClient(cfg.FeedBaseURL, cfg.UpstreamTimeout, logger)
	archive := spacex.NewClient(cfg.ArchiveBaseURL, cfg.UpstreamTimeout, logger)
	lookup := agent.NewLookup(feed, archive, cfg.Provider, cfg.FeedWindow, logger, metrics)

	// Weather and geocoding are feature-gated on the OpenWeather key; without
	// it the agent still answers launch questions, minus conditions.
	var (
		geocoder domain.Geocoder
		weather  agent.WeatherService
	)
	if cfg.OpenWeatherAPIKey != "" {
		ow := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherURL, cfg.UpstreamTimeout, logger)
		geocoder = openweather.NewCachedGeocoder(ow, cfg.GeocodeCacheSize, metrics)
		weather = ow
		logger.Info("openweather enabled", "cache_size", cfg.GeocodeCacheSize)
	} else {
		logger.Info("openweather disabled, weather checks unavailable")
	}

	var (
		grounder agent.Grounder
		narrator agent.Narrator
	)
	if cfg.LLMAPIKey != "" {
		chat := llm.NewClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL, cfg.LLMTimeout, logger)
		grounder = chat
		narrator = chat
		logger.Info("llm collaborator enabled", "model", cfg.LLMModel)
	} else {
		logger.Info("llm collaborator disabled, answers stay deterministic")
	}

	var (
		audit       agent.AuditSink
		auditWriter *kafkaadapter.AuditWriter
	)
	if cfg.AuditEnabled {
		auditWriter = kafkaadapter.NewAuditWriter(cfg, logger)
		audit = auditWriter
		logger.Info("turn audit stream enabled", "topic", cfg.AuditTopic)
	}

	runner := agent.NewRunner(agent.RunnerConfig{
		Lookup:   lookup,
		Geocoder: geocoder,
		Weather:  weather,
		Grounder: grounder,
		Narrator: narrator,
		Audit:    audit,
		Thresholds: domain.RiskThresholds{
			WindHighMS:     cfg.AssessWindHighMS,
			WindModerateMS: cfg.AssessWindModerateMS,
			CloudCoverPct:  cfg.AssessCloudCoverPct,
			TempColdC:      cfg.AssessTempColdC,
			TempHotC:       cfg.AssessTempHotC,
		},
		Logger:  logger,
		Metrics: metrics,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if auditWriter != nil {
		if err := auditWriter.Close(); err != nil {
			logger.Error("audit writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
