package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Launch lookup.
	Provider        string // target launch provider, matched case-insensitively
	FeedWindow      int    // how many upcoming launches the free feed returns
	FeedBaseURL     string
	ArchiveBaseURL  string
	UpstreamTimeout time.Duration

	// OpenWeatherMap (current weather + geocoding). Weather features degrade
	// gracefully when the key is absent.
	OpenWeatherAPIKey string
	OpenWeatherURL    string
	GeocodeCacheSize  int

	// LLM collaborator (grounding + answer phrasing), OpenAI-compatible.
	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string
	LLMTimeout time.Duration

	// Optional Kafka audit stream for completed turns.
	AuditEnabled bool
	KafkaBrokers []string
	AuditTopic   string

	// Delay assessment policy knobs.
	AssessWindHighMS     float64
	AssessWindModerateMS float64
	AssessCloudCoverPct  float64
	AssessTempColdC      float64
	AssessTempHotC       float64
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	llmTimeout, err := parseDuration("LLM_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	feedWindow, err := parseInt("FEED_WINDOW", 5)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Provider:        envOrDefault("LAUNCH_PROVIDER", "SpaceX"),
		FeedWindow:      feedWindow,
		FeedBaseURL:     envOrDefault("ROCKETLAUNCH_BASE_URL", "https://fdo.rocketlaunch.live/json"),
		ArchiveBaseURL:  envOrDefault("SPACEX_BASE_URL", "https://api.spacexdata.com/v4"),
		UpstreamTimeout: upstreamTimeout,

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherURL:    envOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),
		GeocodeCacheSize:  cacheSize,

		LLMAPIKey:  os.Getenv("OPENAI_API_KEY"),
		LLMModel:   envOrDefault("LLM_MODEL", "gpt-4o-mini"),
		LLMBaseURL: envOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMTimeout: llmTimeout,

		AuditEnabled: os.Getenv("AUDIT_ENABLED") == "true",
		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:   envOrDefault("AUDIT_TOPIC", "launch-agent-turns"),
	}

	if err := loadThresholds(cfg); err != nil {
		return nil, err
	}

	if cfg.Provider == "" {
		return nil, errors.New("LAUNCH_PROVIDER must not be empty")
	}
	if cfg.FeedWindow <= 0 {
		return nil, errors.New("FEED_WINDOW must be positive")
	}
	if cfg.AuditEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("AUDIT_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func loadThresholds(cfg *Config) error {
	var err error
	if cfg.AssessWindHighMS, err = parseFloat("ASSESS_WIND_HIGH_MS", 10); err != nil {
		return err
	}
	if cfg.AssessWindModerateMS, err = parseFloat("ASSESS_WIND_MODERATE_MS", 8); err != nil {
		return err
	}
	if cfg.AssessCloudCoverPct, err = parseFloat("ASSESS_CLOUD_COVER_PCT", 70); err != nil {
		return err
	}
	if cfg.AssessTempColdC, err = parseFloat("ASSESS_TEMP_COLD_C", -5); err != nil {
		return err
	}
	if cfg.AssessTempHotC, err = parseFloat("ASSESS_TEMP_HOT_C", 35); err != nil {
		return err
	}
	if cfg.AssessWindModerateMS > cfg.AssessWindHighMS {
		return errors.New("ASSESS_WIND_MODERATE_MS must not exceed ASSESS_WIND_HIGH_MS")
	}
	if cfg.AssessTempColdC >= cfg.AssessTempHotC {
		return errors.New("ASSESS_TEMP_COLD_C must be below ASSESS_TEMP_HOT_C")
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
