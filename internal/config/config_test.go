package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "SpaceX", cfg.Provider)
	assert.Equal(t, 5, cfg.FeedWindow)
	assert.Equal(t, "https://fdo.rocketlaunch.live/json", cfg.FeedBaseURL)
	assert.Equal(t, "https://api.spacexdata.com/v4", cfg.ArchiveBaseURL)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)

	assert.Equal(t, "https://api.openweathermap.org", cfg.OpenWeatherURL)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)

	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLMBaseURL)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)

	assert.False(t, cfg.AuditEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "launch-agent-turns", cfg.AuditTopic)

	assert.Equal(t, 10.0, cfg.AssessWindHighMS)
	assert.Equal(t, 8.0, cfg.AssessWindModerateMS)
	assert.Equal(t, 70.0, cfg.AssessCloudCoverPct)
	assert.Equal(t, -5.0, cfg.AssessTempColdC)
	assert.Equal(t, 35.0, cfg.AssessTempHotC)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("LAUNCH_PROVIDER", "Rocket Lab")
	t.Setenv("FEED_WINDOW", "10")
	t.Setenv("OPENWEATHER_API_KEY", "ow-test-key")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("AUDIT_TOPIC", "custom-turns")
	t.Setenv("ASSESS_WIND_HIGH_MS", "12.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "Rocket Lab", cfg.Provider)
	assert.Equal(t, 10, cfg.FeedWindow)
	assert.Equal(t, "ow-test-key", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-turns", cfg.AuditTopic)
	assert.Equal(t, 12.5, cfg.AssessWindHighMS)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"zero feed window", "FEED_WINDOW", "0"},
		{"bad feed window", "FEED_WINDOW", "five"},
		{"bad threshold", "ASSESS_WIND_HIGH_MS", "windy"},
		{"inverted wind thresholds", "ASSESS_WIND_MODERATE_MS", "99"},
		{"inverted temp band", "ASSESS_TEMP_COLD_C", "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_AuditRequiresBrokers(t *testing.T) {
	t.Setenv("AUDIT_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
