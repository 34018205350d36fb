//go:build openweather

package openweather

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real OpenWeatherMap API and require a valid
// OPENWEATHER_API_KEY env var.
// Run with: go test -tags=openweather ./internal/adapter/openweather/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("OPENWEATHER_API_KEY")
	if key == "" {
		t.Fatal("OPENWEATHER_API_KEY must be set to run smoke tests")
	}
	return NewClient(key, "https://api.openweathermap.org", 10*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_Current(t *testing.T) {
	c := smokeClient(t)

	// Cape Canaveral SLC-40.
	snap, err := c.Current(context.Background(), 28.5618571, -80.577366)
	require.NoError(t, err)

	assert.NotEmpty(t, snap.Condition)
	assert.False(t, snap.RetrievedAt.IsZero())
	assert.Greater(t, snap.TemperatureC, -50.0)
	assert.Less(t, snap.TemperatureC, 60.0)
}

func TestSmoke_Geocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.Geocode(context.Background(), "Cape Canaveral, Florida, United States")
	require.NoError(t, err)
	require.True(t, result.Found)

	assert.InDelta(t, 28.4, result.Lat, 0.5, "lat should be near Cape Canaveral")
	assert.InDelta(t, -80.6, result.Lon, 0.5, "lon should be near Cape Canaveral")
}
