package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherFixture = `{
  "dt": 1750305600,
  "main": {"temp": 27.4, "feels_like": 29.1},
  "wind": {"speed": 6.2},
  "rain": {"1h": 0.3},
  "clouds": {"all": 40},
  "weather": [{"main": "Rain", "description": "light rain"}],
  "name": "Cape Canaveral"
}`

func testClient(baseURL string) *Client {
	return NewClient("test-key", baseURL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Current(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "28.561857", r.URL.Query().Get("lat"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(weatherFixture))
	}))
	defer srv.Close()

	snap, err := testClient(srv.URL).Current(context.Background(), 28.5618571, -80.577366)
	require.NoError(t, err)

	assert.Equal(t, 27.4, snap.TemperatureC)
	assert.Equal(t, 29.1, snap.FeelsLikeC)
	assert.Equal(t, 6.2, snap.WindSpeedMS)
	assert.Equal(t, 0.3, snap.PrecipMM)
	assert.Equal(t, 40.0, snap.CloudCoverPct)
	assert.Equal(t, "Rain", snap.Condition)
	assert.Equal(t, "light rain", snap.Description)
	assert.Equal(t, "Cape Canaveral", snap.Station)
	assert.Equal(t, time.Date(2025, 6, 19, 4, 0, 0, 0, time.UTC), snap.RetrievedAt)
}

func TestClient_Current_ThreeHourRainFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"dt": 1750305600, "main": {"temp": 20}, "rain": {"3h": 1.8}, "weather": [{"main": "Rain", "description": "rain"}]}`))
	}))
	defer srv.Close()

	snap, err := testClient(srv.URL).Current(context.Background(), 28.5, -80.5)
	require.NoError(t, err)
	assert.Equal(t, 1.8, snap.PrecipMM)
}

func TestClient_Current_NoAPIKey(t *testing.T) {
	c := NewClient("", "http://unused", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.Current(context.Background(), 28.5, -80.5)
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestClient_Current_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Current(context.Background(), 28.5, -80.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, statusErr.Permanent(), "a rejected key never succeeds on retry")
}

func TestClient_Current_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Current(context.Background(), 28.5, -80.5)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.False(t, statusErr.Permanent())
}

func TestClient_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/1.0/direct", r.URL.Path)
		assert.Equal(t, "Cape Canaveral, Florida, United States", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name": "Cape Canaveral", "lat": 28.3922, "lon": -80.6077}]`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Geocode(context.Background(), "Cape Canaveral, Florida, United States")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, 28.3922, result.Lat)
	assert.Equal(t, -80.6077, result.Lon)
	assert.Equal(t, "Cape Canaveral", result.Name)
}

func TestClient_Geocode_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Geocode(context.Background(), "Nowhere Launch Complex")
	require.NoError(t, err, "an empty result set is not an error")
	assert.False(t, result.Found)
}
