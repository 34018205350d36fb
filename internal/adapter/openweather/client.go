// Package openweather adapts the OpenWeatherMap API for two concerns: current
// conditions at a coordinate pair, and forward geocoding of launch-site names.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/hi-updesh/my-space-agent/internal/domain"
)

// ErrNoAPIKey is returned when the client is constructed without a key.
var ErrNoAPIKey = errors.New("openweather api key is not configured")

// StatusError is a non-200 response from OpenWeatherMap.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openweather API error: status %d: %s", e.StatusCode, e.Body)
}

// Permanent reports whether retrying the same request cannot succeed, which
// is true for client errors such as a bad key or a malformed query.
func (e *StatusError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Client calls OpenWeatherMap. A shared circuit breaker guards both endpoints;
// when the upstream is failing hard, requests short-circuit instead of piling
// onto it.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client. baseURL is the API root, e.g.
// "https://api.openweathermap.org".
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		circuit:    cb,
		logger:     logger,
	}
}

// Current fetches current conditions at a coordinate pair, in metric units.
func (c *Client) Current(ctx context.Context, lat, lon float64) (domain.WeatherSnapshot, error) {
	if c.apiKey == "" {
		return domain.WeatherSnapshot{}, ErrNoAPIKey
	}

	params := url.Values{
		"lat":   {fmt.Sprintf("%.6f", lat)},
		"lon":   {fmt.Sprintf("%.6f", lon)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	u := c.baseURL + "/data/2.5/weather?" + params.Encode()

	var payload weatherResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("current weather: %w", err)
	}

	snap := domain.WeatherSnapshot{
		TemperatureC:  payload.Main.Temp,
		FeelsLikeC:    payload.Main.FeelsLike,
		WindSpeedMS:   payload.Wind.Speed,
		PrecipMM:      payload.Rain.OneH,
		CloudCoverPct: payload.Clouds.All,
		Station:       payload.Name,
		RetrievedAt:   time.Unix(payload.Dt, 0).UTC(),
	}
	if snap.PrecipMM == 0 {
		snap.PrecipMM = payload.Rain.ThreeH
	}
	if len(payload.Weather) > 0 {
		snap.Condition = payload.Weather[0].Main
		snap.Description = payload.Weather[0].Description
	}
	if payload.Dt == 0 {
		snap.RetrievedAt = time.Now().UTC()
	}
	return snap, nil
}

// Geocode resolves a free-text location name to coordinates via the
// OpenWeatherMap geocoding endpoint. An empty result set is Found=false, not
// an error.
func (c *Client) Geocode(ctx context.Context, location string) (domain.GeocodingResult, error) {
	if c.apiKey == "" {
		return domain.GeocodingResult{}, ErrNoAPIKey
	}

	params := url.Values{
		"q":     {location},
		"limit": {"1"},
		"appid": {c.apiKey},
	}
	u := c.baseURL + "/geo/1.0/direct?" + params.Encode()

	var places []geoPlace
	if err := c.getJSON(ctx, u, &places); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(places) == 0 {
		return domain.GeocodingResult{}, nil
	}

	p := places[0]
	return domain.GeocodingResult{
		Lat:   p.Lat,
		Lon:   p.Lon,
		Name:  p.Name,
		Found: true,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	result, err := c.circuit.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("openweather circuit open, short-circuiting request")
		}
		return err
	}
	return json.Unmarshal(result.([]byte), out)
}

// OpenWeatherMap response types.

type weatherResponse struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneH   float64 `json:"1h"`
		ThreeH float64 `json:"3h"`
	} `json:"rain"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
}

type geoPlace struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}
