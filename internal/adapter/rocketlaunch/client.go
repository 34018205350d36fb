// Package rocketlaunch adapts the RocketLaunch.Live public feed, which lists
// the next few launches across all providers without an API key.
package rocketlaunch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hi-updesh/my-space-agent/internal/domain"
)

// Client implements the upcoming-launch feed against RocketLaunch.Live.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a feed client. baseURL is the API root, e.g.
// "https://fdo.rocketlaunch.live/json".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// NextLaunches fetches the next launches across all providers. The feed caps
// the window; asking for more than it serves returns what it has.
func (c *Client) NextLaunches(ctx context.Context, limit int) ([]domain.LaunchRecord, error) {
	u := fmt.Sprintf("%s/launches/next/%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("launch feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("launch feed API error: status %d: %s", resp.StatusCode, body)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}

	records := make([]domain.LaunchRecord, 0, len(feed.Result))
	for _, l := range feed.Result {
		records = append(records, l.toRecord(c.logger))
	}
	return records, nil
}

// RocketLaunch.Live response types. Date fields arrive in whatever mix of
// formats the feed has for that launch; they are carried raw and normalized
// downstream.

type feedResponse struct {
	Result []feedLaunch `json:"result"`
}

type feedLaunch struct {
	Name     string `json:"name"`
	Provider struct {
		Name string `json:"name"`
	} `json:"provider"`
	Pad *feedPad `json:"pad"`

	WinOpen           string                `json:"win_open"`
	T0                string                `json:"t0"`
	SortDate          epochField            `json:"sort_date"` // epoch seconds, string- or number-encoded
	EstDate           *domain.EstimatedDate `json:"est_date"`
	LaunchDescription string                `json:"launch_description"`
	QuickText         string                `json:"quicktext"`
	DateStr           string                `json:"date_str"`
}

// epochField is an epoch-seconds value the feed serves inconsistently:
// sometimes a JSON string, sometimes a bare number. Either way it is carried
// as the raw digits and normalized downstream.
type epochField string

func (e *epochField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = epochField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*e = epochField(n.String())
	return nil
}

type feedPad struct {
	Name      string `json:"name"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Location  *struct {
		Name      string `json:"name"` // often the locality, e.g. "Cape Canaveral"
		StateName string `json:"state_name"`
		Country   string `json:"country"`
	} `json:"location"`
}

func (l feedLaunch) toRecord(logger *slog.Logger) domain.LaunchRecord {
	rec := domain.LaunchRecord{
		Mission:  l.Name,
		Provider: l.Provider.Name,
		Details:  l.LaunchDescription,
		Dates: domain.DateCandidates{
			WinOpen:     l.WinOpen,
			T0:          l.T0,
			SortDate:    string(l.SortDate),
			EstDate:     l.EstDate,
			Description: l.LaunchDescription,
			QuickText:   l.QuickText,
			DateStr:     l.DateStr,
		},
	}

	if l.Pad == nil {
		return rec
	}
	rec.Site.Name = l.Pad.Name
	if l.Pad.Location != nil {
		rec.Site.Locality = l.Pad.Location.Name
		rec.Site.Region = l.Pad.Location.StateName
		rec.Site.Country = l.Pad.Location.Country
	}
	rec.Latitude = parseCoordinate(l.Pad.Latitude, "latitude", l.Name, logger)
	rec.Longitude = parseCoordinate(l.Pad.Longitude, "longitude", l.Name, logger)
	return rec
}

// parseCoordinate converts the feed's string-encoded coordinate. Absent or
// malformed values become nil so the resolver falls through to name lookup.
func parseCoordinate(s, kind, mission string, logger *slog.Logger) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logger.Warn("unparsable pad coordinate in feed", "mission", mission, kind, s)
		return nil
	}
	return &v
}
