// Package spacex adapts the r/SpaceX v4 API as the historical-launch archive
// used when the upcoming feed has nothing for the target provider.
package spacex

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

	"github.com/hi-updesh/my-space-agent/internal/domain"
)

// Client implements the launch archive against api.spacexdata.com/v4.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an archive client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// LatestSuccessful returns the most recent past launch marked successful,
// enriched with launchpad coordinates where the pad record resolves. Pad
// enrichment is best effort: a missing pad leaves the coordinates nil and the
// resolver falls back to name lookup.
func (c *Client) LatestSuccessful(ctx context.Context) (domain.LaunchRecord, error) {
	var launches []pastLaunch
	if err := c.getJSON(ctx, c.baseURL+"/launches/past", &launches); err != nil {
		return domain.LaunchRecord{}, fmt.Errorf("fetch past launches: %w", err)
	}

	latest, ok := latestSuccess(launches)
	if !ok {
		return domain.LaunchRecord{}, errors.New("no successful past launch in archive")
	}

	rec := domain.LaunchRecord{
		Mission:  latest.Name,
		Provider: "SpaceX",
		Details:  latest.Details,
		// date_utc is full ISO 8601; it rides the highest-fidelity slot.
		Dates: domain.DateCandidates{WinOpen: latest.DateUTC},
	}

	if latest.Launchpad != "" {
		c.enrichFromPad(ctx, latest.Launchpad, &rec)
	}
	return rec, nil
}

func latestSuccess(launches []pastLaunch) (pastLaunch, bool) {
	var (
		best     pastLaunch
		bestTime time.Time
		found    bool
	)
	for _, l := range launches {
		if l.Success == nil || !*l.Success {
			continue
		}
		t, err := time.Parse(time.RFC3339, l.DateUTC)
		if err != nil {
			continue
		}
		if !found || t.After(bestTime) {
			best, bestTime, found = l, t, true
		}
	}
	return best, found
}

func (c *Client) enrichFromPad(ctx context.Context, padID string, rec *domain.LaunchRecord) {
	var pad launchpad
	u := c.baseURL + "/launchpads/" + url.PathEscape(padID)
	if err := c.getJSON(ctx, u, &pad); err != nil {
		c.logger.Warn("launchpad enrichment failed", "pad_id", padID, "error", err)
		return
	}

	rec.Site = domain.LaunchSite{
		Name:     pad.FullName,
		Locality: pad.Locality,
		Region:   pad.Region,
	}
	if rec.Site.Name == "" {
		rec.Site.Name = pad.Name
	}
	if pad.Latitude != nil && pad.Longitude != nil {
		rec.Latitude = pad.Latitude
		rec.Longitude = pad.Longitude
	}
}

func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("archive API error: status %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode archive response: %w", err)
	}
	return nil
}

// r/SpaceX v4 response types.

type pastLaunch struct {
	Name      string `json:"name"`
	DateUTC   string `json:"date_utc"`
	Success   *bool  `json:"success"`
	Details   string `json:"details"`
	Launchpad string `json:"launchpad"` // pad document ID
}

type launchpad struct {
	Name      string   `json:"name"`
	FullName  string   `json:"full_name"`
	Locality  string   `json:"locality"`
	Region    string   `json:"region"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
