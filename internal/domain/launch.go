package domain

import (
	"fmt"
	"strings"
	"time"
)

// Launch record provenance values.
const (
	SourceUpcoming           = "upcoming"
	SourceHistoricalFallback = "historical-fallback"
)

// Coordinate resolution method tags, carried for transparency only.
const (
	MethodExplicit    = "explicit"
	MethodNameLookup  = "name-lookup"
	MethodLLMGrounded = "llm-grounded"
)

// EstimatedDate is the structured estimate some feed records carry instead of
// a full timestamp. Month and Day may be zero when the feed only knows the year.
type EstimatedDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// DateCandidates holds the raw, heterogeneous date fields a launch record may
// populate. Fields are ordered by descending fidelity; see NormalizeLaunchDate
// for the extraction cascade.
type DateCandidates struct {
	WinOpen     string         `json:"win_open,omitempty"`    // ISO 8601, e.g. "2025-06-19T03:00Z"
	T0          string         `json:"t0,omitempty"`          // ISO 8601
	SortDate    string         `json:"sort_date,omitempty"`   // Unix epoch seconds, string-encoded
	EstDate     *EstimatedDate `json:"est_date,omitempty"`    // structured year/month/day estimate
	Description string         `json:"description,omitempty"` // prose, may embed "targeted for June 19, 2025"
	QuickText   string         `json:"quicktext,omitempty"`   // e.g. "Falcon 9 - Ax-4 - Jun 19 (estimated)"
	DateStr     string         `json:"date_str,omitempty"`    // e.g. "Jun 19" or "Jun 19, 2025"
}

// LaunchSite identifies where a launch takes place.
type LaunchSite struct {
	Name     string `json:"name,omitempty"`     // pad name, e.g. "SLC-40"
	Locality string `json:"locality,omitempty"` // e.g. "Cape Canaveral"
	Region   string `json:"region,omitempty"`   // e.g. "Florida"
	Country  string `json:"country,omitempty"`
}

// DisplayName builds a geocodable description of the site, preferring the
// specific locality over the pad name and appending region and country for
// disambiguation. Falls back to a generic phrase when nothing is known.
func (s LaunchSite) DisplayName() string {
	parts := make([]string, 0, 3)
	switch {
	case s.Locality != "":
		parts = append(parts, s.Locality)
	case s.Name != "":
		parts = append(parts, s.Name)
	}
	if s.Region != "" {
		parts = append(parts, s.Region)
	}
	if s.Country != "" {
		parts = append(parts, s.Country)
	}
	if len(parts) == 0 {
		return "the launch area"
	}
	return strings.Join(parts, ", ")
}

// LaunchRecord is the normalized representation of a launch from either the
// upcoming feed or the historical archive. Exactly one canonical date-time is
// derived from the candidate fields before the record leaves the lookup stage;
// when no candidate parses, When stays unknown rather than defaulting.
type LaunchRecord struct {
	Mission  string         `json:"mission"`
	Provider string         `json:"provider"`
	Details  string         `json:"details,omitempty"`
	Dates    DateCandidates `json:"dates"`
	Site     LaunchSite     `json:"site"`

	// Explicit pad coordinates when the source supplies them. Nil means absent.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Source string             `json:"source"` // SourceUpcoming or SourceHistoricalFallback
	When   NormalizedDateTime `json:"when"`
}

// NormalizedDateTime is a timezone-aware instant in UTC. The zero value means
// the date is unknown. HasTime distinguishes full timestamps from date-only
// estimates so the display never fabricates a 00:00 time.
type NormalizedDateTime struct {
	Instant time.Time `json:"instant,omitempty"`
	HasTime bool      `json:"has_time,omitempty"`
}

// Known reports whether a date was successfully extracted.
func (n NormalizedDateTime) Known() bool { return !n.Instant.IsZero() }

// Display renders the canonical user-facing form, regenerated from the
// instant every time so raw source text can never leak into the output:
//
//	"19 June 2025 at 03:00 UTC"  when the time is known
//	"19 June 2025"               when only the date is known
//	""                           when the date is unknown
func (n NormalizedDateTime) Display() string {
	if !n.Known() {
		return ""
	}
	if !n.HasTime {
		return n.Instant.UTC().Format("2 January 2006")
	}
	return n.Instant.UTC().Format("2 January 2006 at 15:04 UTC")
}

// Coordinates is a validated WGS-84 latitude/longitude pair plus the method
// that produced it.
type Coordinates struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Method string  `json:"method"`
}

// NewCoordinates validates ranges before constructing a pair. The resolver
// never hands out an out-of-range coordinate.
func NewCoordinates(lat, lon float64, method string) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("latitude %.4f out of range: %w", lat, ErrParseFailure)
	}
	if lon < -180 || lon > 180 {
		return Coordinates{}, fmt.Errorf("longitude %.4f out of range: %w", lon, ErrParseFailure)
	}
	return Coordinates{Lat: lat, Lon: lon, Method: method}, nil
}

// WeatherSnapshot holds current conditions at a location. It is always an
// observation taken at RetrievedAt, never a forecast.
type WeatherSnapshot struct {
	TemperatureC  float64   `json:"temperature_c"`
	FeelsLikeC    float64   `json:"feels_like_c"`
	WindSpeedMS   float64   `json:"wind_speed_ms"`
	PrecipMM      float64   `json:"precip_mm"` // rain over the last hour
	CloudCoverPct float64   `json:"cloud_cover_pct"`
	Condition     string    `json:"condition"`   // provider condition group, e.g. "Rain"
	Description   string    `json:"description"` // human-readable, e.g. "light rain"
	Station       string    `json:"station,omitempty"`
	RetrievedAt   time.Time `json:"retrieved_at"`
}

// Delay risk labels.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
)

// DelayAssessment is the qualitative weather-delay judgment for one launch.
// Created once per query and discarded with the turn.
type DelayAssessment struct {
	Mission     string             `json:"mission"`
	When        NormalizedDateTime `json:"when"`
	Weather     WeatherSnapshot    `json:"weather"`
	Risk        string             `json:"risk"`
	Rationale   string             `json:"rationale"`
	CurrentOnly bool               `json:"current_only"` // launch is in the future; conditions are a proxy
}
