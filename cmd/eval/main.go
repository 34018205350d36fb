// Command eval runs offline end-to-end scenario checks against the turn
// runner: upstream sources are replaced with deterministic stubs and each
// scenario verifies the answer content plus the exact tool invocation order.
//
// Usage:
//
//	go run ./cmd/eval
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hi-updesh/my-space-agent/internal/agent"
	"github.com/hi-updesh/my-space-agent/internal/domain"
	"github.com/hi-updesh/my-space-agent/internal/observability"
)

// phase tracks pass/fail for one scenario.
type phase struct {
	name   string
	errors []string
}

func (p *phase) failf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) expectContains(answer, want string) {
	if !strings.Contains(answer, want) {
		p.failf("answer missing %q", want)
	}
}

func (p *phase) expectTools(trace []domain.Invocation, want ...string) {
	got := make([]string, len(trace))
	for i, e := range trace {
		got[i] = e.Tool
	}
	if len(got) != len(want) {
		p.failf("tool order %v, want %v", got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			p.failf("tool order %v, want %v", got, want)
			return
		}
	}
}

func main() {
	phases := []*phase{
		scenarioUpcoming(),
		scenarioArchiveFallback(),
		scenarioDeferredCoordinates(),
		scenarioWeatherOutage(),
	}

	failed := 0
	for _, p := range phases {
		if len(p.errors) == 0 {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	fmt.Printf("\n%d/%d scenarios passed\n", len(phases)-failed, len(phases))
	if failed > 0 {
		os.Exit(1)
	}
}

// Stub collaborators.

type feedStub struct {
	launches []domain.LaunchRecord
	err      error
}

func (f feedStub) NextLaunches(context.Context, int) ([]domain.LaunchRecord, error) {
	return f.launches, f.err
}

type archiveStub struct {
	rec domain.LaunchRecord
	err error
}

func (a archiveStub) LatestSuccessful(context.Context) (domain.LaunchRecord, error) {
	return a.rec, a.err
}

type geocoderStub struct {
	result domain.GeocodingResult
}

func (g geocoderStub) Geocode(context.Context, string) (domain.GeocodingResult, error) {
	return g.result, nil
}

type weatherStub struct {
	snap domain.WeatherSnapshot
	errs []error
	call int
}

func (w *weatherStub) Current(context.Context, float64, float64) (domain.WeatherSnapshot, error) {
	defer func() { w.call++ }()
	if w.call < len(w.errs) && w.errs[w.call] != nil {
		return domain.WeatherSnapshot{}, w.errs[w.call]
	}
	return w.snap, nil
}

func newRunner(feed agent.LaunchFeed, archive agent.LaunchArchive, geocoder domain.Geocoder, weather agent.WeatherService) *agent.Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	return agent.NewRunner(agent.RunnerConfig{
		Lookup:     agent.NewLookup(feed, archive, "SpaceX", 5, logger, metrics),
		Geocoder:   geocoder,
		Weather:    weather,
		Thresholds: domain.DefaultRiskThresholds(),
		Logger:     logger,
		Metrics:    metrics,
	})
}

func upcomingLaunch() domain.LaunchRecord {
	lat, lon := 28.5618571, -80.577366
	return domain.LaunchRecord{
		Mission:   "Starlink 6-77",
		Provider:  "SpaceX",
		Dates:     domain.DateCandidates{WinOpen: "2030-06-20T10:00:00Z"},
		Site:      domain.LaunchSite{Locality: "Cape Canaveral", Region: "Florida", Country: "United States"},
		Latitude:  &lat,
		Longitude: &lon,
	}
}

func calmWeather() domain.WeatherSnapshot {
	return domain.WeatherSnapshot{
		TemperatureC:  24,
		FeelsLikeC:    25,
		WindSpeedMS:   4,
		CloudCoverPct: 20,
		Condition:     "Clear",
		Description:   "clear sky",
	}
}

func scenarioUpcoming() *phase {
	p := &phase{name: "upcoming launch, calm weather"}

	runner := newRunner(
		feedStub{launches: []domain.LaunchRecord{upcomingLaunch()}},
		archiveStub{err: errors.New("must not be called")},
		geocoderStub{},
		&weatherStub{snap: calmWeather()},
	)

	res, err := runner.Run(context.Background(), "Will the next SpaceX launch be delayed by weather?")
	if err != nil {
		p.failf("unexpected error: %v", err)
		return p
	}
	p.expectContains(res.Answer, "Starlink 6-77")
	p.expectContains(res.Answer, "20 June 2030 at 10:00 UTC")
	p.expectContains(res.Answer, "Weather delay risk: low")
	p.expectContains(res.Answer, "not a forecast")
	p.expectTools(res.Trace, "launch_feed", "current_weather")
	return p
}

func scenarioArchiveFallback() *phase {
	p := &phase{name: "no upcoming match, archive fallback disclosed"}

	past := upcomingLaunch()
	past.Mission = "CRS-32"
	past.Dates = domain.DateCandidates{WinOpen: "2025-04-21T08:15:00Z"}

	runner := newRunner(
		feedStub{}, // empty feed
		archiveStub{rec: past},
		geocoderStub{},
		&weatherStub{snap: calmWeather()},
	)

	res, err := runner.Run(context.Background(), "when is the next launch?")
	if err != nil {
		p.failf("unexpected error: %v", err)
		return p
	}
	if res.Launch.Source != domain.SourceHistoricalFallback {
		p.failf("source %q, want %q", res.Launch.Source, domain.SourceHistoricalFallback)
	}
	p.expectContains(res.Answer, "No upcoming SpaceX launch was found")
	p.expectContains(res.Answer, "most recent successful launch")
	p.expectTools(res.Trace, "launch_feed", "launch_archive", "current_weather")
	return p
}

func scenarioDeferredCoordinates() *phase {
	p := &phase{name: "unresolvable site, weather skipped"}

	rec := upcomingLaunch()
	rec.Latitude = nil
	rec.Longitude = nil
	rec.Site = domain.LaunchSite{Name: "Launch Complex Q"}

	weather := &weatherStub{snap: calmWeather()}
	runner := newRunner(
		feedStub{launches: []domain.LaunchRecord{rec}},
		archiveStub{err: errors.New("must not be called")},
		geocoderStub{}, // never finds anything
		weather,
	)

	res, err := runner.Run(context.Background(), "weather at the pad?")
	if err != nil {
		p.failf("unexpected error: %v", err)
		return p
	}
	if res.Outcome != agent.OutcomeDegraded {
		p.failf("outcome %q, want %q", res.Outcome, agent.OutcomeDegraded)
	}
	if weather.call != 0 {
		p.failf("weather called %d times, want 0", weather.call)
	}
	p.expectContains(res.Answer, "coordinates could not be determined")
	p.expectContains(res.Answer, "current weather was not checked")
	p.expectTools(res.Trace, "launch_feed", "geocode")
	return p
}

func scenarioWeatherOutage() *phase {
	p := &phase{name: "weather outage, exactly one retry"}

	weather := &weatherStub{errs: []error{
		errors.New("upstream 500"),
		errors.New("upstream 500"),
		errors.New("upstream 500"), // a third call would succeed silently without this
	}}
	runner := newRunner(
		feedStub{launches: []domain.LaunchRecord{upcomingLaunch()}},
		archiveStub{err: errors.New("must not be called")},
		geocoderStub{},
		weather,
	)

	res, err := runner.Run(context.Background(), "any delay risk?")
	if err != nil {
		p.failf("unexpected error: %v", err)
		return p
	}
	if res.Outcome != agent.OutcomeDegraded {
		p.failf("outcome %q, want %q", res.Outcome, agent.OutcomeDegraded)
	}
	if weather.call != 2 {
		p.failf("weather called %d times, want 2 (one retry)", weather.call)
	}
	p.expectContains(res.Answer, "unavailable right now")
	p.expectTools(res.Trace, "launch_feed", "current_weather", "current_weather")
	return p
}
