package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hi-updesh/my-space-agent/internal/domain"
	"github.com/hi-updesh/my-space-agent/internal/observability"
)

// Turn outcomes, used for metrics and the audit stream.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

// WeatherService fetches current conditions at a coordinate pair.
type WeatherService interface {
	Current(ctx context.Context, lat, lon float64) (domain.WeatherSnapshot, error)
}

// Grounder asks the LLM collaborator for launch-site coordinates when the
// deterministic resolution tiers came up empty. Found=false without error is a
// legitimate answer.
type Grounder interface {
	GroundCoordinates(ctx context.Context, location string) (domain.GeocodingResult, error)
}

// Narrator rephrases the deterministic answer for the user. The facts it is
// given are the answer of record; narration only changes the wording.
type Narrator interface {
	Narrate(ctx context.Context, question, facts string) (string, error)
}

// AuditSink receives completed turn records, typically a Kafka topic.
type AuditSink interface {
	Publish(ctx context.Context, audit TurnAudit) error
}

// Reasons a result carries no weather snapshot. "unconfigured" means no
// weather service is wired at all; "failed" means the upstream was asked and
// could not answer.
const (
	weatherUnconfigured = "unconfigured"
	weatherFailed       = "failed"
)

// TurnResult is everything one query produced: the launch, the derived
// coordinates and weather where available, the assessment, the final answer
// text, and the full invocation trace.
type TurnResult struct {
	TurnID        string                  `json:"turn_id"`
	Question      string                  `json:"question"`
	Launch        domain.LaunchRecord     `json:"launch"`
	Coordinates   *domain.Coordinates     `json:"coordinates,omitempty"`
	Weather       *domain.WeatherSnapshot `json:"weather,omitempty"`
	WeatherStatus string                  `json:"weather_status,omitempty"`
	Assessment    *domain.DelayAssessment `json:"assessment,omitempty"`
	Answer        string                  `json:"answer"`
	Outcome       string                  `json:"outcome"`
	Trace         []domain.Invocation     `json:"trace"`
}

// TurnAudit is the record published to the audit stream after a turn.
type TurnAudit struct {
	TurnID      string              `json:"turn_id"`
	Question    string              `json:"question"`
	Provider    string              `json:"provider"`
	Mission     string              `json:"mission,omitempty"`
	Source      string              `json:"source,omitempty"`
	Risk        string              `json:"risk,omitempty"`
	Outcome     string              `json:"outcome"`
	Answer      string              `json:"answer"`
	Trace       []domain.Invocation `json:"trace"`
	CompletedAt time.Time           `json:"completed_at"`
}

// RunnerConfig wires a Runner. Lookup, Logger and Metrics are required;
// Geocoder, Weather, Grounder, Narrator and Audit are optional collaborators
// whose absence degrades the turn rather than failing it.
type RunnerConfig struct {
	Lookup     *Lookup
	Geocoder   domain.Geocoder
	Weather    WeatherService
	Grounder   Grounder
	Narrator   Narrator
	Audit      AuditSink
	Thresholds domain.RiskThresholds
	Logger     *slog.Logger
	Metrics    *observability.Metrics
}

// Runner executes one query turn end to end: launch lookup, coordinate
// resolution, current weather, delay assessment, answer composition.
type Runner struct {
	lookup     *Lookup
	geocoder   domain.Geocoder
	weather    WeatherService
	grounder   Grounder
	narrator   Narrator
	audit      AuditSink
	thresholds domain.RiskThresholds
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewRunner builds a Runner from its collaborators.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{
		lookup:     cfg.Lookup,
		geocoder:   cfg.Geocoder,
		weather:    cfg.Weather,
		grounder:   cfg.Grounder,
		narrator:   cfg.Narrator,
		audit:      cfg.Audit,
		thresholds: cfg.Thresholds,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// CheckReadiness reports whether the Runner can serve queries.
func (r *Runner) CheckReadiness(context.Context) error {
	if r.lookup == nil {
		return fmt.Errorf("launch lookup not configured")
	}
	return nil
}

// Run executes one turn. A non-nil error is returned only when no launch
// could be found at all; every partial-data situation instead yields a result
// whose answer states what is missing.
func (r *Runner) Run(ctx context.Context, question string) (TurnResult, error) {
	start := time.Now()
	trace := &domain.Trace{}
	res := TurnResult{
		TurnID:   uuid.NewString(),
		Question: question,
		Outcome:  OutcomeOK,
	}
	logger := r.logger.With("turn_id", res.TurnID)

	rec, err := r.lookup.Find(ctx, trace)
	if err != nil {
		res.Outcome = OutcomeError
		res.Answer = "Launch information is unavailable right now: both the upcoming-launch feed and the historical archive failed. Please try again later."
		r.finish(ctx, &res, trace, start, logger)
		return res, err
	}
	res.Launch = rec

	coords := r.resolve(ctx, rec, trace, logger)
	res.Coordinates = coords

	switch {
	case coords == nil:
		res.Outcome = OutcomeDegraded
	case r.weather == nil:
		logger.Info("weather service not configured, skipping conditions check")
		res.WeatherStatus = weatherUnconfigured
		res.Outcome = OutcomeDegraded
	default:
		if wx, werr := r.fetchWeather(ctx, *coords, trace, logger); werr != nil {
			res.WeatherStatus = weatherFailed
			res.Outcome = OutcomeDegraded
		} else {
			res.Weather = &wx
			assessment := domain.AssessDelay(rec, wx, r.thresholds)
			res.Assessment = &assessment
		}
	}

	res.Answer = composeAnswer(res)
	r.narrate(ctx, &res, trace, logger)
	r.finish(ctx, &res, trace, start, logger)
	return res, nil
}

// resolve applies the coordinate resolution chain, escalating to LLM
// grounding when the deterministic tiers defer. Nil means unresolved; the
// turn proceeds without weather.
func (r *Runner) resolve(ctx context.Context, rec domain.LaunchRecord, trace *domain.Trace, logger *slog.Logger) *domain.Coordinates {
	var geocoder domain.Geocoder
	if r.geocoder != nil {
		geocoder = &tracedGeocoder{inner: r.geocoder, trace: trace, metrics: r.metrics}
	}

	coords, err := domain.ResolveCoordinates(ctx, rec, geocoder, logger)
	if err == nil {
		r.metrics.Resolutions.WithLabelValues(coords.Method).Inc()
		return &coords
	}

	location := rec.Site.DisplayName()
	if r.grounder == nil {
		r.metrics.Resolutions.WithLabelValues("deferred").Inc()
		logger.Info("coordinate resolution deferred, no grounder configured", "location", location)
		return nil
	}

	result, gerr := r.grounder.GroundCoordinates(ctx, location)
	switch {
	case gerr != nil:
		trace.Append(toolLLMGrounding, location, domain.TagError)
		r.metrics.LLMRequests.WithLabelValues("grounding", "error").Inc()
		logger.Warn("coordinate grounding failed", "location", location, "error", gerr)
	case !result.Found:
		trace.Append(toolLLMGrounding, location, domain.TagEmpty)
		r.metrics.LLMRequests.WithLabelValues("grounding", "empty").Inc()
	default:
		grounded, cerr := domain.NewCoordinates(result.Lat, result.Lon, domain.MethodLLMGrounded)
		if cerr != nil {
			trace.Append(toolLLMGrounding, location, domain.TagError)
			r.metrics.LLMRequests.WithLabelValues("grounding", "error").Inc()
			logger.Warn("grounder returned out-of-range coordinates", "location", location, "error", cerr)
			break
		}
		trace.Append(toolLLMGrounding, location, domain.TagOK)
		r.metrics.LLMRequests.WithLabelValues("grounding", "ok").Inc()
		r.metrics.Resolutions.WithLabelValues(domain.MethodLLMGrounded).Inc()
		return &grounded
	}

	r.metrics.Resolutions.WithLabelValues("deferred").Inc()
	return nil
}

// permanentError marks failures a retry cannot fix, such as an auth or
// bad-request response from the upstream.
type permanentError interface {
	Permanent() bool
}

func isPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p) && p.Permanent()
}

// fetchWeather asks for current conditions, retrying exactly once on a
// transient failure. Unbounded retries would stall the user's turn; one is
// enough to ride out a blip, and permanent client errors are never retried.
func (r *Runner) fetchWeather(ctx context.Context, c domain.Coordinates, trace *domain.Trace, logger *slog.Logger) (domain.WeatherSnapshot, error) {
	args := fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)

	wx, err := r.weather.Current(ctx, c.Lat, c.Lon)
	if err == nil {
		trace.Append(toolCurrentWeather, args, domain.TagOK)
		r.metrics.WeatherRequests.WithLabelValues("ok").Inc()
		return wx, nil
	}
	trace.Append(toolCurrentWeather, args, domain.TagError)
	r.metrics.WeatherRequests.WithLabelValues("error").Inc()
	if isPermanent(err) {
		logger.Warn("current weather failed permanently, not retrying", "error", err)
		return domain.WeatherSnapshot{}, fmt.Errorf("current weather for %s: %w", args, domain.ErrDataUnavailable)
	}
	logger.Warn("current weather failed, retrying once", "error", err)

	wx, err = r.weather.Current(ctx, c.Lat, c.Lon)
	if err != nil {
		trace.Append(toolCurrentWeather, args, domain.TagError)
		r.metrics.WeatherRequests.WithLabelValues("error").Inc()
		logger.Warn("current weather failed after retry", "error", err)
		return domain.WeatherSnapshot{}, fmt.Errorf("current weather for %s: %w", args, domain.ErrDataUnavailable)
	}
	trace.Append(toolCurrentWeather, args, domain.TagRetry)
	r.metrics.WeatherRequests.WithLabelValues("retry").Inc()
	return wx, nil
}

// narrate optionally rephrases the deterministic answer. Narration failure
// keeps the deterministic text.
func (r *Runner) narrate(ctx context.Context, res *TurnResult, trace *domain.Trace, logger *slog.Logger) {
	if r.narrator == nil {
		return
	}
	text, err := r.narrator.Narrate(ctx, res.Question, res.Answer)
	switch {
	case err != nil:
		trace.Append(toolLLMNarration, "", domain.TagError)
		r.metrics.LLMRequests.WithLabelValues("narration", "error").Inc()
		logger.Warn("narration failed, keeping deterministic answer", "error", err)
	case strings.TrimSpace(text) == "":
		trace.Append(toolLLMNarration, "", domain.TagEmpty)
		r.metrics.LLMRequests.WithLabelValues("narration", "empty").Inc()
	default:
		trace.Append(toolLLMNarration, "", domain.TagOK)
		r.metrics.LLMRequests.WithLabelValues("narration", "ok").Inc()
		res.Answer = strings.TrimSpace(text)
	}
}

func (r *Runner) finish(ctx context.Context, res *TurnResult, trace *domain.Trace, start time.Time, logger *slog.Logger) {
	res.Trace = trace.Entries()
	r.metrics.Turns.WithLabelValues(res.Outcome).Inc()
	r.metrics.TurnDuration.Observe(time.Since(start).Seconds())
	logger.Info("turn complete",
		"outcome", res.Outcome,
		"mission", res.Launch.Mission,
		"source", res.Launch.Source,
		"calls", len(res.Trace),
		"duration", time.Since(start),
	)

	if r.audit == nil {
		return
	}
	audit := TurnAudit{
		TurnID:      res.TurnID,
		Question:    res.Question,
		Provider:    res.Launch.Provider,
		Mission:     res.Launch.Mission,
		Source:      res.Launch.Source,
		Outcome:     res.Outcome,
		Answer:      res.Answer,
		Trace:       res.Trace,
		CompletedAt: time.Now().UTC(),
	}
	if res.Assessment != nil {
		audit.Risk = res.Assessment.Risk
	}
	if err := r.audit.Publish(ctx, audit); err != nil {
		r.metrics.AuditPublishErrors.Inc()
		logger.Warn("audit publish failed", "error", err)
		return
	}
	r.metrics.AuditPublished.Inc()
}

// tracedGeocoder records geocoding calls in the turn trace.
type tracedGeocoder struct {
	inner   domain.Geocoder
	trace   *domain.Trace
	metrics *observability.Metrics
}

func (g *tracedGeocoder) Geocode(ctx context.Context, location string) (domain.GeocodingResult, error) {
	result, err := g.inner.Geocode(ctx, location)
	tag := domain.TagOK
	switch {
	case err != nil:
		tag = domain.TagError
	case !result.Found:
		tag = domain.TagEmpty
	}
	g.trace.Append(toolGeocode, location, tag)
	g.metrics.GeocodeRequests.WithLabelValues(tag).Inc()
	return result, err
}

// composeAnswer renders the deterministic answer of record. Every piece of
// missing data is stated, never papered over.
func composeAnswer(res TurnResult) string {
	rec := res.Launch
	var b strings.Builder

	if rec.Source == domain.SourceHistoricalFallback {
		fmt.Fprintf(&b, "No upcoming %s launch was found in the next-launch feed, so this is the most recent successful launch instead.\n\n", rec.Provider)
	}

	if rec.When.Known() {
		fmt.Fprintf(&b, "%s launch: %s on %s.", rec.Provider, rec.Mission, rec.When.Display())
	} else {
		fmt.Fprintf(&b, "%s launch: %s; its launch date could not be determined from the available data.", rec.Provider, rec.Mission)
	}

	site := rec.Site.DisplayName()
	switch {
	case res.Coordinates == nil:
		fmt.Fprintf(&b, "\n\nThe launch site coordinates could not be determined, so current weather was not checked.")
	case res.WeatherStatus == weatherUnconfigured:
		fmt.Fprintf(&b, "\n\nNo weather service is configured, so current conditions near %s were not checked.", site)
	case res.Weather == nil:
		fmt.Fprintf(&b, "\n\nCurrent weather near %s is unavailable right now, so no delay assessment was made.", site)
	default:
		wx := res.Weather
		fmt.Fprintf(&b, "\n\nCurrent weather near %s: %s, %.1f C (feels like %.1f C), wind %.1f m/s, cloud cover %.0f%%.",
			site, wx.Description, wx.TemperatureC, wx.FeelsLikeC, wx.WindSpeedMS, wx.CloudCoverPct)
	}

	if res.Assessment != nil {
		fmt.Fprintf(&b, "\n\nWeather delay risk: %s (%s).", res.Assessment.Risk, res.Assessment.Rationale)
		if res.Assessment.CurrentOnly {
			b.WriteString(" Note: this reflects current conditions at the site, not a forecast for the launch window.")
		}
	}

	return b.String()
}
