package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hi-updesh/my-space-agent/internal/domain"
	"github.com/hi-updesh/my-space-agent/internal/observability"
)

// Tool names as they appear in the invocation trace.
const (
	toolLaunchFeed     = "launch_feed"
	toolLaunchArchive  = "launch_archive"
	toolGeocode        = "geocode"
	toolCurrentWeather = "current_weather"
	toolLLMGrounding   = "llm_grounding"
	toolLLMNarration   = "llm_narration"
)

// LaunchFeed lists the bounded window of near-term launches across all
// providers, as served by the upcoming-launch feed.
type LaunchFeed interface {
	NextLaunches(ctx context.Context, limit int) ([]domain.LaunchRecord, error)
}

// LaunchArchive serves the most recent successful launch from the historical
// archive for the provider it covers.
type LaunchArchive interface {
	LatestSuccessful(ctx context.Context) (domain.LaunchRecord, error)
}

// Lookup finds the launch a query is about: the nearest upcoming launch for
// the target provider when the feed has one, otherwise the most recent
// successful past launch from the archive.
type Lookup struct {
	feed     LaunchFeed
	archive  LaunchArchive
	provider string
	window   int
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewLookup creates a Lookup targeting one provider, matched case-insensitively.
func NewLookup(feed LaunchFeed, archive LaunchArchive, provider string, window int, logger *slog.Logger, metrics *observability.Metrics) *Lookup {
	return &Lookup{
		feed:     feed,
		archive:  archive,
		provider: provider,
		window:   window,
		logger:   logger,
		metrics:  metrics,
	}
}

// Find runs the lookup chain. The returned record always carries a source tag
// and has its canonical date attached; an unknown date stays visibly unknown.
// A feed outage degrades to the archive; only when the archive also fails
// does Find return ErrDataUnavailable.
func (l *Lookup) Find(ctx context.Context, trace *domain.Trace) (domain.LaunchRecord, error) {
	args := fmt.Sprintf("next/%d", l.window)

	launches, err := l.feed.NextLaunches(ctx, l.window)
	if err != nil {
		trace.Append(toolLaunchFeed, args, domain.TagError)
		l.logger.Warn("upcoming feed failed, falling back to archive", "error", err)
		return l.fallback(ctx, trace)
	}

	// The feed is assumed chronologically ordered; the first provider match
	// is the nearest launch.
	for _, rec := range launches {
		if !strings.EqualFold(rec.Provider, l.provider) {
			continue
		}
		trace.Append(toolLaunchFeed, args, domain.TagOK)
		rec.Source = domain.SourceUpcoming
		l.attachDate(&rec)
		l.metrics.LaunchLookups.WithLabelValues(domain.SourceUpcoming).Inc()
		l.logger.Info("upcoming launch found",
			"mission", rec.Mission,
			"provider", rec.Provider,
			"when", rec.When.Display(),
		)
		return rec, nil
	}

	trace.Append(toolLaunchFeed, args, domain.TagEmpty)
	l.logger.Info("no provider match in upcoming feed, falling back to archive",
		"provider", l.provider,
		"window", l.window,
	)
	return l.fallback(ctx, trace)
}

func (l *Lookup) fallback(ctx context.Context, trace *domain.Trace) (domain.LaunchRecord, error) {
	rec, err := l.archive.LatestSuccessful(ctx)
	if err != nil {
		trace.Append(toolLaunchArchive, "latest-successful", domain.TagError)
		l.metrics.LaunchLookups.WithLabelValues("unavailable").Inc()
		return domain.LaunchRecord{}, fmt.Errorf("launch lookup: feed and archive both failed: %w", domain.ErrDataUnavailable)
	}

	trace.Append(toolLaunchArchive, "latest-successful", domain.TagFallback)
	rec.Source = domain.SourceHistoricalFallback
	l.attachDate(&rec)
	l.metrics.LaunchLookups.WithLabelValues(domain.SourceHistoricalFallback).Inc()
	l.logger.Info("using most recent successful past launch",
		"mission", rec.Mission,
		"when", rec.When.Display(),
	)
	return rec, nil
}

// attachDate derives the record's canonical date-time from its candidate
// fields. Failure leaves When unknown; that state travels with the record.
func (l *Lookup) attachDate(rec *domain.LaunchRecord) {
	when, field, err := domain.NormalizeLaunchDate(rec.Dates)
	if err != nil {
		l.metrics.DateExtractions.WithLabelValues("unknown").Inc()
		l.logger.Warn("no date candidate parsed, launch date unknown", "mission", rec.Mission)
		return
	}
	rec.When = when
	l.metrics.DateExtractions.WithLabelValues(field).Inc()
}
