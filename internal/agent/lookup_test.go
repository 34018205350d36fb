package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hi-updesh/my-space-agent/internal/domain"
	"github.com/hi-updesh/my-space-agent/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubFeed struct {
	launches []domain.LaunchRecord
	err      error
	calls    int
}

func (f *stubFeed) NextLaunches(_ context.Context, _ int) ([]domain.LaunchRecord, error) {
	f.calls++
	return f.launches, f.err
}

type stubArchive struct {
	rec   domain.LaunchRecord
	err   error
	calls int
}

func (a *stubArchive) LatestSuccessful(_ context.Context) (domain.LaunchRecord, error) {
	a.calls++
	return a.rec, a.err
}

func upcomingRecord(mission, provider string) domain.LaunchRecord {
	return domain.LaunchRecord{
		Mission:  mission,
		Provider: provider,
		Dates:    domain.DateCandidates{WinOpen: "2025-06-20T10:00:00Z"},
		Site:     domain.LaunchSite{Locality: "Cape Canaveral", Region: "Florida", Country: "United States"},
	}
}

func newLookup(feed LaunchFeed, archive LaunchArchive) *Lookup {
	return NewLookup(feed, archive, "spacex", 5, discardLogger(), observability.NewMetricsForTesting())
}

func TestLookup_UpcomingMatch(t *testing.T) {
	feed := &stubFeed{launches: []domain.LaunchRecord{
		upcomingRecord("Electron Mission", "Rocket Lab"),
		upcomingRecord("Starlink 6-77", "SpaceX"),
		upcomingRecord("Ax-4", "SpaceX"),
	}}
	archive := &stubArchive{}
	trace := &domain.Trace{}

	rec, err := newLookup(feed, archive).Find(context.Background(), trace)
	require.NoError(t, err)

	assert.Equal(t, "Starlink 6-77", rec.Mission, "first provider match wins")
	assert.Equal(t, domain.SourceUpcoming, rec.Source)
	assert.Equal(t, "20 June 2025 at 10:00 UTC", rec.When.Display())
	assert.Zero(t, archive.calls, "archive must not be consulted on a feed hit")

	entries := trace.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "launch_feed", entries[0].Tool)
	assert.Equal(t, domain.TagOK, entries[0].ResultTag)
}

func TestLookup_FallbackOnNoMatch(t *testing.T) {
	feed := &stubFeed{launches: []domain.LaunchRecord{
		upcomingRecord("Electron Mission", "Rocket Lab"),
	}}
	archive := &stubArchive{rec: upcomingRecord("CRS-32", "SpaceX")}
	trace := &domain.Trace{}

	rec, err := newLookup(feed, archive).Find(context.Background(), trace)
	require.NoError(t, err)

	assert.Equal(t, "CRS-32", rec.Mission)
	assert.Equal(t, domain.SourceHistoricalFallback, rec.Source)
	assert.Equal(t, 1, archive.calls, "archive consulted exactly once")

	entries := trace.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, domain.TagEmpty, entries[0].ResultTag)
	assert.Equal(t, "launch_archive", entries[1].Tool)
	assert.Equal(t, domain.TagFallback, entries[1].ResultTag)
}

func TestLookup_FallbackOnFeedError(t *testing.T) {
	feed := &stubFeed{err: errors.New("feed down")}
	archive := &stubArchive{rec: upcomingRecord("CRS-32", "SpaceX")}
	trace := &domain.Trace{}

	rec, err := newLookup(feed, archive).Find(context.Background(), trace)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceHistoricalFallback, rec.Source)

	entries := trace.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, domain.TagError, entries[0].ResultTag)
	assert.Equal(t, domain.TagFallback, entries[1].ResultTag)
}

func TestLookup_BothSourcesFail(t *testing.T) {
	feed := &stubFeed{err: errors.New("feed down")}
	archive := &stubArchive{err: errors.New("archive down")}
	trace := &domain.Trace{}

	_, err := newLookup(feed, archive).Find(context.Background(), trace)
	require.ErrorIs(t, err, domain.ErrDataUnavailable)

	entries := trace.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, domain.TagError, entries[0].ResultTag)
	assert.Equal(t, domain.TagError, entries[1].ResultTag)
}

func TestLookup_UnknownDateStaysUnknown(t *testing.T) {
	rec := upcomingRecord("TBD Mission", "SpaceX")
	rec.Dates = domain.DateCandidates{}
	feed := &stubFeed{launches: []domain.LaunchRecord{rec}}

	got, err := newLookup(feed, &stubArchive{}).Find(context.Background(), &domain.Trace{})
	require.NoError(t, err)
	assert.False(t, got.When.Known())
	assert.Empty(t, got.When.Display())
}
