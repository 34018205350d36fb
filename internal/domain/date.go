package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// proseDateRe finds a long-form date announced in launch prose, e.g.
	// "currently targeted for June 19, 2025 (UTC)" -> "June 19, 2025".
	proseDateRe = regexp.MustCompile(`(?:on|for)\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})(?:\s*\(UTC\))?`)

	// shortDateRe finds an abbreviated month-day pair, e.g.
	// "Falcon 9 - Ax-4 - Jun 19 (estimated)" -> "Jun 19". Anchoring on real
	// month names keeps vehicle names like "Falcon 9" from matching.
	shortDateRe = regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2})\b`)

	yearRe = regexp.MustCompile(`\d{4}`)
)

// isoLayouts are the timestamp shapes seen across the upcoming feed and the
// historical archive. Layouts without a zone are interpreted as UTC.
var isoLayouts = []struct {
	layout  string
	hasZone bool
	hasTime bool
}{
	{time.RFC3339, true, true},             // 2025-06-19T03:00:00Z
	{"2006-01-02T15:04Z07:00", true, true}, // 2025-06-19T03:00Z (minute precision)
	{"2006-01-02T15:04:05", false, true},
	{"2006-01-02T15:04", false, true},
	{"2006-01-02", false, false},
}

// dateCandidate pairs a named raw field with its parser attempt. The cascade
// below is evaluated in fixed priority order: structured, machine-readable
// fields first, free-text fields last, because structured fields are
// higher-fidelity. The first candidate that parses wins.
type dateCandidate struct {
	field string
	parse func(DateCandidates) (NormalizedDateTime, error)
}

var dateCascade = []dateCandidate{
	{"win_open", func(c DateCandidates) (NormalizedDateTime, error) { return parseTimestamp(c.WinOpen) }},
	{"t0", func(c DateCandidates) (NormalizedDateTime, error) { return parseTimestamp(c.T0) }},
	{"sort_date", func(c DateCandidates) (NormalizedDateTime, error) { return parseEpochSeconds(c.SortDate) }},
	{"est_date", func(c DateCandidates) (NormalizedDateTime, error) { return parseEstimatedDate(c.EstDate) }},
	{"launch_description", func(c DateCandidates) (NormalizedDateTime, error) { return parseProseDate(c.Description) }},
	{"quicktext", func(c DateCandidates) (NormalizedDateTime, error) { return parseShortDate(c.QuickText) }},
	{"date_str", func(c DateCandidates) (NormalizedDateTime, error) { return parseDateStr(c.DateStr) }},
}

// NormalizeLaunchDate extracts the single canonical date-time from a record's
// candidate fields. It returns the normalized instant and the name of the
// winning field; later candidates are never consulted once one parses.
// When no candidate parses the result is ErrUnknownDate, never a default.
func NormalizeLaunchDate(c DateCandidates) (NormalizedDateTime, string, error) {
	for _, cand := range dateCascade {
		n, err := cand.parse(c)
		if err != nil {
			continue
		}
		return n, cand.field, nil
	}
	return NormalizedDateTime{}, "", ErrUnknownDate
}

// parseTimestamp handles the direct feed fields, which are usually ISO 8601
// but occasionally a string-encoded Unix timestamp.
func parseTimestamp(s string) (NormalizedDateTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NormalizedDateTime{}, ErrParseFailure
	}
	for _, l := range isoLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		return NormalizedDateTime{Instant: t.UTC(), HasTime: l.hasTime}, nil
	}
	return parseEpochSeconds(s)
}

func parseEpochSeconds(s string) (NormalizedDateTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NormalizedDateTime{}, ErrParseFailure
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil || secs <= 0 {
		return NormalizedDateTime{}, fmt.Errorf("epoch %q: %w", s, ErrParseFailure)
	}
	return NormalizedDateTime{Instant: time.Unix(secs, 0).UTC(), HasTime: true}, nil
}

func parseEstimatedDate(e *EstimatedDate) (NormalizedDateTime, error) {
	if e == nil || e.Month < 1 || e.Month > 12 || e.Day < 1 || e.Day > 31 {
		return NormalizedDateTime{}, ErrParseFailure
	}
	year := e.Year
	if year == 0 {
		year = clock.Now().UTC().Year()
	}
	t := time.Date(year, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC)
	if t.Day() != e.Day {
		// time.Date normalized an impossible day (e.g. Feb 30).
		return NormalizedDateTime{}, ErrParseFailure
	}
	return NormalizedDateTime{Instant: t, HasTime: false}, nil
}

func parseProseDate(desc string) (NormalizedDateTime, error) {
	m := proseDateRe.FindStringSubmatch(desc)
	if m == nil {
		return NormalizedDateTime{}, ErrParseFailure
	}
	t, err := time.Parse("January 2, 2006", m[1])
	if err != nil {
		return NormalizedDateTime{}, fmt.Errorf("prose date %q: %w", m[1], ErrParseFailure)
	}
	return NormalizedDateTime{Instant: t.UTC(), HasTime: false}, nil
}

func parseShortDate(text string) (NormalizedDateTime, error) {
	m := shortDateRe.FindStringSubmatch(text)
	if m == nil {
		return NormalizedDateTime{}, ErrParseFailure
	}
	return parseMonthDay(m[1] + " " + m[2])
}

func parseDateStr(s string) (NormalizedDateTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NormalizedDateTime{}, ErrParseFailure
	}
	if yearRe.MatchString(s) {
		t, err := time.Parse("Jan 2, 2006", s)
		if err != nil {
			return NormalizedDateTime{}, fmt.Errorf("date_str %q: %w", s, ErrParseFailure)
		}
		return NormalizedDateTime{Instant: t.UTC(), HasTime: false}, nil
	}
	return parseMonthDay(s)
}

// parseMonthDay parses an abbreviated "Mon D" with no year. The current year
// is assumed; if that lands more than a week in the past within the current
// or an earlier month, the date is taken to mean next year. Launch feeds only
// ever describe near-term launches, so this ambiguity window is narrow.
func parseMonthDay(s string) (NormalizedDateTime, error) {
	now := clock.Now().UTC()
	t, err := time.Parse("Jan 2, 2006", fmt.Sprintf("%s, %d", s, now.Year()))
	if err != nil {
		return NormalizedDateTime{}, fmt.Errorf("month-day %q: %w", s, ErrParseFailure)
	}
	if t.Before(now.Add(-7*24*time.Hour)) && t.Month() <= now.Month() {
		t = time.Date(now.Year()+1, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return NormalizedDateTime{Instant: t, HasTime: false}, nil
}

// ParseDisplay parses the canonical display format back into an instant.
// Used by the evaluation harness and tests to verify round-trip stability.
func ParseDisplay(s string) (NormalizedDateTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NormalizedDateTime{}, ErrUnknownDate
	}
	if t, err := time.Parse("2 January 2006 at 15:04 UTC", s); err == nil {
		return NormalizedDateTime{Instant: t.UTC(), HasTime: true}, nil
	}
	t, err := time.Parse("2 January 2006", s)
	if err != nil {
		return NormalizedDateTime{}, fmt.Errorf("display %q: %w", s, ErrParseFailure)
	}
	return NormalizedDateTime{Instant: t.UTC(), HasTime: false}, nil
}
