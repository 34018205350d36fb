// Package domain models launch records, coordinates, and weather snapshots
// for the launch-delay agent, and holds the normalization and assessment
// logic that operates on them.
//
// # Date candidate fields
//
// The upcoming-launch feed (RocketLaunch.Live free tier) spreads a launch's
// date across several fields of wildly varying fidelity, and different
// records populate different subsets:
//
//	win_open, t0:         ISO 8601, sometimes minute precision ("2025-06-19T03:00Z"),
//	                      occasionally a string-encoded Unix timestamp
//	sort_date:            Unix epoch seconds as a string
//	est_date:             structured {year, month, day} estimate
//	launch_description:   prose, e.g. "...is currently targeted for June 19, 2025 (UTC)."
//	quicktext:            "Falcon 9 - Ax-4 - Jun 19 (estimated)"
//	date_str:             "Jun 19" or "Jun 19, 2025"
//
// Extraction runs the fields in that fixed order and stops at the first
// parse. Abbreviated forms with no year get the current year, bumped to the
// next year when that would place a "near-term" launch more than a week in
// the past. Values that only carry a calendar date are marked time-unknown so
// the display never invents a 00:00 lift-off time. When nothing parses the
// record is explicitly date-unknown.
//
// The historical archive (SpaceX v4 API) supplies a clean RFC 3339 date_utc,
// which is fed through the same cascade via the win_open slot.
//
// # Display format
//
// User-facing dates are always regenerated from the UTC instant as
// "19 June 2025 at 03:00 UTC" (date only when the time is unknown), never
// assembled from raw feed text.
//
// # Delay risk policy
//
// AssessDelay maps current conditions to low/moderate/high using fixed,
// configurable thresholds (defaults: precipitation or >=10 m/s wind is high;
// >=8 m/s wind, >=70% cloud, or temperature outside -5..35 C is moderate).
// The labels describe conditions observed now; the free weather tier has no
// forecasts, so assessments for future launches carry a current-only marker
// that the answer text must surface.
package domain
