package domain

import "errors"

// Failure taxonomy for a query turn. ParseFailure is recovered locally inside
// a stage's own fallback chain; the others cross stage boundaries and must
// stay visible to the orchestrator so it can compose an honest answer.
var (
	// ErrParseFailure marks a single candidate value that did not match any
	// recognized format. The cascade moves on to the next candidate.
	ErrParseFailure = errors.New("value did not match any recognized format")

	// ErrUnknownDate means no date candidate parsed. Surfaced, never defaulted.
	ErrUnknownDate = errors.New("launch date unknown")

	// ErrDataUnavailable means an upstream source failed or returned nothing
	// after its fallbacks were exhausted.
	ErrDataUnavailable = errors.New("upstream data unavailable")

	// ErrResolutionDeferred is not a failure: explicit tools could not
	// determine coordinates and resolution is handed off to the planner's
	// own grounding capability.
	ErrResolutionDeferred = errors.New("coordinate resolution deferred")
)
