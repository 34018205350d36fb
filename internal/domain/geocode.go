package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// ResolveCoordinates runs the ordered resolution chain for a launch record:
//
//	tier 1: explicit coordinates already on the record (no network call)
//	tier 2: name-based geocoding of the launch-site display name
//	tier 3: ErrResolutionDeferred, handing off to the planner's grounding
//
// Each tier is attempted only when the previous one yielded nothing. The
// resolver never silently substitutes a wrong or default coordinate: the
// outcome is either a validated pair tagged with its method, or the deferred
// signal. Geocoder errors degrade to deferral rather than failing the turn.
func ResolveCoordinates(ctx context.Context, rec LaunchRecord, geocoder Geocoder, logger *slog.Logger) (Coordinates, error) {
	if rec.Latitude != nil && rec.Longitude != nil {
		coords, err := NewCoordinates(*rec.Latitude, *rec.Longitude, MethodExplicit)
		if err == nil {
			return coords, nil
		}
		// Out-of-range source data; fall through to name lookup.
		logger.Warn("explicit coordinates invalid, trying name lookup",
			"mission", rec.Mission,
			"lat", *rec.Latitude,
			"lon", *rec.Longitude,
		)
	}

	location := rec.Site.DisplayName()
	if geocoder != nil && location != "" {
		result, err := geocoder.Geocode(ctx, location)
		if err != nil {
			logger.Warn("geocoding failed, deferring resolution",
				"mission", rec.Mission,
				"location", location,
				"error", err,
			)
			return Coordinates{}, fmt.Errorf("geocode %q: %w", location, ErrResolutionDeferred)
		}
		if result.Found {
			coords, err := NewCoordinates(result.Lat, result.Lon, MethodNameLookup)
			if err == nil {
				return coords, nil
			}
			logger.Warn("geocoder returned out-of-range coordinates",
				"location", location, "error", err)
		}
	}

	return Coordinates{}, fmt.Errorf("no explicit coordinates and no geocoder match for %q: %w",
		location, ErrResolutionDeferred)
}
