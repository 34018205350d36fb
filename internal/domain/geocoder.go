package domain

import "context"

// GeocodingResult contains location data returned by a coordinate-lookup tool.
// The zero value means "not found"; callers check Found rather than comparing
// coordinates against zero, which is a valid ocean coordinate.
type GeocodingResult struct {
	Lat   float64
	Lon   float64
	Name  string // resolved place name, when the provider reports one
	Found bool
}

// Geocoder converts a free-text location name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (GeocodingResult, error)
}
