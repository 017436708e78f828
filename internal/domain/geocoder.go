package domain

import "context"

// Place holds reverse-geocoded location details for the tracked coordinate.
type Place struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"` // ISO 3166-1 alpha-2
}

// PlaceResolver maps a coordinate to a place. The engine uses the country
// code to select a satellite imagery source; city and state only label
// snapshots for display.
type PlaceResolver interface {
	ResolvePlace(ctx context.Context, lat, lon float64) (Place, error)
}
