package services

import "context"

// PlaceRecord is the canonical form of a resolved place.
type PlaceRecord struct {
	Reference string
	Name      string
	URI       string
	Latitude  float64
	Longitude float64
}

// PlaceLookup resolves a free-text query to at most one place. A nil record
// with a nil error means no match.
type PlaceLookup interface {
	SearchPlace(ctx context.Context, query string) (*PlaceRecord, error)
}

// LinkChecker reports the HTTP status a URL answers with.
type LinkChecker interface {
	Check(ctx context.Context, url string) (int, error)
}
