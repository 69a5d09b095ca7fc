// Package processing holds the change processors that run between a
// suggestion and its caller.
package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"assistant/internal/cache"
	"assistant/internal/domain"
	"assistant/internal/domain/models/itinerary"
	"assistant/internal/domain/services"
	"assistant/internal/metrics"
)

// errNoMatch marks a lookup that returned no place. It is never cached.
var errNoMatch = errors.New("no place matched")

// PlaceEnricher resolves the search query of every place an itinerary change
// introduces and fills in the canonical reference, name, URI and coordinates.
type PlaceEnricher struct {
	lookup  services.PlaceLookup
	cache   *cache.TTLCache[*services.PlaceRecord]
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewPlaceEnricher creates an enricher whose lookups are cached for ttl,
// keyed by the exact search query.
func NewPlaceEnricher(lookup services.PlaceLookup, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *PlaceEnricher {
	return NewPlaceEnricherWithCache(lookup, cache.New[*services.PlaceRecord](ttl), m, logger)
}

// NewPlaceEnricherWithCache creates an enricher over an existing cache.
func NewPlaceEnricherWithCache(lookup services.PlaceLookup, c *cache.TTLCache[*services.PlaceRecord], m *metrics.Metrics, logger *slog.Logger) *PlaceEnricher {
	return &PlaceEnricher{
		lookup:  lookup,
		cache:   c,
		metrics: m,
		logger:  logger,
	}
}

// Process mutates the places of changes in place. The first query without a
// match fails the batch.
func (e *PlaceEnricher) Process(ctx context.Context, _ *itinerary.Itinerary, changes []itinerary.Change) ([]itinerary.Change, error) {
	for _, change := range changes {
		for _, place := range itinerary.PlacesOf(change) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if place.Resolved() {
				continue
			}
			if err := e.resolve(ctx, place); err != nil {
				return nil, err
			}
		}
	}
	return changes, nil
}

func (e *PlaceEnricher) resolve(ctx context.Context, place *itinerary.Place) error {
	query := place.SearchQuery
	record, hit, err := e.cache.GetOrCreate(ctx, query, func(ctx context.Context) (*services.PlaceRecord, error) {
		rec, err := e.lookup.SearchPlace(ctx, query)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, errNoMatch
		}
		return rec, nil
	})

	switch {
	case errors.Is(err, errNoMatch):
		e.metrics.RecordPlaceLookup("miss")
		return domain.NewDependency(fmt.Sprintf("Location query %q yielded no results.", query))
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.metrics.RecordPlaceLookup("error")
		e.logger.Warn("place lookup failed", "query", query, "error", err)
		return domain.NewDependency(fmt.Sprintf("Location query %q could not be resolved: %v", query, err))
	}

	if hit {
		e.metrics.RecordPlaceLookup("hit")
	} else {
		e.metrics.RecordPlaceLookup("lookup")
	}
	e.logger.Debug("place resolved", "query", query, "reference", record.Reference, "cached", hit)

	place.Reference = record.Reference
	place.Name = record.Name
	place.URI = record.URI
	place.Latitude = record.Latitude
	place.Longitude = record.Longitude
	return nil
}

var _ services.ChangeProcessor[itinerary.Meta, *itinerary.Activity] = (*PlaceEnricher)(nil)
