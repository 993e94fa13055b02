package urban

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrNotFound reports a named lookup that matched nothing.
var ErrNotFound = eris.New("urban: not found")

// Store is the read-side data access contract over the four collections.
// Implementations: PostgresStore (PostGIS-backed) and SQLiteStore (local dev,
// spatial work done in-process).
type Store interface {
	// Transport points.
	ListTransport(ctx context.Context) ([]TransportStop, error)

	// Neighborhood demographics, optionally filtered.
	ListDemographics(ctx context.Context, filter DemographicFilter) ([]Neighborhood, error)

	// Restaurants (points of interest).
	ListRestaurants(ctx context.Context) ([]Restaurant, error)

	// RestaurantsNear returns restaurants within radiusMeters of the center,
	// ordered by ascending spherical distance. Zero matches is an empty
	// slice, not an error.
	RestaurantsNear(ctx context.Context, lat, lon, radiusMeters float64) ([]Restaurant, error)

	// Vacant commercial listings, raw (validity filtering is the service's
	// job).
	ListVacants(ctx context.Context) ([]VacantLocal, error)

	// CountVacantsByNeighborhood groups listings by neighborhood label.
	CountVacantsByNeighborhood(ctx context.Context) ([]NeighborhoodCount, error)

	// Lifecycle.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
