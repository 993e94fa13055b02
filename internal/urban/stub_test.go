package urban

import (
	"context"
	"sort"

	"github.com/urban-insight/insight-api/internal/spatial"
)

// stubStore is an in-memory Store for service tests.
type stubStore struct {
	transport   []TransportStop
	hoods       []Neighborhood
	restaurants []Restaurant
	vacants     []VacantLocal
	err         error
}

func (s *stubStore) ListTransport(ctx context.Context) ([]TransportStop, error) {
	return s.transport, s.err
}

func (s *stubStore) ListDemographics(ctx context.Context, filter DemographicFilter) ([]Neighborhood, error) {
	return s.hoods, s.err
}

func (s *stubStore) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	return s.restaurants, s.err
}

func (s *stubStore) RestaurantsNear(ctx context.Context, lat, lon, radiusMeters float64) ([]Restaurant, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := spatial.ValidateCoordinate(lat, lon); err != nil {
		return nil, err
	}
	points := make([]spatial.Point, len(s.restaurants))
	for i, r := range s.restaurants {
		points[i] = spatial.Point{Lat: r.Lat, Lon: r.Lon}
	}
	matches, err := spatial.WithinRadius(points, spatial.Point{Lat: lat, Lon: lon}, radiusMeters)
	if err != nil {
		return nil, err
	}
	near := make([]Restaurant, 0, len(matches))
	for _, m := range matches {
		near = append(near, s.restaurants[m.Index])
	}
	return near, nil
}

func (s *stubStore) ListVacants(ctx context.Context) ([]VacantLocal, error) {
	return s.vacants, s.err
}

func (s *stubStore) CountVacantsByNeighborhood(ctx context.Context) ([]NeighborhoodCount, error) {
	if s.err != nil {
		return nil, s.err
	}
	counts := make(map[string]int)
	for _, v := range s.vacants {
		if v.Neighborhood != "" {
			counts[v.Neighborhood]++
		}
	}
	var out []NeighborhoodCount
	for name, count := range counts {
		out = append(out, NeighborhoodCount{Neighborhood: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Neighborhood < out[j].Neighborhood })
	return out, nil
}

func (s *stubStore) Migrate(ctx context.Context) error { return s.err }
func (s *stubStore) Ping(ctx context.Context) error    { return s.err }
func (s *stubStore) Close() error                      { return nil }
