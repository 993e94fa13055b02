package urban

import (
	"context"
	"sort"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/urban-insight/insight-api/internal/histogram"
	"github.com/urban-insight/insight-api/internal/proj"
	"github.com/urban-insight/insight-api/internal/spatial"
)

// Bin edges for the competitor distributions: ratings run 0-5 in half-point
// steps, accessibility is a 0-10 ordinal.
var (
	ratingEdges        = []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}
	accessibilityEdges = []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
)

// RestaurantService serves restaurant lookups, proximity search, and
// competitor aggregation.
type RestaurantService struct {
	store        Store
	nearbyRadius float64
}

// NewRestaurantService creates a RestaurantService. radiusMeters scopes the
// proximity searches.
func NewRestaurantService(store Store, radiusMeters float64) *RestaurantService {
	return &RestaurantService{store: store, nearbyRadius: radiusMeters}
}

// List returns all restaurants.
func (s *RestaurantService) List(ctx context.Context) ([]Restaurant, error) {
	return s.store.ListRestaurants(ctx)
}

// Nearby returns the restaurants within the service radius of the center,
// closest first.
func (s *RestaurantService) Nearby(ctx context.Context, lat, lon float64) ([]NearbyRestaurant, error) {
	restaurants, err := s.store.RestaurantsNear(ctx, lat, lon, s.nearbyRadius)
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		nearby = append(nearby, NearbyRestaurant{
			Name:   r.Name,
			Lat:    r.Lat,
			Lon:    r.Lon,
			Type:   r.Type,
			Rating: r.Rating,
			Price:  r.Price,
		})
	}
	return nearby, nil
}

// Competitors aggregates the restaurants around a candidate location into
// distribution summaries. Returns ErrNotFound when nothing is nearby.
func (s *RestaurantService) Competitors(ctx context.Context, lat, lon float64) (*CompetitorSummary, error) {
	restaurants, err := s.store.RestaurantsNear(ctx, lat, lon, s.nearbyRadius)
	if err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return nil, ErrNotFound
	}

	cuisines := make([]string, 0, len(restaurants))
	priceCategories := make([]string, 0, len(restaurants))
	ratings := make([]float64, 0, len(restaurants))
	accessibility := make([]float64, 0, len(restaurants))
	for _, r := range restaurants {
		cuisines = append(cuisines, r.CuisineCategory)
		priceCategories = append(priceCategories, r.PriceCategory)
		ratings = append(ratings, r.Rating)
		accessibility = append(accessibility, r.Accessibility)
	}

	ratingDist, err := histogram.Numeric(ratings, ratingEdges)
	if err != nil {
		return nil, err
	}
	accessDist, err := histogram.Numeric(accessibility, accessibilityEdges)
	if err != nil {
		return nil, err
	}

	return &CompetitorSummary{
		RestaurantCount:   len(restaurants),
		CuisineCategories: histogram.Categorical(cuisines),
		PriceCategories:   histogram.Categorical(priceCategories),
		Ratings:           ratingDist,
		Accessibility:     accessDist,
	}, nil
}

// PriceCategories returns the distinct price categories, sorted.
func (s *RestaurantService) PriceCategories(ctx context.Context) ([]string, error) {
	restaurants, err := s.store.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(restaurants, func(r Restaurant) string { return r.PriceCategory }), nil
}

// CuisineCategories returns the distinct cuisine categories, sorted.
func (s *RestaurantService) CuisineCategories(ctx context.Context) ([]string, error) {
	restaurants, err := s.store.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(restaurants, func(r Restaurant) string { return r.CuisineCategory }), nil
}

func distinct(restaurants []Restaurant, key func(Restaurant) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, r := range restaurants {
		v := key(r)
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

// TopCuisinesByNeighborhood returns the most common cuisine categories among
// the neighborhood's restaurants, by label match, largest first.
func (s *RestaurantService) TopCuisinesByNeighborhood(ctx context.Context, name string, limit int) ([]CuisineCount, error) {
	restaurants, err := s.restaurantsInNeighborhood(ctx, name)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, r := range restaurants {
		if r.CuisineCategory != "" {
			counts[r.CuisineCategory]++
		}
	}

	top := make([]CuisineCount, 0, len(counts))
	for cuisine, count := range counts {
		top = append(top, CuisineCount{Cuisine: cuisine, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Cuisine < top[j].Cuisine
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

// PriceCategoriesByNeighborhood returns the price-category distribution of
// the neighborhood's restaurants.
func (s *RestaurantService) PriceCategoriesByNeighborhood(ctx context.Context, name string) (map[string]float64, error) {
	restaurants, err := s.restaurantsInNeighborhood(ctx, name)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		if r.PriceCategory != "" {
			categories = append(categories, r.PriceCategory)
		}
	}
	return histogram.Categorical(categories), nil
}

// CountByNeighborhoodLabel counts restaurants whose neighborhood label
// matches the given name.
func (s *RestaurantService) CountByNeighborhoodLabel(ctx context.Context, name string) (int, error) {
	restaurants, err := s.restaurantsInNeighborhood(ctx, name)
	if err != nil {
		return 0, err
	}
	return len(restaurants), nil
}

func (s *RestaurantService) restaurantsInNeighborhood(ctx context.Context, name string) ([]Restaurant, error) {
	all, err := s.store.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}

	target := NormalizeName(name)
	var matched []Restaurant
	for _, r := range all {
		if NormalizeName(r.Neighborhood) == target {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// CountsWithinNeighborhoods counts restaurants inside each neighborhood's
// geographic boundary via point-in-polygon containment. Neighborhoods whose
// boundary could not be converted are skipped.
func (s *RestaurantService) CountsWithinNeighborhoods(ctx context.Context, hoods []NeighborhoodGeo) ([]NeighborhoodCount, error) {
	restaurants, err := s.store.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}

	counts := make([]NeighborhoodCount, 0, len(hoods))
	for _, hood := range hoods {
		mp, err := multiPolygonOf(hood.Geometry)
		if err != nil {
			zap.L().Warn("urban: unusable neighborhood boundary",
				zap.String("neighborhood", hood.Name), zap.Error(err))
			continue
		}

		count := 0
		for _, r := range restaurants {
			if spatial.Contains(mp, r.Lon, r.Lat) {
				count++
			}
		}
		counts = append(counts, NeighborhoodCount{Neighborhood: hood.Name, Count: count})
	}
	return counts, nil
}

// multiPolygonOf rebuilds the go-geom multipolygon behind a GeoJSON geometry
// produced by DemographicService.Neighborhoods.
func multiPolygonOf(g GeoJSONGeometry) (*geom.MultiPolygon, error) {
	mp, ok := g.Coordinates.([][][]geom.Coord)
	if !ok {
		return nil, proj.ErrEmptyShape
	}
	return proj.BuildMultiPolygon(mp)
}
