package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-insight/insight-api/internal/config"
	"github.com/urban-insight/insight-api/internal/spatial"
	"github.com/urban-insight/insight-api/internal/urban"
)

type fakeStore struct {
	transport   []urban.TransportStop
	hoods       []urban.Neighborhood
	restaurants []urban.Restaurant
	vacants     []urban.VacantLocal
	pingErr     error
}

func (s *fakeStore) ListTransport(ctx context.Context) ([]urban.TransportStop, error) {
	return s.transport, nil
}

func (s *fakeStore) ListDemographics(ctx context.Context, filter urban.DemographicFilter) ([]urban.Neighborhood, error) {
	return s.hoods, nil
}

func (s *fakeStore) ListRestaurants(ctx context.Context) ([]urban.Restaurant, error) {
	return s.restaurants, nil
}

func (s *fakeStore) RestaurantsNear(ctx context.Context, lat, lon, radiusMeters float64) ([]urban.Restaurant, error) {
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
	near := make([]urban.Restaurant, 0, len(matches))
	for _, m := range matches {
		near = append(near, s.restaurants[m.Index])
	}
	return near, nil
}

func (s *fakeStore) ListVacants(ctx context.Context) ([]urban.VacantLocal, error) {
	return s.vacants, nil
}

func (s *fakeStore) CountVacantsByNeighborhood(ctx context.Context) ([]urban.NeighborhoodCount, error) {
	return nil, nil
}

func (s *fakeStore) Migrate(ctx context.Context) error { return nil }
func (s *fakeStore) Ping(ctx context.Context) error    { return s.pingErr }
func (s *fakeStore) Close() error                      { return nil }

func testRouter(store urban.Store) http.Handler {
	srv := NewServer(store, config.SearchConfig{NearbyRadiusMeters: 500})
	return srv.Router(config.ServerConfig{
		CORSOrigins: []string{"http://localhost:3000"},
	})
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doGet(t, testRouter(&fakeStore{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNearbyRestaurantsScenario(t *testing.T) {
	store := &fakeStore{restaurants: []urban.Restaurant{
		{Name: "Here", Lat: 41.3851, Lon: 2.1734},
		// About 600m north, outside the 500m radius.
		{Name: "Far", Lat: 41.3851 + 0.0053959296, Lon: 2.1734},
	}}

	rec := doGet(t, testRouter(store), "/nearby_restaurants?lat=41.3851&lon=2.1734")
	require.Equal(t, http.StatusOK, rec.Code)

	var nearby []urban.NearbyRestaurant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nearby))
	require.Len(t, nearby, 1)
	assert.Equal(t, "Here", nearby[0].Name)
}

func TestNearbyRestaurantsBadParams(t *testing.T) {
	router := testRouter(&fakeStore{})

	for _, path := range []string{
		"/nearby_restaurants",
		"/nearby_restaurants?lat=abc&lon=2.17",
		"/nearby_restaurants?lat=41.38",
	} {
		rec := doGet(t, router, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "error")
	}
}

func TestNearbyRestaurantsOutOfRangeCoordinate(t *testing.T) {
	rec := doGet(t, testRouter(&fakeStore{}), "/nearby_restaurants?lat=95&lon=2.17")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompetitorsEmptyAreaIs404(t *testing.T) {
	rec := doGet(t, testRouter(&fakeStore{}), "/api/neighbours_competitors?lat=41.3851&lon=2.1734")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestDemographicsFilterValidation(t *testing.T) {
	router := testRouter(&fakeStore{})

	rec := doGet(t, router, "/api/demographics?age_range=oops")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGet(t, router, "/api/demographics?income=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGet(t, router, "/api/demographics?age_range=25-40&income=12000&household_size=3")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDemographicsByName(t *testing.T) {
	store := &fakeStore{hoods: []urban.Neighborhood{{Name: "Gràcia", Income: "15.341,21"}}}
	router := testRouter(store)

	rec := doGet(t, router, "/api/demographics_by_name?barrio=gracia")
	require.Equal(t, http.StatusOK, rec.Code)

	var hood urban.Neighborhood
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hood))
	assert.Equal(t, "Gràcia", hood.Name)

	rec = doGet(t, router, "/api/demographics_by_name?barrio=nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doGet(t, router, "/api/demographics_by_name")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimilarNeighborhoodsByRenta(t *testing.T) {
	store := &fakeStore{hoods: []urban.Neighborhood{
		{Name: "Gràcia", Income: "15.000"},
		{Name: "Sant Martí", Income: "15.200"},
	}}
	router := testRouter(store)

	// The path parameter is a numeric rent value, not a neighborhood name.
	rec := doGet(t, router, "/api/similar_neighborhoods_by_renta/15000")
	require.Equal(t, http.StatusOK, rec.Code)

	var similar []urban.Neighborhood
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &similar))
	require.Len(t, similar, 2)
	assert.Equal(t, "Gràcia", similar[0].Name)

	rec = doGet(t, router, "/api/similar_neighborhoods_by_renta/100")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doGet(t, router, "/api/similar_neighborhoods_by_renta/oops")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmptyLocalsAveragePrice(t *testing.T) {
	store := &fakeStore{vacants: []urban.VacantLocal{
		{Title: "A", Address: "x", PriceRaw: "1.200,50€", Neighborhood: "Gràcia", Coordinates: []float64{1, 2}},
	}}
	router := testRouter(store)

	rec := doGet(t, router, "/api/empty_locals_average_price?neighborhood=gracia")
	require.Equal(t, http.StatusOK, rec.Code)

	var price urban.NeighborhoodPrice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &price))
	assert.InDelta(t, 1200.50, price.AveragePrice, 1e-9)

	rec = doGet(t, router, "/api/empty_locals_average_price")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGet(t, router, "/api/empty_locals_average_price?neighborhood=nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViability(t *testing.T) {
	store := &fakeStore{
		hoods: []urban.Neighborhood{
			{Name: "Gràcia", Income: "15.000", Density: 20000},
			{Name: "Sants", Income: "12.000", Density: 15000},
		},
		restaurants: []urban.Restaurant{
			{Name: "A", Neighborhood: "Gràcia"},
			{Name: "B", Neighborhood: "Sants"},
		},
	}

	rec := doGet(t, testRouter(store), "/api/viability")
	require.Equal(t, http.StatusOK, rec.Code)

	var scores []struct {
		Neighborhood string  `json:"neighborhood"`
		Score        float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scores))
	require.Len(t, scores, 2)
	assert.Equal(t, "Gràcia", scores[0].Neighborhood)
	for _, s := range scores {
		assert.GreaterOrEqual(t, s.Score, 0.0)
	}
}

func TestRateLimit(t *testing.T) {
	srv := NewServer(&fakeStore{}, config.SearchConfig{NearbyRadiusMeters: 500})
	router := srv.Router(config.ServerConfig{RateLimit: 1, RateBurst: 1})

	first := doGet(t, router, "/health")
	assert.Equal(t, http.StatusOK, first.Code)

	second := doGet(t, router, "/health")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
