package urban

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restaurantRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "type", "cuisine_category", "rating", "review_count",
		"price", "price_category", "accessibility", "neighborhood", "address",
		"latitude", "longitude",
	})
}

func TestPostgresListTransport(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock)
	mock.ExpectQuery("SELECT .+ FROM urban.transport").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "type", "latitude", "longitude"}).
			AddRow(int64(1), "Diagonal", "metro", 41.3937, 2.1622).
			AddRow(int64(2), "Pl. Catalunya", "bus", 41.3870, 2.1701))

	stops, err := store.ListTransport(context.Background())
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.Equal(t, "Diagonal", stops[0].Name)
	assert.Equal(t, "bus", stops[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListTransport_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock)
	mock.ExpectQuery("SELECT .+ FROM urban.transport").
		WillReturnError(fmt.Errorf("connection refused"))

	_, err = store.ListTransport(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query transport")
}

func TestPostgresListDemographics_Filtered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock)
	income := 12000
	filter := DemographicFilter{MinIncome: &income}

	mock.ExpectQuery("SELECT .+ FROM urban.demographics WHERE income").
		WithArgs(12000).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "income", "population_density", "age_distribution",
			"household_sizes", "boundary",
		}).AddRow(
			int64(1), "Gràcia", "15.341,21", 15000.0, 38.2,
			map[string]float64{"2": 0.4}, json.RawMessage(`{"coordinates": []}`),
		))

	hoods, err := store.ListDemographics(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, hoods, 1)
	assert.Equal(t, "Gràcia", hoods[0].Name)
	assert.Equal(t, "15.341,21", hoods[0].Income)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRestaurantsNear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock)
	mock.ExpectQuery("SELECT .+ FROM urban.restaurants.+ST_DWithin").
		WithArgs(2.1734, 41.3851, 500.0).
		WillReturnRows(restaurantRows().AddRow(
			int64(1), "Casa Paloma", "restaurant", "catalan", 4.5, 210,
			"€€", "mid", 7.0, "Gràcia", "Carrer Gran 12", 41.3851, 2.1734,
		))

	restaurants, err := store.RestaurantsNear(context.Background(), 41.3851, 2.1734, 500)
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "Casa Paloma", restaurants[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRestaurantsNear_BadCoordinate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock)
	_, err = store.RestaurantsNear(context.Background(), 95, 2.1734, 500)
	require.Error(t, err)
	// No query should have run.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCountVacantsByNeighborhood(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock)
	mock.ExpectQuery("SELECT neighborhood, COUNT.+ FROM urban.vacant_locals").
		WillReturnRows(pgxmock.NewRows([]string{"neighborhood", "count"}).
			AddRow("Gràcia", 12).
			AddRow("Sants", 4))

	counts, err := store.CountVacantsByNeighborhood(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, NeighborhoodCount{Neighborhood: "Gràcia", Count: 12}, counts[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock)
	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS urban").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
