package urban

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/urban-insight/insight-api/internal/db"
	"github.com/urban-insight/insight-api/internal/spatial"
)

// PostgresStore implements Store on Postgres/PostGIS. Proximity search rides
// the GiST index on geom; the <-> ordering keeps results distance-sorted.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE SCHEMA IF NOT EXISTS urban;

CREATE TABLE IF NOT EXISTS urban.transport (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT '',
	latitude   DOUBLE PRECISION NOT NULL,
	longitude  DOUBLE PRECISION NOT NULL,
	geom       geometry(Point, 4326)
);
CREATE INDEX IF NOT EXISTS idx_urban_transport_geom ON urban.transport USING GIST (geom);

CREATE TABLE IF NOT EXISTS urban.demographics (
	id                 BIGSERIAL PRIMARY KEY,
	name               TEXT NOT NULL,
	income             TEXT NOT NULL DEFAULT '',
	population_density DOUBLE PRECISION NOT NULL DEFAULT 0,
	age_distribution   DOUBLE PRECISION NOT NULL DEFAULT 0,
	household_sizes    JSONB NOT NULL DEFAULT '{}',
	boundary           JSONB
);

CREATE TABLE IF NOT EXISTS urban.restaurants (
	id               BIGSERIAL PRIMARY KEY,
	name             TEXT NOT NULL,
	type             TEXT NOT NULL DEFAULT '',
	cuisine_category TEXT NOT NULL DEFAULT '',
	rating           DOUBLE PRECISION NOT NULL DEFAULT 0,
	review_count     INTEGER NOT NULL DEFAULT 0,
	price            TEXT NOT NULL DEFAULT '',
	price_category   TEXT NOT NULL DEFAULT '',
	accessibility    DOUBLE PRECISION NOT NULL DEFAULT 0,
	neighborhood     TEXT NOT NULL DEFAULT '',
	address          TEXT NOT NULL DEFAULT '',
	latitude         DOUBLE PRECISION NOT NULL,
	longitude        DOUBLE PRECISION NOT NULL,
	geom             geometry(Point, 4326)
);
CREATE INDEX IF NOT EXISTS idx_urban_restaurants_geom ON urban.restaurants USING GIST (geom);
CREATE INDEX IF NOT EXISTS idx_urban_restaurants_neighborhood ON urban.restaurants (neighborhood);

CREATE TABLE IF NOT EXISTS urban.vacant_locals (
	id            BIGSERIAL PRIMARY KEY,
	title         TEXT NOT NULL DEFAULT '',
	address       TEXT NOT NULL DEFAULT '',
	price_raw     TEXT NOT NULL DEFAULT '',
	area_m2       DOUBLE PRECISION NOT NULL DEFAULT 0,
	price_per_m2  DOUBLE PRECISION NOT NULL DEFAULT 0,
	neighborhood  TEXT NOT NULL DEFAULT '',
	accessibility DOUBLE PRECISION NOT NULL DEFAULT 0,
	coordinates   JSONB
);
CREATE INDEX IF NOT EXISTS idx_urban_vacant_locals_neighborhood ON urban.vacant_locals (neighborhood);
`

// Migrate ensures the urban schema, tables, and spatial indexes exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "urban: migrate")
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "urban: ping")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ListTransport(ctx context.Context) ([]TransportStop, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, type, latitude, longitude FROM urban.transport ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "urban: query transport")
	}
	defer rows.Close()

	var stops []TransportStop
	for rows.Next() {
		var t TransportStop
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Lat, &t.Lon); err != nil {
			return nil, eris.Wrap(err, "urban: scan transport row")
		}
		stops = append(stops, t)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "urban: iterate transport rows")
	}
	return stops, nil
}

func (s *PostgresStore) ListDemographics(ctx context.Context, filter DemographicFilter) ([]Neighborhood, error) {
	where, args := filter.whereClause(true)
	sql := `SELECT id, name, income, population_density, age_distribution, household_sizes, boundary
		FROM urban.demographics` + where + ` ORDER BY id`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "urban: query demographics")
	}
	defer rows.Close()

	var hoods []Neighborhood
	for rows.Next() {
		var n Neighborhood
		if err := rows.Scan(&n.ID, &n.Name, &n.Income, &n.Density, &n.AgeDistribution,
			&n.HouseholdSizes, &n.Boundary); err != nil {
			return nil, eris.Wrap(err, "urban: scan demographics row")
		}
		hoods = append(hoods, n)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "urban: iterate demographics rows")
	}
	return hoods, nil
}

const restaurantColumns = `id, name, type, cuisine_category, rating, review_count,
	price, price_category, accessibility, neighborhood, address, latitude, longitude`

func scanRestaurants(rows pgx.Rows) ([]Restaurant, error) {
	var restaurants []Restaurant
	for rows.Next() {
		var r Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.CuisineCategory, &r.Rating,
			&r.ReviewCount, &r.Price, &r.PriceCategory, &r.Accessibility,
			&r.Neighborhood, &r.Address, &r.Lat, &r.Lon); err != nil {
			return nil, eris.Wrap(err, "urban: scan restaurant row")
		}
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "urban: iterate restaurant rows")
	}
	return restaurants, nil
}

func (s *PostgresStore) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+restaurantColumns+` FROM urban.restaurants ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "urban: query restaurants")
	}
	defer rows.Close()
	return scanRestaurants(rows)
}

func (s *PostgresStore) RestaurantsNear(ctx context.Context, lat, lon, radiusMeters float64) ([]Restaurant, error) {
	if err := spatial.ValidateCoordinate(lat, lon); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+restaurantColumns+` FROM urban.restaurants
		WHERE ST_DWithin(geom::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)`,
		lon, lat, radiusMeters)
	if err != nil {
		return nil, eris.Wrap(err, "urban: query restaurants near")
	}
	defer rows.Close()
	return scanRestaurants(rows)
}

func (s *PostgresStore) ListVacants(ctx context.Context) ([]VacantLocal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, address, price_raw, area_m2, price_per_m2, neighborhood, accessibility, coordinates
		FROM urban.vacant_locals ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "urban: query vacant locals")
	}
	defer rows.Close()

	var locals []VacantLocal
	for rows.Next() {
		var v VacantLocal
		if err := rows.Scan(&v.ID, &v.Title, &v.Address, &v.PriceRaw, &v.Area,
			&v.PricePerArea, &v.Neighborhood, &v.Accessibility, &v.Coordinates); err != nil {
			return nil, eris.Wrap(err, "urban: scan vacant local row")
		}
		locals = append(locals, v)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "urban: iterate vacant local rows")
	}
	return locals, nil
}

func (s *PostgresStore) CountVacantsByNeighborhood(ctx context.Context) ([]NeighborhoodCount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT neighborhood, COUNT(*) FROM urban.vacant_locals
		WHERE neighborhood <> '' GROUP BY neighborhood ORDER BY neighborhood`)
	if err != nil {
		return nil, eris.Wrap(err, "urban: count vacants by neighborhood")
	}
	defer rows.Close()

	var counts []NeighborhoodCount
	for rows.Next() {
		var c NeighborhoodCount
		if err := rows.Scan(&c.Neighborhood, &c.Count); err != nil {
			return nil, eris.Wrap(err, "urban: scan vacant count row")
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "urban: iterate vacant count rows")
	}
	return counts, nil
}
