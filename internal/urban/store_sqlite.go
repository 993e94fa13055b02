package urban

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/urban-insight/insight-api/internal/spatial"
)

// SQLiteStore implements Store using modernc.org/sqlite for local development.
// There is no spatial index here; proximity search loads the (small)
// restaurant set and filters in-process with the spherical distance engine.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "urban: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "urban: sqlite exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS transport (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT NOT NULL,
	type      TEXT NOT NULL DEFAULT '',
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS demographics (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL,
	income             TEXT NOT NULL DEFAULT '',
	population_density REAL NOT NULL DEFAULT 0,
	age_distribution   REAL NOT NULL DEFAULT 0,
	household_sizes    TEXT NOT NULL DEFAULT '{}',
	boundary           TEXT
);

CREATE TABLE IF NOT EXISTS restaurants (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT NOT NULL,
	type             TEXT NOT NULL DEFAULT '',
	cuisine_category TEXT NOT NULL DEFAULT '',
	rating           REAL NOT NULL DEFAULT 0,
	review_count     INTEGER NOT NULL DEFAULT 0,
	price            TEXT NOT NULL DEFAULT '',
	price_category   TEXT NOT NULL DEFAULT '',
	accessibility    REAL NOT NULL DEFAULT 0,
	neighborhood     TEXT NOT NULL DEFAULT '',
	address          TEXT NOT NULL DEFAULT '',
	latitude         REAL NOT NULL,
	longitude        REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_restaurants_neighborhood ON restaurants(neighborhood);

CREATE TABLE IF NOT EXISTS vacant_locals (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT NOT NULL DEFAULT '',
	address       TEXT NOT NULL DEFAULT '',
	price_raw     TEXT NOT NULL DEFAULT '',
	area_m2       REAL NOT NULL DEFAULT 0,
	price_per_m2  REAL NOT NULL DEFAULT 0,
	neighborhood  TEXT NOT NULL DEFAULT '',
	accessibility REAL NOT NULL DEFAULT 0,
	coordinates   TEXT
);
CREATE INDEX IF NOT EXISTS idx_vacant_locals_neighborhood ON vacant_locals(neighborhood);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "urban: sqlite migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "urban: sqlite ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListTransport(ctx context.Context) ([]TransportStop, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, latitude, longitude FROM transport ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "urban: sqlite query transport")
	}
	defer rows.Close()

	var stops []TransportStop
	for rows.Next() {
		var t TransportStop
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Lat, &t.Lon); err != nil {
			return nil, eris.Wrap(err, "urban: sqlite scan transport row")
		}
		stops = append(stops, t)
	}
	return stops, eris.Wrap(rows.Err(), "urban: sqlite iterate transport rows")
}

func (s *SQLiteStore) ListDemographics(ctx context.Context, filter DemographicFilter) ([]Neighborhood, error) {
	where, args := filter.whereClause(false)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, income, population_density, age_distribution, household_sizes, boundary
		FROM demographics`+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, eris.Wrap(err, "urban: sqlite query demographics")
	}
	defer rows.Close()

	var hoods []Neighborhood
	for rows.Next() {
		var n Neighborhood
		var households string
		var boundary sql.NullString
		if err := rows.Scan(&n.ID, &n.Name, &n.Income, &n.Density, &n.AgeDistribution,
			&households, &boundary); err != nil {
			return nil, eris.Wrap(err, "urban: sqlite scan demographics row")
		}
		if err := json.Unmarshal([]byte(households), &n.HouseholdSizes); err != nil {
			return nil, eris.Wrap(err, "urban: sqlite decode household sizes")
		}
		if boundary.Valid {
			n.Boundary = json.RawMessage(boundary.String)
		}
		hoods = append(hoods, n)
	}
	return hoods, eris.Wrap(rows.Err(), "urban: sqlite iterate demographics rows")
}

func (s *SQLiteStore) listRestaurants(ctx context.Context) ([]Restaurant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "urban: sqlite query restaurants")
	}
	defer rows.Close()

	var restaurants []Restaurant
	for rows.Next() {
		var r Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.CuisineCategory, &r.Rating,
			&r.ReviewCount, &r.Price, &r.PriceCategory, &r.Accessibility,
			&r.Neighborhood, &r.Address, &r.Lat, &r.Lon); err != nil {
			return nil, eris.Wrap(err, "urban: sqlite scan restaurant row")
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, eris.Wrap(rows.Err(), "urban: sqlite iterate restaurant rows")
}

func (s *SQLiteStore) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	return s.listRestaurants(ctx)
}

func (s *SQLiteStore) RestaurantsNear(ctx context.Context, lat, lon, radiusMeters float64) ([]Restaurant, error) {
	if err := spatial.ValidateCoordinate(lat, lon); err != nil {
		return nil, err
	}

	all, err := s.listRestaurants(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]spatial.Point, len(all))
	for i, r := range all {
		points[i] = spatial.Point{Lat: r.Lat, Lon: r.Lon}
	}
	matches, err := spatial.WithinRadius(points, spatial.Point{Lat: lat, Lon: lon}, radiusMeters)
	if err != nil {
		return nil, err
	}

	near := make([]Restaurant, 0, len(matches))
	for _, m := range matches {
		near = append(near, all[m.Index])
	}
	return near, nil
}

func (s *SQLiteStore) ListVacants(ctx context.Context) ([]VacantLocal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, address, price_raw, area_m2, price_per_m2, neighborhood, accessibility, coordinates
		FROM vacant_locals ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "urban: sqlite query vacant locals")
	}
	defer rows.Close()

	var locals []VacantLocal
	for rows.Next() {
		var v VacantLocal
		var coords sql.NullString
		if err := rows.Scan(&v.ID, &v.Title, &v.Address, &v.PriceRaw, &v.Area,
			&v.PricePerArea, &v.Neighborhood, &v.Accessibility, &coords); err != nil {
			return nil, eris.Wrap(err, "urban: sqlite scan vacant local row")
		}
		if coords.Valid {
			if err := json.Unmarshal([]byte(coords.String), &v.Coordinates); err != nil {
				return nil, eris.Wrap(err, "urban: sqlite decode coordinates")
			}
		}
		locals = append(locals, v)
	}
	return locals, eris.Wrap(rows.Err(), "urban: sqlite iterate vacant local rows")
}

func (s *SQLiteStore) CountVacantsByNeighborhood(ctx context.Context) ([]NeighborhoodCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT neighborhood, COUNT(*) FROM vacant_locals
		WHERE neighborhood <> '' GROUP BY neighborhood ORDER BY neighborhood`)
	if err != nil {
		return nil, eris.Wrap(err, "urban: sqlite count vacants by neighborhood")
	}
	defer rows.Close()

	var counts []NeighborhoodCount
	for rows.Next() {
		var c NeighborhoodCount
		if err := rows.Scan(&c.Neighborhood, &c.Count); err != nil {
			return nil, eris.Wrap(err, "urban: sqlite scan vacant count row")
		}
		counts = append(counts, c)
	}
	return counts, eris.Wrap(rows.Err(), "urban: sqlite iterate vacant count rows")
}
