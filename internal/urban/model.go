// Package urban holds the domain model and data access for the city
// analytics collections: transport points, neighborhood demographics,
// restaurants, and vacant commercial listings.
package urban

import (
	"encoding/json"

	"github.com/urban-insight/insight-api/internal/histogram"
)

// TransportStop is a public transport point (metro, bus, tram).
type TransportStop struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Type string  `json:"type"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Neighborhood bundles a neighborhood's demographic attributes with its
// boundary. The boundary is stored in projected UTM coordinates and must go
// through proj before any geographic containment test.
type Neighborhood struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	Income          string             `json:"income"` // decimal-comma string, e.g. "15.341,21"
	Density         float64            `json:"population_density"`
	AgeDistribution float64            `json:"age_distribution"`
	HouseholdSizes  map[string]float64 `json:"household_sizes"`
	Boundary        json.RawMessage    `json:"-"` // raw {"coordinates": [...]} payload, UTM
}

// GeoJSONGeometry is a minimal GeoJSON geometry for API output.
type GeoJSONGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// NeighborhoodGeo is a neighborhood with its boundary converted to
// geographic coordinates for map rendering and containment queries.
type NeighborhoodGeo struct {
	Neighborhood
	Geometry GeoJSONGeometry `json:"geometry"`
}

// Restaurant is an immutable point of interest from the restaurants
// collection. Points are stored already-geographic.
type Restaurant struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	CuisineCategory string  `json:"cuisine_category"`
	Rating          float64 `json:"rating"` // 0-5 in 0.5 steps
	ReviewCount     int     `json:"review_count"`
	Price           string  `json:"price"`
	PriceCategory   string  `json:"price_category"`
	Accessibility   float64 `json:"accessibility"` // 0-10 ordinal
	Neighborhood    string  `json:"neighborhood"`
	Address         string  `json:"address"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
}

// VacantLocal is a commercial vacancy listing. Coordinates are kept as stored
// (projected); validity rules are applied by VacantsService before anything
// is served.
type VacantLocal struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Address       string    `json:"address"`
	PriceRaw      string    `json:"-"` // as scraped, e.g. "1.200,50 €/mes"
	Price         float64   `json:"total_price"`
	Area          float64   `json:"area_m2"`
	PricePerArea  float64   `json:"price_per_m2"`
	Neighborhood  string    `json:"neighborhood"`
	Coordinates   []float64 `json:"coordinates"`
	Accessibility float64   `json:"accessibility"`
}

// NearbyRestaurant is the trimmed projection served by the proximity search.
type NearbyRestaurant struct {
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Type   string  `json:"type"`
	Rating float64 `json:"rating"`
	Price  string  `json:"price"`
}

// CompetitorSummary aggregates the restaurants around a candidate location
// into distribution summaries.
type CompetitorSummary struct {
	RestaurantCount   int                    `json:"restaurant_count"`
	CuisineCategories map[string]float64     `json:"cuisine_categories"`
	PriceCategories   map[string]float64     `json:"price_categories"`
	Ratings           histogram.Distribution `json:"ratings"`
	Accessibility     histogram.Distribution `json:"accessibility"`
}

// NeighborhoodCount pairs a neighborhood label with a count.
type NeighborhoodCount struct {
	Neighborhood string `json:"neighborhood"`
	Count        int    `json:"count"`
}

// NeighborhoodPrice pairs a neighborhood label with an average price.
type NeighborhoodPrice struct {
	Neighborhood string  `json:"neighborhood"`
	AveragePrice float64 `json:"average_price"`
}

// CuisineCount pairs a cuisine category with its restaurant count.
type CuisineCount struct {
	Cuisine string `json:"cuisine"`
	Count   int    `json:"count"`
}
