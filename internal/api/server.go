// Package api exposes the analytics services over REST.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/urban-insight/insight-api/internal/config"
	"github.com/urban-insight/insight-api/internal/urban"
)

// Server bundles the domain services behind the HTTP routes.
type Server struct {
	store        urban.Store
	transport    *urban.TransportService
	demographics *urban.DemographicService
	restaurants  *urban.RestaurantService
	vacants      *urban.VacantsService
}

// NewServer wires the services over one store.
func NewServer(store urban.Store, cfg config.SearchConfig) *Server {
	return &Server{
		store:        store,
		transport:    urban.NewTransportService(store),
		demographics: urban.NewDemographicService(store),
		restaurants:  urban.NewRestaurantService(store, cfg.NearbyRadiusMeters),
		vacants:      urban.NewVacantsService(store),
	}
}

// Router builds the chi router with CORS, request tagging, logging, and rate
// limiting applied to every route.
func (s *Server) Router(cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))
	r.Use(requestID)
	r.Use(requestLogger)
	if cfg.RateLimit > 0 {
		r.Use(rateLimit(cfg.RateLimit, cfg.RateBurst))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/transport", s.handleTransport)
	r.Get("/restaurants", s.handleRestaurants)
	r.Get("/nearby_restaurants", s.handleNearbyRestaurants)

	r.Route("/api", func(r chi.Router) {
		r.Get("/demographics", s.handleDemographics)
		r.Get("/neighborhoods", s.handleNeighborhoods)
		r.Get("/neighbours_competitors", s.handleCompetitors)
		r.Get("/restaurant_counts", s.handleRestaurantCounts)
		r.Get("/empty_locals", s.handleEmptyLocals)
		r.Get("/empty_locals_count_by_neighborhood", s.handleEmptyLocalsCounts)
		r.Get("/empty_locals_average_price", s.handleEmptyLocalsAveragePrice)
		r.Get("/empty_locals_average_price_by_neighborhood", s.handleEmptyLocalsAveragePrices)
		r.Get("/neighborhoods_idealista", s.handleListingNeighborhoods)
		r.Get("/restaurant_price_categories", s.handlePriceCategories)
		r.Get("/restaurant_cuisine_categories", s.handleCuisineCategories)
		r.Get("/demographics_by_name", s.handleDemographicsByName)
		r.Get("/similar_neighborhoods_by_renta/{renta}", s.handleSimilarByIncome)
		r.Get("/top_5_cuisine_types_by_neighborhood/{name}", s.handleTopCuisines)
		r.Get("/restaurant_price_categories_by_neighborhood/{name}", s.handlePriceCategoriesByNeighborhood)
		r.Get("/restaurant_count_by_neighborhood/{name}", s.handleRestaurantCountByNeighborhood)
		r.Get("/viability", s.handleViability)
	})

	return r
}
