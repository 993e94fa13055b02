package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/urban-insight/insight-api/internal/scoring"
	"github.com/urban-insight/insight-api/internal/urban"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTransport(w http.ResponseWriter, r *http.Request) {
	stops, err := s.transport.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stops)
}

func (s *Server) handleRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := s.restaurants.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, restaurants)
}

// parseLatLon reads the lat and lon query parameters. Both are required.
func parseLatLon(r *http.Request) (lat, lon float64, ok bool) {
	var err error
	lat, err = strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func (s *Server) handleNearbyRestaurants(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseLatLon(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "lat and lon must be numeric")
		return
	}

	nearby, err := s.restaurants.Nearby(r.Context(), lat, lon)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nearby)
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseLatLon(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "lat and lon must be numeric")
		return
	}

	summary, err := s.restaurants.Competitors(r.Context(), lat, lon)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDemographics(w http.ResponseWriter, r *http.Request) {
	var filter urban.DemographicFilter
	q := r.URL.Query()

	if raw := q.Get("age_range"); raw != "" {
		ageRange, err := urban.ParseAgeRange(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "age_range must be min-max")
			return
		}
		filter.AgeRange = &ageRange
	}
	if raw := q.Get("income"); raw != "" {
		income, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "income must be an integer")
			return
		}
		filter.MinIncome = &income
	}
	if raw := q.Get("household_size"); raw != "" {
		filter.HouseholdSize = &raw
	}

	hoods, err := s.demographics.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hoods)
}

func (s *Server) handleNeighborhoods(w http.ResponseWriter, r *http.Request) {
	geos, err := s.demographics.Neighborhoods(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, geos)
}

func (s *Server) handleDemographicsByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("barrio")
	if name == "" {
		respondError(w, http.StatusBadRequest, "barrio is required")
		return
	}

	hood, err := s.demographics.ByName(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hood)
}

func (s *Server) handleSimilarByIncome(w http.ResponseWriter, r *http.Request) {
	renta := chi.URLParam(r, "renta")
	similar, err := s.demographics.SimilarByIncome(r.Context(), renta)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, similar)
}

func (s *Server) handleRestaurantCounts(w http.ResponseWriter, r *http.Request) {
	geos, err := s.demographics.Neighborhoods(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	counts, err := s.restaurants.CountsWithinNeighborhoods(r.Context(), geos)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

func (s *Server) handlePriceCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.restaurants.PriceCategories(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCuisineCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.restaurants.CuisineCategories(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleTopCuisines(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	top, err := s.restaurants.TopCuisinesByNeighborhood(r.Context(), name, 5)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, top)
}

func (s *Server) handlePriceCategoriesByNeighborhood(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	dist, err := s.restaurants.PriceCategoriesByNeighborhood(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dist)
}

func (s *Server) handleRestaurantCountByNeighborhood(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	count, err := s.restaurants.CountByNeighborhoodLabel(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, urban.NeighborhoodCount{Neighborhood: name, Count: count})
}

func (s *Server) handleEmptyLocals(w http.ResponseWriter, r *http.Request) {
	locals, err := s.vacants.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, locals)
}

func (s *Server) handleEmptyLocalsCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.vacants.CountsByNeighborhood(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

func (s *Server) handleEmptyLocalsAveragePrice(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("neighborhood")
	if name == "" {
		respondError(w, http.StatusBadRequest, "neighborhood is required")
		return
	}

	avg, err := s.vacants.AveragePriceByNeighborhood(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, urban.NeighborhoodPrice{Neighborhood: name, AveragePrice: avg})
}

func (s *Server) handleEmptyLocalsAveragePrices(w http.ResponseWriter, r *http.Request) {
	prices, err := s.vacants.AveragePricesByNeighborhood(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prices)
}

func (s *Server) handleListingNeighborhoods(w http.ResponseWriter, r *http.Request) {
	names, err := s.vacants.NeighborhoodNames(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}

// handleViability fetches demographics and restaurants concurrently, then
// scores every neighborhood.
func (s *Server) handleViability(w http.ResponseWriter, r *http.Request) {
	var (
		hoods       []urban.Neighborhood
		restaurants []urban.Restaurant
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		hoods, err = s.demographics.List(ctx, urban.DemographicFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		restaurants, err = s.restaurants.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scoring.Compute(hoods, restaurants))
}
