package urban

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/urban-insight/insight-api/internal/proj"
)

// similarityBand is the relative income window for SimilarByIncome.
const similarityBand = 0.10

// DemographicService serves neighborhood demographics and their geographic
// boundaries.
type DemographicService struct {
	store Store
}

// NewDemographicService creates a DemographicService over the given store.
func NewDemographicService(store Store) *DemographicService {
	return &DemographicService{store: store}
}

// ParseIncome parses a decimal-comma income string such as "15.341,21".
// Dots are thousands separators.
func ParseIncome(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, false
	}
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	income, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(income) || math.IsInf(income, 0) {
		return 0, false
	}
	return income, true
}

// List returns neighborhoods matching the filter.
func (s *DemographicService) List(ctx context.Context, filter DemographicFilter) ([]Neighborhood, error) {
	return s.store.ListDemographics(ctx, filter)
}

// Neighborhoods returns every neighborhood with its boundary converted from
// projected to geographic coordinates as a GeoJSON MultiPolygon. Records
// whose boundary is missing or unusable are skipped, not errors.
func (s *DemographicService) Neighborhoods(ctx context.Context) ([]NeighborhoodGeo, error) {
	hoods, err := s.store.ListDemographics(ctx, DemographicFilter{})
	if err != nil {
		return nil, err
	}

	geos := make([]NeighborhoodGeo, 0, len(hoods))
	for _, hood := range hoods {
		mp, err := proj.ParseBoundary(hood.Boundary)
		if err != nil {
			zap.L().Warn("urban: skipping neighborhood with unusable boundary",
				zap.String("neighborhood", hood.Name), zap.Error(err))
			continue
		}
		converted := proj.MultiPolygonToGeographic(mp)
		if len(converted) == 0 {
			zap.L().Warn("urban: neighborhood boundary empty after conversion",
				zap.String("neighborhood", hood.Name))
			continue
		}
		geos = append(geos, NeighborhoodGeo{
			Neighborhood: hood,
			Geometry: GeoJSONGeometry{
				Type:        "MultiPolygon",
				Coordinates: converted,
			},
		})
	}
	return geos, nil
}

// ByName finds a neighborhood by accent- and case-insensitive name match.
// Returns ErrNotFound when no neighborhood matches.
func (s *DemographicService) ByName(ctx context.Context, name string) (*Neighborhood, error) {
	hoods, err := s.store.ListDemographics(ctx, DemographicFilter{})
	if err != nil {
		return nil, err
	}

	target := NormalizeName(name)
	for i := range hoods {
		if NormalizeName(hoods[i].Name) == target {
			return &hoods[i], nil
		}
	}
	return nil, ErrNotFound
}

// SimilarByIncome returns the neighborhoods whose parsed income sits within
// ten percent of the given rent value, closest first. The value carries a
// comma decimal separator ("15341,21"). Returns ErrInvalidParameter when the
// value does not parse and ErrNotFound when no neighborhood falls inside the
// band.
func (s *DemographicService) SimilarByIncome(ctx context.Context, renta string) ([]Neighborhood, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(renta), ",", ".")
	reference, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(reference) || math.IsInf(reference, 0) {
		return nil, eris.Wrapf(ErrInvalidParameter, "rent value %q", renta)
	}

	hoods, err := s.store.ListDemographics(ctx, DemographicFilter{})
	if err != nil {
		return nil, err
	}

	band := math.Abs(reference) * similarityBand
	type candidate struct {
		hood Neighborhood
		gap  float64
	}
	var candidates []candidate
	for _, hood := range hoods {
		income, ok := ParseIncome(hood.Income)
		if !ok {
			continue
		}
		if gap := math.Abs(income - reference); gap <= band {
			candidates = append(candidates, candidate{hood: hood, gap: gap})
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].gap != candidates[j].gap {
			return candidates[i].gap < candidates[j].gap
		}
		return candidates[i].hood.Name < candidates[j].hood.Name
	})

	similar := make([]Neighborhood, 0, len(candidates))
	for _, c := range candidates {
		similar = append(similar, c.hood)
	}
	return similar, nil
}
