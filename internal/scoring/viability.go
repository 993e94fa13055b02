// Package scoring computes per-neighborhood viability scores from
// demographic signals and nearby-amenity counts.
package scoring

import (
	"strings"

	"github.com/urban-insight/insight-api/internal/urban"
)

// Signal weights. Restaurant count is a raw integer mixed with normalized
// signals; that imbalance is intentional and kept as specified by product.
const (
	incomeWeight     = 0.3
	densityWeight    = 0.3
	amenityWeight    = 0.3
	householdWeight  = 0.1
	defaultHousehold = 1.0
)

// Score is one neighborhood's composite viability score.
type Score struct {
	Neighborhood string  `json:"neighborhood"`
	Score        float64 `json:"score"`
}

// Compute derives a viability score per neighborhood from income, density,
// average household size, and the count of restaurants labeled with the
// neighborhood's name. Income and density are min-max normalized across the
// whole input; a malformed value contributes 0 for that neighborhood rather
// than failing the computation. Output order follows input order.
func Compute(hoods []urban.Neighborhood, restaurants []urban.Restaurant) []Score {
	incomes := make([]float64, len(hoods))
	incomeOK := make([]bool, len(hoods))
	densities := make([]float64, len(hoods))
	densityOK := make([]bool, len(hoods))
	for i, hood := range hoods {
		incomes[i], incomeOK[i] = urban.ParseIncome(hood.Income)
		// Zero density means the value was absent upstream.
		if hood.Density != 0 {
			densities[i], densityOK[i] = hood.Density, true
		}
	}

	incomeMin, incomeMax := bounds(incomes, incomeOK)
	densityMin, densityMax := bounds(densities, densityOK)

	counts := countByNeighborhood(restaurants)

	scores := make([]Score, len(hoods))
	for i, hood := range hoods {
		var incomeNorm, densityNorm float64
		if incomeOK[i] {
			incomeNorm = normalize(incomes[i], incomeMin, incomeMax)
		}
		if densityOK[i] {
			densityNorm = normalize(densities[i], densityMin, densityMax)
		}

		household := averageHouseholdSize(hood.HouseholdSizes)
		amenities := float64(counts[urban.NormalizeName(hood.Name)])

		score := incomeWeight*incomeNorm +
			densityWeight*densityNorm +
			amenityWeight*amenities +
			householdWeight*household
		if score < 0 {
			score = 0
		}
		scores[i] = Score{Neighborhood: hood.Name, Score: score}
	}
	return scores
}

// normalize maps v into [0,1] over [lo,hi]; a flat range contributes 0.
func normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

func bounds(values []float64, ok []bool) (lo, hi float64) {
	first := true
	for i, v := range values {
		if !ok[i] {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// averageHouseholdSize averages the mapping's values over its category count;
// an empty mapping defaults to 1.
func averageHouseholdSize(sizes map[string]float64) float64 {
	if len(sizes) == 0 {
		return defaultHousehold
	}
	var sum float64
	for _, v := range sizes {
		sum += v
	}
	return sum / float64(len(sizes))
}

func countByNeighborhood(restaurants []urban.Restaurant) map[string]int {
	counts := make(map[string]int, len(restaurants))
	for _, r := range restaurants {
		label := urban.NormalizeName(strings.TrimSpace(r.Neighborhood))
		if label != "" {
			counts[label]++
		}
	}
	return counts
}
