package urban

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// VacantsService serves vacant commercial listings. Listings come from a
// scraper and are noisy; invalid records are silently excluded, never
// surfaced as errors.
type VacantsService struct {
	store Store
}

// NewVacantsService creates a VacantsService over the given store.
func NewVacantsService(store Store) *VacantsService {
	return &VacantsService{store: store}
}

var nonPriceChars = regexp.MustCompile(`[^0-9.,]`)

// ParsePrice extracts a numeric price from a scraped price string such as
// "1.200,50 €/mes". Dots are thousands separators and the comma is the
// decimal separator, per the source listings' locale.
func ParsePrice(raw string) (float64, bool) {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// valid applies the listing validity rules: usable address, exactly two
// finite coordinates, a title, a parseable price, and a neighborhood label.
func (v *VacantLocal) valid() bool {
	if strings.TrimSpace(v.Address) == "" {
		return false
	}
	if len(v.Coordinates) != 2 {
		return false
	}
	for _, c := range v.Coordinates {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	if strings.TrimSpace(v.Title) == "" {
		return false
	}
	if _, ok := ParsePrice(v.PriceRaw); !ok {
		return false
	}
	return strings.TrimSpace(v.Neighborhood) != ""
}

// List returns the valid listings with parsed prices.
func (s *VacantsService) List(ctx context.Context) ([]VacantLocal, error) {
	raw, err := s.store.ListVacants(ctx)
	if err != nil {
		return nil, err
	}

	locals := make([]VacantLocal, 0, len(raw))
	for _, v := range raw {
		if !v.valid() {
			continue
		}
		v.Price, _ = ParsePrice(v.PriceRaw)
		locals = append(locals, v)
	}
	zap.L().Debug("urban: filtered vacant listings",
		zap.Int("total", len(raw)), zap.Int("valid", len(locals)))
	return locals, nil
}

// CountsByNeighborhood groups raw listings by neighborhood label. Counts
// reflect the whole collection; validity filtering applies only where
// individual records are served.
func (s *VacantsService) CountsByNeighborhood(ctx context.Context) ([]NeighborhoodCount, error) {
	return s.store.CountVacantsByNeighborhood(ctx)
}

// AveragePriceByNeighborhood averages the parsed price of valid listings in
// the named neighborhood. Returns ErrNotFound when the neighborhood has no
// valid listings.
func (s *VacantsService) AveragePriceByNeighborhood(ctx context.Context, name string) (float64, error) {
	locals, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	target := NormalizeName(name)
	var sum float64
	var n int
	for _, v := range locals {
		if NormalizeName(v.Neighborhood) == target {
			sum += v.Price
			n++
		}
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return sum / float64(n), nil
}

// AveragePricesByNeighborhood averages parsed prices per neighborhood across
// all valid listings.
func (s *VacantsService) AveragePricesByNeighborhood(ctx context.Context) ([]NeighborhoodPrice, error) {
	locals, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	labels := make(map[string]string) // normalized -> first-seen label
	for _, v := range locals {
		key := NormalizeName(v.Neighborhood)
		if _, seen := labels[key]; !seen {
			labels[key] = strings.TrimSpace(v.Neighborhood)
		}
		sums[key] += v.Price
		counts[key]++
	}

	prices := make([]NeighborhoodPrice, 0, len(sums))
	for key, sum := range sums {
		prices = append(prices, NeighborhoodPrice{
			Neighborhood: labels[key],
			AveragePrice: sum / float64(counts[key]),
		})
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Neighborhood < prices[j].Neighborhood })
	return prices, nil
}

// NeighborhoodNames returns the distinct neighborhood labels carried by the
// vacancy listings, sorted.
func (s *VacantsService) NeighborhoodNames(ctx context.Context) ([]string, error) {
	locals, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, v := range locals {
		label := strings.TrimSpace(v.Neighborhood)
		key := NormalizeName(label)
		if !seen[key] {
			seen[key] = true
			names = append(names, label)
		}
	}
	sort.Strings(names)
	return names, nil
}
