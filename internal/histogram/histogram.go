// Package histogram builds normalized frequency distributions over
// categorical or numeric series. The caller decides which kind it has; there
// is no runtime type sniffing.
package histogram

import (
	"github.com/rotisserie/eris"
)

// ErrMissingIntervals reports a numeric histogram request without bin edges.
var ErrMissingIntervals = eris.New("histogram: numeric data requires intervals")

// ErrBadIntervals reports bin edges that are not strictly increasing.
var ErrBadIntervals = eris.New("histogram: intervals must be strictly increasing")

// Distribution holds binned proportions for a numeric series. Proportions sum
// to 1 (modulo rounding) for non-empty input; Edges echoes the bin edges.
type Distribution struct {
	Proportions []float64 `json:"proportions"`
	Edges       []float64 `json:"edges"`
}

// Categorical counts occurrences of each distinct value and divides by the
// total. Key order is irrelevant. Empty input yields an empty map: a
// neighborhood with zero nearby points of interest is not an error.
func Categorical(values []string) map[string]float64 {
	out := make(map[string]float64, len(values))
	if len(values) == 0 {
		return out
	}
	n := float64(len(values))
	for _, v := range values {
		out[v]++
	}
	for k := range out {
		out[k] /= n
	}
	return out
}

// Numeric bins values into the given edges and normalizes counts to
// proportions. Bins are half-open [e_i, e_i+1) except the last, which is
// closed on both ends. Empty input yields zero-length proportions with the
// edges echoed back.
func Numeric(values []float64, edges []float64) (Distribution, error) {
	if len(edges) == 0 {
		return Distribution{}, ErrMissingIntervals
	}
	if len(edges) < 2 {
		return Distribution{}, ErrBadIntervals
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return Distribution{}, ErrBadIntervals
		}
	}

	if len(values) == 0 {
		return Distribution{Proportions: []float64{}, Edges: edges}, nil
	}

	bins := len(edges) - 1
	counts := make([]float64, bins)
	for _, v := range values {
		if v < edges[0] || v > edges[bins] {
			continue
		}
		idx := bins - 1
		for i := 0; i < bins-1; i++ {
			if v < edges[i+1] {
				idx = i
				break
			}
		}
		counts[idx]++
	}

	n := float64(len(values))
	for i := range counts {
		counts[i] /= n
	}
	return Distribution{Proportions: counts, Edges: edges}, nil
}
