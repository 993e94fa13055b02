package proj

import (
	"encoding/json"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// ErrEmptyShape reports a geometry payload that was unrecognized or left no
// usable coordinates after filtering. Callers skip the record rather than
// failing the whole response.
var ErrEmptyShape = eris.New("proj: shape empty after filtering")

// RingToGeographic converts a ring of UTM coordinate pairs to geographic
// coordinates. Pairs with fewer than two components or non-finite members are
// dropped; a fully filtered ring comes back empty.
func RingToGeographic(ring []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, 0, len(ring))
	for _, c := range ring {
		if len(c) < 2 || !finite(c[0]) || !finite(c[1]) {
			continue
		}
		lon, lat := ToGeographic(c[0], c[1])
		out = append(out, geom.Coord{lon, lat})
	}
	return out
}

// PolygonToGeographic converts each ring of a polygon, dropping rings that end
// up empty.
func PolygonToGeographic(poly [][]geom.Coord) [][]geom.Coord {
	out := make([][]geom.Coord, 0, len(poly))
	for _, ring := range poly {
		if converted := RingToGeographic(ring); len(converted) > 0 {
			out = append(out, converted)
		}
	}
	return out
}

// MultiPolygonToGeographic converts each polygon, dropping polygons that end
// up empty.
func MultiPolygonToGeographic(mp [][][]geom.Coord) [][][]geom.Coord {
	out := make([][][]geom.Coord, 0, len(mp))
	for _, poly := range mp {
		if converted := PolygonToGeographic(poly); len(converted) > 0 {
			out = append(out, converted)
		}
	}
	return out
}

// ParseBoundary decodes a stored {"coordinates": [...]} geometry payload into
// multipolygon nesting (polygons → rings → pairs). Plain polygon payloads are
// wrapped in a single-element multipolygon. Non-numeric coordinate members are
// dropped; an unrecognized or fully filtered payload yields ErrEmptyShape.
func ParseBoundary(raw json.RawMessage) ([][][]geom.Coord, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyShape
	}

	var envelope struct {
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, eris.Wrap(err, "proj: decode geometry")
	}
	coords := envelope.Coordinates
	if len(coords) == 0 {
		// Payload may be the bare coordinate array.
		coords = raw
	}

	var nested any
	if err := json.Unmarshal(coords, &nested); err != nil {
		return nil, eris.Wrap(err, "proj: decode coordinates")
	}

	switch depth(nested) {
	case 3: // polygon: rings → pairs
		poly := decodePolygon(nested)
		if len(poly) == 0 {
			return nil, ErrEmptyShape
		}
		return [][][]geom.Coord{poly}, nil
	case 4: // multipolygon
		var mp [][][]geom.Coord
		list, _ := nested.([]any)
		for _, p := range list {
			if poly := decodePolygon(p); len(poly) > 0 {
				mp = append(mp, poly)
			}
		}
		if len(mp) == 0 {
			return nil, ErrEmptyShape
		}
		return mp, nil
	default:
		return nil, ErrEmptyShape
	}
}

// BuildMultiPolygon assembles a go-geom multipolygon from converted rings.
func BuildMultiPolygon(mp [][][]geom.Coord) (*geom.MultiPolygon, error) {
	out, err := geom.NewMultiPolygon(geom.XY).SetCoords(mp)
	if err != nil {
		return nil, eris.Wrap(err, "proj: build multipolygon")
	}
	return out, nil
}

// depth reports how many nested list levels sit under v, following first
// elements. A coordinate pair has depth 1.
func depth(v any) int {
	d := 0
	for {
		list, ok := v.([]any)
		if !ok || len(list) == 0 {
			return d
		}
		d++
		v = list[0]
	}
}

func decodePolygon(v any) [][]geom.Coord {
	rings, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([][]geom.Coord, 0, len(rings))
	for _, r := range rings {
		pairs, ok := r.([]any)
		if !ok {
			continue
		}
		ring := make([]geom.Coord, 0, len(pairs))
		for _, p := range pairs {
			members, ok := p.([]any)
			if !ok || len(members) < 2 {
				continue
			}
			x, okX := asFinite(members[0])
			y, okY := asFinite(members[1])
			if !okX || !okY {
				continue
			}
			ring = append(ring, geom.Coord{x, y})
		}
		if len(ring) > 0 {
			out = append(out, ring)
		}
	}
	return out
}

func asFinite(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || !finite(f) {
		return 0, false
	}
	return f, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
