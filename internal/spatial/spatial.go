// Package spatial implements great-circle distance, radius search, and
// point-in-polygon containment over geographic coordinates. The postgres store
// pushes these operations into PostGIS; this package backs the sqlite store
// and the in-process aggregation paths.
package spatial

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// ErrInvalidCoordinate reports a non-finite or out-of-range center coordinate.
// Validation happens before any query runs.
var ErrInvalidCoordinate = eris.New("spatial: invalid coordinate")

const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two
// geographic points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dp := (lat2 - lat1) * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180

	h := math.Sin(dp/2)*math.Sin(dp/2) +
		math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// ValidateCoordinate rejects non-finite or out-of-range lat/lon pairs.
func ValidateCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// Point is a geographic point carried through radius searches.
type Point struct {
	Lat float64
	Lon float64
}

// Match pairs an input index with its distance from the search center.
type Match struct {
	Index    int
	Distance float64
}

// WithinRadius returns the points within radiusMeters of the center, ordered
// by ascending distance. Zero matches yields an empty slice, not an error.
func WithinRadius(points []Point, center Point, radiusMeters float64) ([]Match, error) {
	if err := ValidateCoordinate(center.Lat, center.Lon); err != nil {
		return nil, err
	}

	matches := make([]Match, 0)
	for i, p := range points {
		if d := Haversine(center.Lat, center.Lon, p.Lat, p.Lon); d <= radiusMeters {
			matches = append(matches, Match{Index: i, Distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	return matches, nil
}

// Contains reports whether the geographic point lies inside the multipolygon.
// Containment is boundary-inclusive: a point on an edge or vertex counts as
// inside.
func Contains(mp *geom.MultiPolygon, lon, lat float64) bool {
	if mp == nil {
		return false
	}
	for i := 0; i < mp.NumPolygons(); i++ {
		if polygonContains(mp.Polygon(i), lon, lat) {
			return true
		}
	}
	return false
}

// polygonContains applies ray casting against the outer ring, then excludes
// interior holes. Boundary points are inside.
func polygonContains(poly *geom.Polygon, lon, lat float64) bool {
	if poly.NumLinearRings() == 0 {
		return false
	}
	if !ringContains(poly.LinearRing(0), lon, lat) {
		return false
	}
	for i := 1; i < poly.NumLinearRings(); i++ {
		ring := poly.LinearRing(i)
		if onRingBoundary(ring, lon, lat) {
			return true
		}
		if ringContains(ring, lon, lat) {
			return false
		}
	}
	return true
}

func ringContains(ring *geom.LinearRing, lon, lat float64) bool {
	coords := ring.Coords()
	if len(coords) < 3 {
		return false
	}
	if onBoundary(coords, lon, lat) {
		return true
	}

	inside := false
	j := len(coords) - 1
	for i := 0; i < len(coords); i++ {
		xi, yi := coords[i][0], coords[i][1]
		xj, yj := coords[j][0], coords[j][1]
		if (yi > lat) != (yj > lat) &&
			lon < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

func onRingBoundary(ring *geom.LinearRing, lon, lat float64) bool {
	return onBoundary(ring.Coords(), lon, lat)
}

// onBoundary reports whether the point sits on any ring segment, within a
// small tolerance in degrees.
func onBoundary(coords []geom.Coord, lon, lat float64) bool {
	const eps = 1e-12
	j := len(coords) - 1
	for i := 0; i < len(coords); i++ {
		x1, y1 := coords[j][0], coords[j][1]
		x2, y2 := coords[i][0], coords[i][1]
		if pointOnSegment(lon, lat, x1, y1, x2, y2, eps) {
			return true
		}
		j = i
	}
	return false
}

func pointOnSegment(px, py, x1, y1, x2, y2, eps float64) bool {
	cross := (x2-x1)*(py-y1) - (y2-y1)*(px-x1)
	if math.Abs(cross) > eps {
		return false
	}
	if px < math.Min(x1, x2)-eps || px > math.Max(x1, x2)+eps {
		return false
	}
	if py < math.Min(y1, y2)-eps || py > math.Max(y1, y2)+eps {
		return false
	}
	return true
}
