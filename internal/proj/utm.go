// Package proj converts projected UTM coordinates to geographic WGS84
// longitude/latitude. Neighborhood boundaries and vacancy listings are stored
// in UTM zone 31N; restaurant and transport points are already geographic.
package proj

import "math"

// WGS84 ellipsoid and UTM zone 31N projection constants.
const (
	semiMajorAxis   = 6378137.0
	flattening      = 1 / 298.257223563
	scaleFactor     = 0.9996
	falseEasting    = 500000.0
	centralMeridian = 3.0 // zone 31
)

var (
	e2  = flattening * (2 - flattening)
	ep2 = e2 / (1 - e2)
	e1  = (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
)

// ToGeographic converts a UTM zone 31N easting/northing pair (northern
// hemisphere) to geographic longitude/latitude in degrees. The conversion is
// the standard inverse Transverse Mercator series, accurate to well under a
// meter; it is pure and stateless.
func ToGeographic(easting, northing float64) (lon, lat float64) {
	x := easting - falseEasting
	y := northing

	m := y / scaleFactor
	mu := m / (semiMajorAxis * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi := math.Sin(phi1)
	cosPhi := math.Cos(phi1)
	tanPhi := math.Tan(phi1)

	c1 := ep2 * cosPhi * cosPhi
	t1 := tanPhi * tanPhi
	n1 := semiMajorAxis / math.Sqrt(1-e2*sinPhi*sinPhi)
	r1 := semiMajorAxis * (1 - e2) / math.Pow(1-e2*sinPhi*sinPhi, 1.5)
	d := x / (n1 * scaleFactor)

	latRad := phi1 - (n1*tanPhi/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lonRad := (d -
		(1+2*t1+c1)*d*d*d/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120) / cosPhi

	lat = latRad * 180 / math.Pi
	lon = centralMeridian + lonRad*180/math.Pi
	return lon, lat
}
