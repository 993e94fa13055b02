package proj

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// Distance in meters between two geographic points, for tolerance checks.
func geoDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const r = 6371000.0
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dp := (lat2 - lat1) * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180
	h := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	return 2 * r * math.Asin(math.Sqrt(h))
}

func TestToGeographic_BarcelonaCenter(t *testing.T) {
	// Plaça de Catalunya area: UTM 31N 430887.5643 E, 4581837.8535 N.
	lon, lat := ToGeographic(430887.5643, 4581837.8535)

	assert.InDelta(t, 2.1734, lon, 1e-4)
	assert.InDelta(t, 41.3851, lat, 1e-4)
	assert.Less(t, geoDistance(41.3851, 2.1734, lat, lon), 1.0, "error must stay under a meter")
}

func TestToGeographic_SagradaFamilia(t *testing.T) {
	lon, lat := ToGeographic(430987.4343, 4583894.2627)

	assert.Less(t, geoDistance(41.40363, 2.17436, lat, lon), 1.0)
}

func TestToGeographic_Deterministic(t *testing.T) {
	lon1, lat1 := ToGeographic(430887.5643, 4581837.8535)
	lon2, lat2 := ToGeographic(430887.5643, 4581837.8535)

	assert.Equal(t, lon1, lon2)
	assert.Equal(t, lat1, lat2)
}

func TestRingToGeographic_SkipsBadPairs(t *testing.T) {
	ring := []geom.Coord{
		{430887.5643, 4581837.8535},
		{math.NaN(), 4581837.8535},
		{430987.4343, math.Inf(1)},
		{430987.4343},
		{430987.4343, 4583894.2627},
	}

	out := RingToGeographic(ring)

	require.Len(t, out, 2)
	assert.InDelta(t, 2.1734, out[0][0], 1e-4)
	assert.InDelta(t, 41.3851, out[0][1], 1e-4)
}

func TestRingToGeographic_AllBadPairsYieldsEmpty(t *testing.T) {
	ring := []geom.Coord{{math.NaN(), 1}, {2}}
	assert.Empty(t, RingToGeographic(ring))
}

func TestMultiPolygonToGeographic_DropsEmptyPolygons(t *testing.T) {
	mp := [][][]geom.Coord{
		{{{math.NaN(), math.NaN()}}},
		{{{430887.5643, 4581837.8535}, {430987.4343, 4583894.2627}, {431087.0, 4581900.0}}},
	}

	out := MultiPolygonToGeographic(mp)

	require.Len(t, out, 1)
	require.Len(t, out[0], 1)
	assert.Len(t, out[0][0], 3)
}

func TestParseBoundary_Polygon(t *testing.T) {
	raw := json.RawMessage(`{"coordinates": [[[430887.5, 4581837.8], [430987.4, 4583894.2], [431087.0, 4581900.0]]]}`)

	mp, err := ParseBoundary(raw)
	require.NoError(t, err)

	require.Len(t, mp, 1)
	require.Len(t, mp[0], 1)
	assert.Len(t, mp[0][0], 3)
}

func TestParseBoundary_MultiPolygon(t *testing.T) {
	raw := json.RawMessage(`{"coordinates": [[[[430887.5, 4581837.8], [430987.4, 4583894.2], [431087.0, 4581900.0]]], [[[440000.0, 4590000.0], [440100.0, 4590100.0], [440200.0, 4590000.0]]]]}`)

	mp, err := ParseBoundary(raw)
	require.NoError(t, err)
	assert.Len(t, mp, 2)
}

func TestParseBoundary_SkipsNonNumericMembers(t *testing.T) {
	raw := json.RawMessage(`{"coordinates": [[[430887.5, 4581837.8], ["bad", 4583894.2], [431087.0, 4581900.0]]]}`)

	mp, err := ParseBoundary(raw)
	require.NoError(t, err)
	assert.Len(t, mp[0][0], 2)
}

func TestParseBoundary_EmptyOrUnrecognized(t *testing.T) {
	_, err := ParseBoundary(nil)
	assert.ErrorIs(t, err, ErrEmptyShape)

	_, err = ParseBoundary(json.RawMessage(`{"coordinates": []}`))
	assert.ErrorIs(t, err, ErrEmptyShape)

	_, err = ParseBoundary(json.RawMessage(`{"coordinates": [1.0, 2.0]}`))
	assert.ErrorIs(t, err, ErrEmptyShape)
}

func TestBuildMultiPolygon(t *testing.T) {
	mp := [][][]geom.Coord{
		{{{2.17, 41.38}, {2.18, 41.38}, {2.18, 41.39}, {2.17, 41.38}}},
	}

	g, err := BuildMultiPolygon(mp)
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumPolygons())
}
