package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Tool provides the geodesic operations the decoder needs. Implementations
// must be safe for concurrent use.
type Tool interface {
	// Distance returns the distance in meters between two points.
	Distance(a, b orb.Point) float64
	// Bearing returns the initial bearing from a to b in degrees [0, 360).
	Bearing(a, b orb.Point) float64
	// LineLength returns the length of a polyline in meters.
	LineLength(ls orb.LineString) float64
	// Interpolate returns the point at the given arc length along the
	// polyline, clamped to its extent.
	Interpolate(ls orb.LineString, distance float64) orb.Point
}

// Spherical implements Tool on a spherical earth.
type Spherical struct{}

// Distance returns the great-circle distance in meters between two points.
func (Spherical) Distance(a, b orb.Point) float64 {
	return orbgeo.DistanceHaversine(a, b)
}

// Bearing returns the initial bearing from a to b, normalized to [0, 360).
func (Spherical) Bearing(a, b orb.Point) float64 {
	deg := orbgeo.Bearing(a, b)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// LineLength returns the length of a polyline in meters. It accumulates
// per-segment distances with the same formula Interpolate walks with, so
// arc-length offsets and line lengths stay consistent.
func (s Spherical) LineLength(ls orb.LineString) float64 {
	length := 0.0
	for i := 0; i < len(ls)-1; i++ {
		length += s.Distance(ls[i], ls[i+1])
	}
	return length
}

// Interpolate returns the point at the given arc length along the polyline.
// A negative distance returns the first point; a distance past the end of
// the line returns the last point.
func (s Spherical) Interpolate(ls orb.LineString, distance float64) orb.Point {
	if len(ls) == 0 {
		return orb.Point{}
	}
	if distance <= 0 {
		return ls[0]
	}
	remaining := distance
	for i := 0; i < len(ls)-1; i++ {
		seg := s.Distance(ls[i], ls[i+1])
		if remaining <= seg {
			if seg == 0 {
				return ls[i]
			}
			t := remaining / seg
			return orb.Point{
				ls[i][0] + t*(ls[i+1][0]-ls[i][0]),
				ls[i][1] + t*(ls[i+1][1]-ls[i][1]),
			}
		}
		remaining -= seg
	}
	return ls[len(ls)-1]
}

// PointToSegment computes the distance in meters from point p to segment ab,
// and the projection ratio along ab (clamped to [0,1]).
// Works in an equirectangular projection around the segment's latitude,
// which is accurate at the sub-kilometer scales of road segments.
func PointToSegment(p, a, b orb.Point) (dist, ratio float64) {
	cosLat := math.Cos((a.Lat() + b.Lat()) / 2 * math.Pi / 180)

	// Approximate planar coordinates (degrees, longitude scaled).
	ax := a.Lon() * cosLat
	ay := a.Lat()
	bx := b.Lon() * cosLat
	by := b.Lat()
	px := p.Lon() * cosLat
	py := p.Lat()

	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		return orbgeo.DistanceHaversine(p, a), 0
	}

	// Project p onto line ab, clamp to [0,1].
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := orb.Point{
		a.Lon() + t*(b.Lon()-a.Lon()),
		a.Lat() + t*(b.Lat()-a.Lat()),
	}
	return orbgeo.DistanceHaversine(p, closest), t
}

// PointToLine projects p onto the polyline and returns the distance in
// meters to the closest point as well as that point's arc-length offset
// from the start of the polyline. The first of equally close segments wins.
func PointToLine(t Tool, p orb.Point, ls orb.LineString) (dist, offset float64) {
	dist = math.Inf(1)
	cum := 0.0
	for i := 0; i < len(ls)-1; i++ {
		segLen := t.Distance(ls[i], ls[i+1])
		d, ratio := PointToSegment(p, ls[i], ls[i+1])
		if d < dist {
			dist = d
			offset = cum + ratio*segLen
		}
		cum += segLen
	}
	return dist, offset
}
