package decoder

import (
	"math"

	"github.com/paulmach/orb"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/network"
	"openlr_decoder/pkg/openlr"
)

// Coords returns the geographic position of an LRP.
func Coords(lrp openlr.LocationReferencePoint) orb.Point {
	return orb.Point{lrp.Lon, lrp.Lat}
}

// Project projects a point onto a line and returns the closest position
// on it as a relative offset.
func Project(gt geo.Tool, line network.Line, p orb.Point) PointOnLine {
	_, offset := geo.PointToLine(gt, p, line.Geometry())
	rel := 0.0
	if length := line.Length(); length > 0 {
		rel = offset / length
	}
	if rel < 0 {
		rel = 0
	} else if rel > 1 {
		rel = 1
	}
	return PointOnLine{Line: line, RelativeOffset: rel}
}

// ComputeBearing returns the bearing of the line as seen from the point,
// measured over bearDist meters in the direction of travel. For a
// non-terminal LRP travel runs toward the end node; for the terminal LRP
// the bearing points toward the candidate from bearDist meters upstream.
func ComputeBearing(gt geo.Tool, p PointOnLine, isLastLRP bool, bearDist float64) float64 {
	ls := p.Line.Geometry()
	d := p.DistanceFromStart()
	if !isLastLRP {
		ahead := math.Min(d+bearDist, p.Line.Length())
		return gt.Bearing(gt.Interpolate(ls, d), gt.Interpolate(ls, ahead))
	}
	behind := math.Max(d-bearDist, 0)
	return gt.Bearing(gt.Interpolate(ls, behind), gt.Interpolate(ls, d))
}

// AngleDifference returns the signed shortest angular distance between
// two bearings, in (-180, 180].
func AngleDifference(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}
