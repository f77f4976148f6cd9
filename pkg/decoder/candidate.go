package decoder

import (
	"github.com/paulmach/orb"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/network"
)

// PointOnLine is a position on a map line, expressed as the fraction of
// the line's length from its start node.
type PointOnLine struct {
	Line           network.Line
	RelativeOffset float64
}

// DistanceFromStart returns the arc length in meters from the line's
// start node to the point.
func (p PointOnLine) DistanceFromStart() float64 {
	return p.RelativeOffset * p.Line.Length()
}

// DistanceToEnd returns the arc length in meters from the point to the
// line's end node.
func (p PointOnLine) DistanceToEnd() float64 {
	return (1 - p.RelativeOffset) * p.Line.Length()
}

// Coordinate returns the geographic position of the point.
func (p PointOnLine) Coordinate(gt geo.Tool) orb.Point {
	return gt.Interpolate(p.Line.Geometry(), p.DistanceFromStart())
}

// Candidate is a scored projection of an LRP onto a map line. The score
// is in [0,1] and is set before the candidate is exposed to callers.
type Candidate struct {
	PointOnLine
	Score float64
}

// candidateKey identifies a candidate for caching and adjacency checks:
// two candidates are the same iff they lie on the same line at the same
// relative offset.
type candidateKey struct {
	line   int64
	offset float64
}

func keyOf(c Candidate) candidateKey {
	return candidateKey{line: c.Line.ID(), offset: c.RelativeOffset}
}
