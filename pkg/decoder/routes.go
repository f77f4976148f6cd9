package decoder

import (
	"github.com/paulmach/orb"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/network"
)

// Route is a contiguous path between two candidates: a partial start
// line, zero or more full intermediate lines, and a partial end line.
// If both candidates lie on the same line, Path is empty and the route
// covers the span between the two offsets.
type Route struct {
	Start Candidate
	Path  []network.Line
	End   Candidate
}

// sameLine reports whether the route starts and ends on one line.
func (r Route) sameLine() bool {
	return r.Start.Line.ID() == r.End.Line.ID()
}

// Length returns the route's length in meters. For a same-line route
// this is the signed along-line distance between the two offsets; a
// wrong-direction pair yields a negative length and fails the DNP
// envelope instead of being silently accepted.
func (r Route) Length() float64 {
	if r.sameLine() {
		return r.End.DistanceFromStart() - r.Start.DistanceFromStart()
	}
	length := r.Start.DistanceToEnd() + r.End.DistanceFromStart()
	for _, line := range r.Path {
		length += line.Length()
	}
	return length
}

// Lines returns every line the route touches, in travel order.
func (r Route) Lines() []network.Line {
	if r.sameLine() {
		return []network.Line{r.Start.Line}
	}
	lines := make([]network.Line, 0, len(r.Path)+2)
	lines = append(lines, r.Start.Line)
	lines = append(lines, r.Path...)
	lines = append(lines, r.End.Line)
	return lines
}

// Geometry returns the route's polyline.
func (r Route) Geometry(gt geo.Tool) orb.LineString {
	if r.sameLine() {
		return lineSubstring(gt, r.Start.Line.Geometry(), r.Start.DistanceFromStart(), r.End.DistanceFromStart())
	}
	out := lineSubstring(gt, r.Start.Line.Geometry(), r.Start.DistanceFromStart(), r.Start.Line.Length())
	for _, line := range r.Path {
		out = appendDedup(out, line.Geometry())
	}
	out = appendDedup(out, lineSubstring(gt, r.End.Line.Geometry(), 0, r.End.DistanceFromStart()))
	return out
}

// Coordinates returns the concatenated geometry of a decoded location,
// with duplicate joint points removed.
func Coordinates(routes []Route, gt geo.Tool) orb.LineString {
	var out orb.LineString
	for _, r := range routes {
		out = appendDedup(out, r.Geometry(gt))
	}
	return out
}

// lineSubstring cuts the polyline between two arc-length offsets.
// Offsets are clamped to the line's extent; from must not exceed to.
func lineSubstring(gt geo.Tool, ls orb.LineString, from, to float64) orb.LineString {
	total := gt.LineLength(ls)
	if from < 0 {
		from = 0
	}
	if to > total {
		to = total
	}
	if to < from {
		to = from
	}

	out := orb.LineString{gt.Interpolate(ls, from)}
	cum := 0.0
	for i := 0; i < len(ls)-1; i++ {
		cum += gt.Distance(ls[i], ls[i+1])
		if cum > from && cum < to {
			out = append(out, ls[i+1])
		}
	}
	return append(out, gt.Interpolate(ls, to))
}

// appendDedup appends points to a polyline, skipping any point identical
// to the current tail.
func appendDedup(dst orb.LineString, src orb.LineString) orb.LineString {
	for _, p := range src {
		if n := len(dst); n > 0 && dst[n-1] == p {
			continue
		}
		dst = append(dst, p)
	}
	return dst
}
