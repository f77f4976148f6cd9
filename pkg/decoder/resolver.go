package decoder

import (
	"errors"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/network"
	"openlr_decoder/pkg/openlr"
)

// GetCandidateRoute returns the shortest admissible route between two
// candidates, or nil if none exists. Lines with an FRC above lfrc are
// ignored; paths longer than maxLen are treated as nonexistent.
//
// If both candidates lie on the same line the route collapses to the
// span between the two offsets without touching the path search; the
// matcher relies on this to handle short hops that do not cross a node.
func GetCandidateRoute(start, dest Candidate, lfrc openlr.FRC, maxLen float64, gt geo.Tool) *Route {
	if start.Line.ID() == dest.Line.ID() {
		return &Route{Start: start, End: dest}
	}

	path, err := network.ShortestPath(
		start.Line.EndNode(),
		dest.Line.StartNode(),
		gt,
		func(line network.Line) bool { return line.FRC() <= lfrc },
		maxLen,
	)
	if errors.Is(err, network.ErrPathNotFound) {
		return nil
	}
	return &Route{Start: start, Path: path, End: dest}
}

// handleCandidatePair tries to find an adequate route between two LRP
// candidates. A route is adequate if it exists under the FRC filter and
// its length falls inside the DNP envelope [minLen, maxLen].
func (m *matcher) handleCandidatePair(from, to openlr.LocationReferencePoint, source, dest Candidate, lfrc openlr.FRC, minLen, maxLen float64) *Route {
	route := GetCandidateRoute(source, dest, lfrc, maxLen, m.gt)
	if route == nil {
		m.log.Debugf("no path between lines %d and %d", source.Line.ID(), dest.Line.ID())
		m.obs.OnRouteFail(from, to, source, dest, "no path for candidate found")
		return nil
	}

	m.obs.OnRouteSuccess(from, to, source, dest, *route)

	length := route.Length()
	m.log.Debugf("dnp should be %.1fm, is %.1fm", from.DNP, length)
	if length < minLen || length > maxLen {
		m.log.Debugf("shortest path deviation from dnp is too large")
		m.obs.OnRouteFailLength(from, to, source, dest, *route, length, minLen, maxLen)
		m.obs.OnRouteFail(from, to, source, dest, "shortest path deviation from dnp is too large")
		return nil
	}
	return route
}
