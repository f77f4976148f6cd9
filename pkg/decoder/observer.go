package decoder

import (
	"openlr_decoder/pkg/openlr"
)

// ScoreParts are the individual sub-scores of a candidate before
// weighting.
type ScoreParts struct {
	Geo     float64
	FRC     float64
	FOW     float64
	Bearing float64
}

// Observer receives trace events during one decode call. All events are
// informational; implementations may ignore any of them. The decoder
// calls the observer only from the decoding goroutine.
type Observer interface {
	// OnCandidateFound is called for every admitted candidate.
	OnCandidateFound(lrp openlr.LocationReferencePoint, candidate Candidate)
	// OnCandidateRejectedFRC is called when a line's FRC exceeds the
	// tolerated maximum.
	OnCandidateRejectedFRC(lrp openlr.LocationReferencePoint, candidate Candidate, maxFRC openlr.FRC)
	// OnCandidateRejectedBearing is called when the bearing deviation
	// exceeds the gate.
	OnCandidateRejectedBearing(lrp openlr.LocationReferencePoint, candidate Candidate, bearing, diff, maxDeviation float64)
	// OnCandidateRejected is called when a candidate scores below the
	// minimum.
	OnCandidateRejected(lrp openlr.LocationReferencePoint, candidate Candidate, reason string)
	// OnCandidateScored reports the sub-scores of a candidate.
	OnCandidateScored(lrp openlr.LocationReferencePoint, candidate PointOnLine, parts ScoreParts)
	// OnCandidatesFound is called with all candidates nominated for an LRP.
	OnCandidatesFound(lrp openlr.LocationReferencePoint, candidates []Candidate)
	// OnNoCandidatesFound is called when an LRP has no admissible candidates.
	OnNoCandidatesFound(lrp openlr.LocationReferencePoint)
	// OnRouteSuccess is called when a path between two candidates is found.
	OnRouteSuccess(from, to openlr.LocationReferencePoint, source, dest Candidate, route Route)
	// OnRouteFail is called when a candidate pair yields no usable route.
	OnRouteFail(from, to openlr.LocationReferencePoint, source, dest Candidate, reason string)
	// OnRouteFailLength is called when a found route falls outside the
	// DNP envelope.
	OnRouteFailLength(from, to openlr.LocationReferencePoint, source, dest Candidate, route Route, length, minLen, maxLen float64)
	// OnMatchingFail is called when no candidate pair between two LRPs
	// can be assembled into the route.
	OnMatchingFail(from, to openlr.LocationReferencePoint, candidates, nextCandidates []Candidate, reason string)
}

// NoopObserver ignores every event. Embed it to implement only the
// events of interest.
type NoopObserver struct{}

func (NoopObserver) OnCandidateFound(openlr.LocationReferencePoint, Candidate) {}
func (NoopObserver) OnCandidateRejectedFRC(openlr.LocationReferencePoint, Candidate, openlr.FRC) {
}
func (NoopObserver) OnCandidateRejectedBearing(openlr.LocationReferencePoint, Candidate, float64, float64, float64) {
}
func (NoopObserver) OnCandidateRejected(openlr.LocationReferencePoint, Candidate, string) {}
func (NoopObserver) OnCandidateScored(openlr.LocationReferencePoint, PointOnLine, ScoreParts) {
}
func (NoopObserver) OnCandidatesFound(openlr.LocationReferencePoint, []Candidate) {}
func (NoopObserver) OnNoCandidatesFound(openlr.LocationReferencePoint)            {}
func (NoopObserver) OnRouteSuccess(openlr.LocationReferencePoint, openlr.LocationReferencePoint, Candidate, Candidate, Route) {
}
func (NoopObserver) OnRouteFail(openlr.LocationReferencePoint, openlr.LocationReferencePoint, Candidate, Candidate, string) {
}
func (NoopObserver) OnRouteFailLength(openlr.LocationReferencePoint, openlr.LocationReferencePoint, Candidate, Candidate, Route, float64, float64, float64) {
}
func (NoopObserver) OnMatchingFail(openlr.LocationReferencePoint, openlr.LocationReferencePoint, []Candidate, []Candidate, string) {
}
