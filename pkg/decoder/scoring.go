package decoder

import (
	"math"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/openlr"
)

// frcScoreSlope is the per-class penalty of the FRC sub-score: within
// two classes of difference the score stays positive, four or more
// classes contribute nothing.
const frcScoreSlope = 0.25

// ScoreLRPCandidate rates how well a projected point realizes an LRP.
// The result is a weighted sum of four sub-scores in [0,1]: geographic
// closeness, FRC closeness, FOW compatibility and bearing closeness.
func ScoreLRPCandidate(gt geo.Tool, lrp openlr.LocationReferencePoint, p PointOnLine, cfg Config, isLastLRP bool, obs Observer) float64 {
	parts := ScoreParts{
		Geo:     scoreGeo(gt, lrp, p, cfg.SearchRadius),
		FRC:     scoreFRC(lrp.FRC, p.Line.FRC()),
		FOW:     cfg.FOWWeights[lrp.FOW][p.Line.FOW()],
		Bearing: scoreBearing(gt, lrp, p, cfg, isLastLRP),
	}
	obs.OnCandidateScored(lrp, p, parts)

	w := cfg.ScoreWeights
	return w.Geo*parts.Geo + w.FRC*parts.FRC + w.FOW*parts.FOW + w.Bearing*parts.Bearing
}

// scoreGeo rates the distance between the LRP and its projection,
// relative to the search radius.
func scoreGeo(gt geo.Tool, lrp openlr.LocationReferencePoint, p PointOnLine, radius float64) float64 {
	dist := gt.Distance(Coords(lrp), p.Coordinate(gt))
	return math.Max(0, 1-dist/radius)
}

// scoreFRC rates the class difference between the expected and the
// actual road class.
func scoreFRC(wanted, actual openlr.FRC) float64 {
	diff := math.Abs(float64(wanted) - float64(actual))
	return math.Max(0, 1-frcScoreSlope*diff)
}

// scoreBearing rates the deviation between the candidate's bearing and
// the LRP's expected bearing, relative to the tolerated maximum.
func scoreBearing(gt geo.Tool, lrp openlr.LocationReferencePoint, p PointOnLine, cfg Config, isLastLRP bool) float64 {
	bearing := ComputeBearing(gt, p, isLastLRP, cfg.BearDist)
	diff := math.Abs(AngleDifference(bearing, lrp.Bearing))
	return math.Max(0, 1-diff/cfg.MaxBearDeviation)
}
