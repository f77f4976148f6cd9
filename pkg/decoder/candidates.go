package decoder

import (
	"math"

	"go.uber.org/zap"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/network"
	"openlr_decoder/pkg/openlr"
)

// NominateCandidates yields the scored candidates for one LRP: every
// line within the search radius is projected and run through the
// admission checks. The result is unsorted; callers sort on score.
func NominateCandidates(lrp openlr.LocationReferencePoint, reader network.MapReader, cfg Config, obs Observer, isLastLRP bool, gt geo.Tool, log *zap.SugaredLogger) []Candidate {
	if obs == nil {
		obs = NoopObserver{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	point := Coords(lrp)
	log.Debugf("finding candidates around %v in radius %.1fm", point, cfg.SearchRadius)

	var candidates []Candidate
	for _, line := range reader.FindLinesCloseTo(point, cfg.SearchRadius) {
		if c, ok := makeCandidate(lrp, line, cfg, obs, isLastLRP, gt, log); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// makeCandidate projects the LRP onto one line and applies the admission
// policy. It returns at most one candidate.
func makeCandidate(lrp openlr.LocationReferencePoint, line network.Line, cfg Config, obs Observer, isLastLRP bool, gt geo.Tool, log *zap.SugaredLogger) (Candidate, bool) {
	// A line of length zero cannot carry a partial route; its adjacent
	// lines are nominated instead.
	if line.Length() == 0 {
		return Candidate{}, false
	}

	pol := Project(gt, line, Coords(lrp))

	// Snap to the relevant end of the line, but only onto nodes that are
	// real junctions: a projection near a shared valid junction must
	// produce exactly one candidate, on the line leaving (or, for the
	// last LRP, entering) the junction. The neighbor line yields the
	// better, snapped candidate; the one ending there is discarded.
	if !isLastLRP {
		if pol.DistanceFromStart() <= cfg.CandidateThreshold && IsValidNode(line.StartNode()) {
			pol.RelativeOffset = 0
		} else if pol.DistanceToEnd() <= cfg.CandidateThreshold && IsValidNode(line.EndNode()) {
			return Candidate{}, false
		}
	} else {
		if pol.DistanceToEnd() <= cfg.CandidateThreshold && IsValidNode(line.EndNode()) {
			pol.RelativeOffset = 1
		} else if pol.DistanceFromStart() <= cfg.CandidateThreshold && IsValidNode(line.StartNode()) {
			return Candidate{}, false
		}
	}

	// A non-last LRP needs a forward remainder, the last LRP a backward
	// prefix.
	if isLastLRP && pol.RelativeOffset <= 0 || !isLastLRP && pol.RelativeOffset >= 1 {
		return Candidate{}, false
	}

	maxFRC := cfg.ToleratedLFRC[lrp.LFRCNP]
	if line.FRC() > maxFRC {
		log.Debugf("rejecting line %d: frc %s above tolerated %s", line.ID(), line.FRC(), maxFRC)
		obs.OnCandidateRejectedFRC(lrp, Candidate{PointOnLine: pol}, maxFRC)
		return Candidate{}, false
	}

	bearing := ComputeBearing(gt, pol, isLastLRP, cfg.BearDist)
	diff := AngleDifference(bearing, lrp.Bearing)
	if math.Abs(diff) > cfg.MaxBearDeviation {
		log.Debugf("rejecting line %d: bearing difference %.1f° (bear %.1f°, lrp bear %.1f°)",
			line.ID(), diff, bearing, lrp.Bearing)
		obs.OnCandidateRejectedBearing(lrp, Candidate{PointOnLine: pol}, bearing, diff, cfg.MaxBearDeviation)
		return Candidate{}, false
	}

	candidate := Candidate{
		PointOnLine: pol,
		Score:       ScoreLRPCandidate(gt, lrp, pol, cfg, isLastLRP, obs),
	}
	if candidate.Score < cfg.MinScore {
		log.Debugf("rejecting line %d: score %.3f below minimum %.3f", line.ID(), candidate.Score, cfg.MinScore)
		obs.OnCandidateRejected(lrp, candidate, "score below minimum")
		return Candidate{}, false
	}

	obs.OnCandidateFound(lrp, candidate)
	return candidate, true
}
