package decoder

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/network"
	"openlr_decoder/pkg/openlr"
)

// Decode matches a line location reference onto the target map and
// returns one route per adjacent LRP pair; the concatenation of the
// routes is the decoded line location. The end candidate of each route
// is the start candidate of the next.
//
// observer and log may be nil. Decode holds no state between calls and
// does not mutate map data, so concurrent decodes against the same
// reader are safe.
func Decode(lrps []openlr.LocationReferencePoint, reader network.MapReader, gt geo.Tool, cfg Config, obs Observer, log *zap.SugaredLogger) ([]Route, error) {
	if len(lrps) < 2 {
		return nil, fmt.Errorf("%w: a line location reference needs at least two points, got %d", ErrDecodeFailed, len(lrps))
	}
	if obs == nil {
		obs = NoopObserver{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	first := lrps[0]
	candidates := NominateCandidates(first, reader, cfg, obs, false, gt, log)
	if len(candidates) == 0 {
		obs.OnNoCandidatesFound(first)
		return nil, fmt.Errorf("%w: no candidates found for point 0", ErrDecodeFailed)
	}
	obs.OnCandidatesFound(first, candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	m := &matcher{
		reader: reader,
		gt:     gt,
		cfg:    cfg,
		obs:    obs,
		log:    log,
		cache:  newResolveCache(),
	}
	return m.matchTail(0, first, candidates, lrps[1:])
}
