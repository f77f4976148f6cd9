package decoder

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/network"
	"openlr_decoder/pkg/openlr"
)

// matcher carries the per-decode state of the tail matching search.
type matcher struct {
	reader network.MapReader
	gt     geo.Tool
	cfg    Config
	obs    Observer
	log    *zap.SugaredLogger
	cache  *resolveCache
}

// pairKey identifies an ordered candidate pair.
type pairKey struct {
	from candidateKey
	to   candidateKey
}

// tailKey identifies the whole-tail matching context when only a single
// candidate remains for an LRP. The LRP index uniquely identifies the
// position in the sequence within one decode.
type tailKey struct {
	lrpIndex  int
	candidate candidateKey
}

type tailEntry struct {
	routes []Route
	ok     bool
}

// resolveCache memoizes edge failures and single-candidate tail
// outcomes. It lives for exactly one decode call; sharing it across
// decodes would accumulate stale entries.
type resolveCache struct {
	failedPairs map[pairKey]struct{}
	tails       map[tailKey]tailEntry
}

func newResolveCache() *resolveCache {
	return &resolveCache{
		failedPairs: make(map[pairKey]struct{}),
		tails:       make(map[tailKey]tailEntry),
	}
}

// matchTail assembles the route between the current LRP and tail[0],
// then recurses for the remaining tail. candidates is non-empty and
// sorted by descending score; tail is non-empty.
//
// Pair failures are cached unconditionally. A full tail success or
// failure is cached only when a single candidate was available upstream:
// in that case the outcome holds regardless of choices made further up.
func (m *matcher) matchTail(index int, current openlr.LocationReferencePoint, candidates []Candidate, tail []openlr.LocationReferencePoint) ([]Route, error) {
	if len(candidates) == 1 {
		key := tailKey{lrpIndex: index, candidate: keyOf(candidates[0])}
		if entry, ok := m.cache.tails[key]; ok {
			if !entry.ok {
				return nil, fmt.Errorf("%w: no candidates left or available", ErrDecodeFailed)
			}
			m.log.Debugf("returning cached tail for point %d", index)
			return entry.routes, nil
		}
	}

	lastLRP := len(tail) == 1
	// The accepted distance to next point. This helps to save
	// computations and filter bad paths.
	minLen := (1-m.cfg.MaxDNPDeviation)*current.DNP - m.cfg.ToleratedDNPDev
	maxLen := (1+m.cfg.MaxDNPDeviation)*current.DNP + m.cfg.ToleratedDNPDev
	lfrc := m.cfg.ToleratedLFRC[current.LFRCNP]

	nextLRP := tail[0]
	nextCandidates := NominateCandidates(nextLRP, m.reader, m.cfg, m.obs, lastLRP, m.gt, m.log)
	if len(nextCandidates) == 0 {
		m.obs.OnNoCandidatesFound(nextLRP)
		m.log.Debugf("no candidates found for point %d", index+1)
		return nil, fmt.Errorf("%w: no candidates found for point %d", ErrDecodeFailed, index+1)
	}
	m.obs.OnCandidatesFound(nextLRP, nextCandidates)

	// All ordered pairs, best summed score first. The sort is stable, so
	// ties keep the nomination order and decoding stays deterministic.
	type pair struct{ from, to Candidate }
	pairs := make([]pair, 0, len(candidates)*len(nextCandidates))
	for _, from := range candidates {
		for _, to := range nextCandidates {
			pairs = append(pairs, pair{from, to})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].from.Score+pairs[i].to.Score > pairs[j].from.Score+pairs[j].to.Score
	})

	for _, p := range pairs {
		pk := pairKey{from: keyOf(p.from), to: keyOf(p.to)}
		if _, failed := m.cache.failedPairs[pk]; failed {
			continue
		}

		route := m.handleCandidatePair(current, nextLRP, p.from, p.to, lfrc, minLen, maxLen)
		if route == nil {
			m.cache.failedPairs[pk] = struct{}{}
			continue
		}
		if lastLRP {
			return []Route{*route}, nil
		}

		sub, err := m.matchTail(index+1, nextLRP, []Candidate{p.to}, tail[1:])
		if err != nil {
			// The pair stays uncached: its edge is still viable for a
			// different upstream choice.
			m.log.Debugf("recursive call to resolve remaining path had no success")
			continue
		}
		full := append([]Route{*route}, sub...)
		if len(candidates) == 1 {
			m.cache.tails[tailKey{lrpIndex: index, candidate: keyOf(candidates[0])}] = tailEntry{routes: full, ok: true}
		}
		return full, nil
	}

	m.obs.OnMatchingFail(current, nextLRP, candidates, nextCandidates, "no candidate pair matches")
	if len(candidates) == 1 {
		m.cache.tails[tailKey{lrpIndex: index, candidate: keyOf(candidates[0])}] = tailEntry{}
	}
	return nil, fmt.Errorf("%w: no candidate pair between points %d and %d matches", ErrDecodeFailed, index, index+1)
}
