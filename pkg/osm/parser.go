// Package osm loads a road network suitable for location decoding from
// an OpenStreetMap PBF extract.
package osm

import (
	"context"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"

	"openlr_decoder/pkg/memmap"
	"openlr_decoder/pkg/openlr"
)

// highwayClass maps an OSM highway tag value onto the OpenLR functional
// road class and form of way. Link roads take the FRC of their parent
// class with a slip-road form of way.
var highwayClass = map[string]struct {
	frc openlr.FRC
	fow openlr.FOW
}{
	"motorway":       {openlr.FRC0, openlr.FOWMotorway},
	"motorway_link":  {openlr.FRC0, openlr.FOWSlipRoad},
	"trunk":          {openlr.FRC1, openlr.FOWMultipleCarriageway},
	"trunk_link":     {openlr.FRC1, openlr.FOWSlipRoad},
	"primary":        {openlr.FRC2, openlr.FOWSingleCarriageway},
	"primary_link":   {openlr.FRC2, openlr.FOWSlipRoad},
	"secondary":      {openlr.FRC3, openlr.FOWSingleCarriageway},
	"secondary_link": {openlr.FRC3, openlr.FOWSlipRoad},
	"tertiary":       {openlr.FRC4, openlr.FOWSingleCarriageway},
	"tertiary_link":  {openlr.FRC4, openlr.FOWSlipRoad},
	"unclassified":   {openlr.FRC5, openlr.FOWSingleCarriageway},
	"residential":    {openlr.FRC5, openlr.FOWSingleCarriageway},
	"living_street":  {openlr.FRC6, openlr.FOWSingleCarriageway},
	"service":        {openlr.FRC7, openlr.FOWOther},
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	if _, ok := highwayClass[tags.Find("highway")]; !ok {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	// Skip restricted access.
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}

	return true
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	// Default: bidirectional.
	forward = true
	backward = true

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	// Explicit oneway tag overrides.
	oneway := tags.Find("oneway")
	switch oneway {
	case "yes", "true", "1":
		forward = true
		backward = false
	case "-1", "reverse":
		forward = false
		backward = true
	case "no":
		forward = true
		backward = true
	case "reversible":
		// Time-dependent — skip entirely.
		forward = false
		backward = false
	}

	return forward, backward
}

// classify returns the FRC and FOW of a way, with the roundabout form
// overriding the highway-derived one.
func classify(tags osm.Tags) (openlr.FRC, openlr.FOW) {
	class := highwayClass[tags.Find("highway")]
	if tags.Find("junction") == "roundabout" {
		return class.frc, openlr.FOWRoundabout
	}
	return class.frc, class.fow
}

// wayInfo holds parsed way data collected during pass 1.
type wayInfo struct {
	NodeIDs  []osm.NodeID
	FRC      openlr.FRC
	FOW      openlr.FOW
	Forward  bool
	Backward bool
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only lines with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(p orb.Point) bool {
	return p.Lat() >= b.MinLat && p.Lat() <= b.MaxLat && p.Lon() >= b.MinLng && p.Lon() <= b.MaxLng
}

// ParseOptions configures the OSM loader.
type ParseOptions struct {
	BBox BBox // if non-zero, filter lines to this bounding box
}

// Parse reads an OSM PBF file and returns the directed lines of the road
// network. Ways are cut at junction nodes (nodes shared between ways and
// way endpoints), so one line spans exactly one stretch between
// junctions and keeps the intermediate shape points as geometry.
// Bidirectional ways yield a second line with negated ID and reversed
// geometry. The reader is consumed twice (seeks back to start for the
// second pass), so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, log *zap.SugaredLogger, opts ...ParseOptions) ([]memmap.Edge, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	// Pass 1: scan ways to collect way info and per-node usage counts.
	// A node used by more than one way, or ending a way, is a junction.
	nodeUses := make(map[osm.NodeID]int)
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		w, ok := obj.(*osm.Way)
		if !ok {
			continue
		}

		if !isCarAccessible(w.Tags) {
			continue
		}

		if len(w.Nodes) < 2 {
			continue
		}

		fwd, bwd := directionFlags(w.Tags)
		if !fwd && !bwd {
			continue
		}

		frc, fow := classify(w.Tags)

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			nodeUses[wn.ID]++
		}
		// Way endpoints always cut, whatever their use count.
		nodeUses[nodeIDs[0]]++
		nodeUses[nodeIDs[len(nodeIDs)-1]]++

		ways = append(ways, wayInfo{
			NodeIDs:  nodeIDs,
			FRC:      frc,
			FOW:      fow,
			Forward:  fwd,
			Backward: bwd,
		})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Infof("pass 1 complete: %d ways, %d referenced nodes", len(ways), len(nodeUses))

	// Pass 2: scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	coords := make(map[osm.NodeID]orb.Point, len(nodeUses))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		n, ok := obj.(*osm.Node)
		if !ok {
			continue
		}

		if _, needed := nodeUses[n.ID]; !needed {
			continue
		}

		coords[n.ID] = orb.Point{n.Lon, n.Lat}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Infof("pass 2 complete: %d node coordinates collected", len(coords))

	edges, skipped, filtered := assembleEdges(ways, nodeUses, coords, opt)

	if skipped > 0 {
		log.Warnf("skipped %d ways or segments with missing or degenerate geometry", skipped)
	}
	if filtered > 0 {
		log.Infof("filtered %d lines outside bounding box", filtered)
	}
	log.Infof("built %d directed lines", len(edges))

	return edges, nil
}

// assembleEdges cuts ways at junction nodes and emits one directed edge
// per cut and direction.
func assembleEdges(ways []wayInfo, nodeUses map[osm.NodeID]int, coords map[osm.NodeID]orb.Point, opt ParseOptions) (edges []memmap.Edge, skipped, filtered int) {
	useBBox := !opt.BBox.IsZero()
	var nextID int64

	for _, w := range ways {
		segStart := 0
		var geom orb.LineString

		flush := func(endIdx int) {
			if len(geom) < 2 {
				skipped++
				return
			}
			from := int64(w.NodeIDs[segStart])
			to := int64(w.NodeIDs[endIdx])

			// Bounding box filter: skip lines with either endpoint outside.
			if useBBox && (!opt.BBox.Contains(geom[0]) || !opt.BBox.Contains(geom[len(geom)-1])) {
				filtered++
				return
			}

			nextID++
			if w.Forward {
				edges = append(edges, memmap.Edge{
					ID:          nextID,
					StartNodeID: from,
					EndNodeID:   to,
					FRC:         w.FRC,
					FOW:         w.FOW,
					Geometry:    geom,
				})
			}
			if w.Backward {
				reversed := make(orb.LineString, len(geom))
				for i, p := range geom {
					reversed[len(geom)-1-i] = p
				}
				edges = append(edges, memmap.Edge{
					ID:          -nextID,
					StartNodeID: to,
					EndNodeID:   from,
					FRC:         w.FRC,
					FOW:         w.FOW,
					Geometry:    reversed,
				})
			}
		}

		complete := true
		for i, nid := range w.NodeIDs {
			pt, ok := coords[nid]
			if !ok {
				complete = false
				break
			}
			// Duplicate consecutive nodes contribute no geometry.
			if n := len(geom); n == 0 || geom[n-1] != pt {
				geom = append(geom, pt)
			}
			if i > segStart && (i == len(w.NodeIDs)-1 || nodeUses[nid] > 1) {
				flush(i)
				segStart = i
				geom = orb.LineString{pt}
			}
		}
		if !complete {
			skipped++
		}
	}

	return edges, skipped, filtered
}
