// Package memmap provides an in-memory road network implementing the
// decoder's MapReader, with an R-tree spatial index and a binary
// snapshot format for fast loading.
package memmap

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/network"
	"openlr_decoder/pkg/openlr"
)

// metersPerDegreeLat converts a search radius to a latitude padding for
// bounding-box queries.
const metersPerDegreeLat = 111_320.0

// Edge is the raw input to the map builder: one directed line between
// two externally identified nodes. Geometry includes both endpoints.
type Edge struct {
	ID          int64
	StartNodeID int64
	EndNodeID   int64
	FRC         openlr.FRC
	FOW         openlr.FOW
	Geometry    orb.LineString
}

type nodeRec struct {
	id       int64
	pt       orb.Point
	incoming []int32
	outgoing []int32
}

type lineRec struct {
	id     int64
	start  int32
	end    int32
	frc    openlr.FRC
	fow    openlr.FOW
	length float64
	geom   orb.LineString
}

// Map is an immutable in-memory road network. It implements
// network.MapReader and is safe for concurrent reads.
type Map struct {
	gt      geo.Tool
	nodes   []nodeRec
	lines   []lineRec
	nodeIdx map[int64]int32
	lineIdx map[int64]int32
	tree    rtree.RTree
}

// NewMap builds a Map from raw edges. Node coordinates are taken from
// the edge geometry endpoints. Edges with duplicate IDs or fewer than
// two geometry points are rejected.
func NewMap(edges []Edge, gt geo.Tool) (*Map, error) {
	m := &Map{
		gt:      gt,
		nodeIdx: make(map[int64]int32),
		lineIdx: make(map[int64]int32, len(edges)),
	}

	addNode := func(id int64, pt orb.Point) int32 {
		if idx, ok := m.nodeIdx[id]; ok {
			return idx
		}
		idx := int32(len(m.nodes))
		m.nodeIdx[id] = idx
		m.nodes = append(m.nodes, nodeRec{id: id, pt: pt})
		return idx
	}

	for _, e := range edges {
		if len(e.Geometry) < 2 {
			return nil, fmt.Errorf("line %d: geometry needs at least two points, got %d", e.ID, len(e.Geometry))
		}
		if _, dup := m.lineIdx[e.ID]; dup {
			return nil, fmt.Errorf("duplicate line id %d", e.ID)
		}

		start := addNode(e.StartNodeID, e.Geometry[0])
		end := addNode(e.EndNodeID, e.Geometry[len(e.Geometry)-1])

		idx := int32(len(m.lines))
		m.lineIdx[e.ID] = idx
		m.lines = append(m.lines, lineRec{
			id:     e.ID,
			start:  start,
			end:    end,
			frc:    e.FRC,
			fow:    e.FOW,
			length: gt.LineLength(e.Geometry),
			geom:   e.Geometry,
		})
		m.nodes[start].outgoing = append(m.nodes[start].outgoing, idx)
		m.nodes[end].incoming = append(m.nodes[end].incoming, idx)

		b := e.Geometry.Bound()
		m.tree.Insert([2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]}, idx)
	}

	return m, nil
}

// NumNodes returns the number of nodes in the map.
func (m *Map) NumNodes() int { return len(m.nodes) }

// NumLines returns the number of directed lines in the map.
func (m *Map) NumLines() int { return len(m.lines) }

// FindLinesCloseTo returns all lines whose polyline comes within radius
// meters of p, ordered by ascending line ID. The R-tree narrows the
// search to bounding-box matches; candidates are then filtered by exact
// point-to-polyline distance.
func (m *Map) FindLinesCloseTo(p orb.Point, radius float64) []network.Line {
	padLat := radius / metersPerDegreeLat
	cosLat := math.Cos(p.Lat() * math.Pi / 180)
	padLon := padLat
	if cosLat > 1e-6 {
		padLon = padLat / cosLat
	}
	min := [2]float64{p.Lon() - padLon, p.Lat() - padLat}
	max := [2]float64{p.Lon() + padLon, p.Lat() + padLat}

	var idxs []int32
	m.tree.Search(min, max, func(_, _ [2]float64, value interface{}) bool {
		idxs = append(idxs, value.(int32))
		return true
	})

	var result []network.Line
	for _, idx := range idxs {
		dist, _ := geo.PointToLine(m.gt, p, m.lines[idx].geom)
		if dist <= radius {
			result = append(result, mapLine{m: m, idx: idx})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// GetLine returns the line with the given ID.
func (m *Map) GetLine(id int64) (network.Line, error) {
	idx, ok := m.lineIdx[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", network.ErrLineNotFound, id)
	}
	return mapLine{m: m, idx: idx}, nil
}

// GetNode returns the node with the given ID.
func (m *Map) GetNode(id int64) (network.Node, error) {
	idx, ok := m.nodeIdx[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", network.ErrNodeNotFound, id)
	}
	return mapNode{m: m, idx: idx}, nil
}

// mapLine implements network.Line as a view into the map's line table.
type mapLine struct {
	m   *Map
	idx int32
}

func (l mapLine) ID() int64                { return l.m.lines[l.idx].id }
func (l mapLine) StartNode() network.Node  { return mapNode{m: l.m, idx: l.m.lines[l.idx].start} }
func (l mapLine) EndNode() network.Node    { return mapNode{m: l.m, idx: l.m.lines[l.idx].end} }
func (l mapLine) Geometry() orb.LineString { return l.m.lines[l.idx].geom }
func (l mapLine) Length() float64          { return l.m.lines[l.idx].length }
func (l mapLine) FRC() openlr.FRC          { return l.m.lines[l.idx].frc }
func (l mapLine) FOW() openlr.FOW          { return l.m.lines[l.idx].fow }

// mapNode implements network.Node as a view into the map's node table.
type mapNode struct {
	m   *Map
	idx int32
}

func (n mapNode) ID() int64             { return n.m.nodes[n.idx].id }
func (n mapNode) Coordinate() orb.Point { return n.m.nodes[n.idx].pt }

func (n mapNode) IncomingLines() []network.Line {
	return n.m.lineViews(n.m.nodes[n.idx].incoming)
}

func (n mapNode) OutgoingLines() []network.Line {
	return n.m.lineViews(n.m.nodes[n.idx].outgoing)
}

func (m *Map) lineViews(idxs []int32) []network.Line {
	lines := make([]network.Line, len(idxs))
	for i, idx := range idxs {
		lines[i] = mapLine{m: m, idx: idx}
	}
	return lines
}
