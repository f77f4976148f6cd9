package network_test

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/memmap"
	"openlr_decoder/pkg/network"
	"openlr_decoder/pkg/openlr"
)

const degPerMeter = 1 / 111319.49079327358

// pt places a point x meters east and y meters north of the origin,
// near the equator where both axes scale identically.
func pt(x, y float64) orb.Point {
	return orb.Point{x * degPerMeter, y * degPerMeter}
}

// buildChainMap creates a one-way chain with a long bypass:
//
//	1 --L1(500)--> 2 --L2(500)--> 3 --L3(500)--> 4
//	 \_________________L9(2000)_________________/
func buildChainMap(t *testing.T) *memmap.Map {
	t.Helper()
	edges := []memmap.Edge{
		{ID: 1, StartNodeID: 1, EndNodeID: 2, FRC: openlr.FRC3, FOW: openlr.FOWSingleCarriageway,
			Geometry: orb.LineString{pt(0, 0), pt(500, 0)}},
		{ID: 2, StartNodeID: 2, EndNodeID: 3, FRC: openlr.FRC3, FOW: openlr.FOWSingleCarriageway,
			Geometry: orb.LineString{pt(500, 0), pt(1000, 0)}},
		{ID: 3, StartNodeID: 3, EndNodeID: 4, FRC: openlr.FRC3, FOW: openlr.FOWSingleCarriageway,
			Geometry: orb.LineString{pt(1000, 0), pt(1500, 0)}},
		// Bypass via a northern arc, about 2000 m.
		{ID: 9, StartNodeID: 1, EndNodeID: 4, FRC: openlr.FRC1, FOW: openlr.FOWSingleCarriageway,
			Geometry: orb.LineString{pt(0, 0), pt(750, 660), pt(1500, 0)}},
	}
	m, err := memmap.NewMap(edges, geo.Spherical{})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

func node(t *testing.T, m *memmap.Map, id int64) network.Node {
	t.Helper()
	n, err := m.GetNode(id)
	if err != nil {
		t.Fatalf("GetNode(%d): %v", id, err)
	}
	return n
}

func lineIDs(path []network.Line) []int64 {
	ids := make([]int64, len(path))
	for i, l := range path {
		ids[i] = l.ID()
	}
	return ids
}

func TestShortestPathPrefersChain(t *testing.T) {
	m := buildChainMap(t)
	gt := geo.Spherical{}

	path, err := network.ShortestPath(node(t, m, 1), node(t, m, 4), gt, nil, 1e9)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}

	want := []int64{1, 2, 3}
	got := lineIDs(path)
	if len(got) != len(want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path = %v, want %v", got, want)
		}
	}
}

func TestShortestPathLineFilter(t *testing.T) {
	m := buildChainMap(t)
	gt := geo.Spherical{}

	// Excluding the FRC3 chain forces the longer bypass.
	filter := func(l network.Line) bool { return l.FRC() <= openlr.FRC2 }
	path, err := network.ShortestPath(node(t, m, 1), node(t, m, 4), gt, filter, 1e9)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if got := lineIDs(path); len(got) != 1 || got[0] != 9 {
		t.Fatalf("path = %v, want [9]", got)
	}
}

func TestShortestPathMaxLen(t *testing.T) {
	m := buildChainMap(t)
	gt := geo.Spherical{}

	_, err := network.ShortestPath(node(t, m, 1), node(t, m, 4), gt, nil, 1000)
	if !errors.Is(err, network.ErrPathNotFound) {
		t.Fatalf("err = %v, want ErrPathNotFound", err)
	}

	// The chain length itself still fits a 1600 m budget.
	if _, err := network.ShortestPath(node(t, m, 1), node(t, m, 4), gt, nil, 1600); err != nil {
		t.Fatalf("ShortestPath with sufficient budget: %v", err)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	m := buildChainMap(t)

	path, err := network.ShortestPath(node(t, m, 2), node(t, m, 2), geo.Spherical{}, nil, 1000)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(path) != 0 {
		t.Fatalf("path = %v, want empty", lineIDs(path))
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	m := buildChainMap(t)

	// The chain is one-way; there is no path backwards.
	_, err := network.ShortestPath(node(t, m, 4), node(t, m, 1), geo.Spherical{}, nil, 1e9)
	if !errors.Is(err, network.ErrPathNotFound) {
		t.Fatalf("err = %v, want ErrPathNotFound", err)
	}
}

// TestShortestPathDeterministicTie builds two geometrically identical
// parallel routes and checks repeated searches settle on the same one.
//
//	    /--L10--> 2 --L11--\
//	1 -+                    +-> 4
//	    \--L20--> 3 --L21--/
func TestShortestPathDeterministicTie(t *testing.T) {
	edges := []memmap.Edge{
		{ID: 10, StartNodeID: 1, EndNodeID: 2, FRC: openlr.FRC3, FOW: openlr.FOWSingleCarriageway,
			Geometry: orb.LineString{pt(0, 0), pt(500, 100)}},
		{ID: 11, StartNodeID: 2, EndNodeID: 4, FRC: openlr.FRC3, FOW: openlr.FOWSingleCarriageway,
			Geometry: orb.LineString{pt(500, 100), pt(1000, 0)}},
		{ID: 20, StartNodeID: 1, EndNodeID: 3, FRC: openlr.FRC3, FOW: openlr.FOWSingleCarriageway,
			Geometry: orb.LineString{pt(0, 0), pt(500, -100)}},
		{ID: 21, StartNodeID: 3, EndNodeID: 4, FRC: openlr.FRC3, FOW: openlr.FOWSingleCarriageway,
			Geometry: orb.LineString{pt(500, -100), pt(1000, 0)}},
	}
	m, err := memmap.NewMap(edges, geo.Spherical{})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	gt := geo.Spherical{}

	first, err := network.ShortestPath(node(t, m, 1), node(t, m, 4), gt, nil, 1e9)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	for range 10 {
		again, err := network.ShortestPath(node(t, m, 1), node(t, m, 4), gt, nil, 1e9)
		if err != nil {
			t.Fatalf("ShortestPath: %v", err)
		}
		if len(again) != len(first) || again[0].ID() != first[0].ID() || again[1].ID() != first[1].ID() {
			t.Fatalf("tie-break not deterministic: %v vs %v", lineIDs(again), lineIDs(first))
		}
	}
}
