package memmap

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	if !uf.Union(0, 1) {
		t.Error("Union(0,1) = false, want true")
	}
	if !uf.Union(1, 2) {
		t.Error("Union(1,2) = false, want true")
	}
	if uf.Union(0, 2) {
		t.Error("Union(0,2) = true, want false (already joined)")
	}
	if uf.Find(0) != uf.Find(2) {
		t.Error("0 and 2 should share a representative")
	}
	if uf.Find(3) == uf.Find(0) {
		t.Error("3 should be in its own set")
	}
}

// TestLargestComponent joins a 3-line loop with a disconnected 1-line
// fragment and expects the fragment to be dropped.
func TestLargestComponent(t *testing.T) {
	edges := []Edge{
		{ID: 1, StartNodeID: 1, EndNodeID: 2, Geometry: orb.LineString{pt(0, 0), pt(100, 0)}},
		{ID: 2, StartNodeID: 2, EndNodeID: 3, Geometry: orb.LineString{pt(100, 0), pt(200, 0)}},
		{ID: 3, StartNodeID: 3, EndNodeID: 1, Geometry: orb.LineString{pt(200, 0), pt(0, 0)}},
		// Disconnected fragment far away.
		{ID: 4, StartNodeID: 10, EndNodeID: 11, Geometry: orb.LineString{pt(5000, 0), pt(5100, 0)}},
	}

	kept := LargestComponent(edges)
	if len(kept) != 3 {
		t.Fatalf("kept %d edges, want 3", len(kept))
	}
	for _, e := range kept {
		if e.ID == 4 {
			t.Error("fragment edge 4 should have been dropped")
		}
	}
}

func TestLargestComponentEmpty(t *testing.T) {
	if kept := LargestComponent(nil); kept != nil {
		t.Errorf("LargestComponent(nil) = %v, want nil", kept)
	}
}
