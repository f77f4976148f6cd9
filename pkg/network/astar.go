package network

import (
	"errors"

	"openlr_decoder/pkg/geo"
)

// ErrPathNotFound is returned when no admissible path exists between the
// two nodes within the length cutoff.
var ErrPathNotFound = errors.New("no path found")

// ShortestPath runs an A* search from source to target and returns the
// lines of the shortest path. The great-circle distance to the target is
// the heuristic; it lower-bounds any ground-surface path, so the search
// is admissible. Lines for which filter returns false are not expanded,
// and paths longer than maxLen are pruned. If source and target are the
// same node, the empty path is returned.
//
// Nodes with equal f are expanded in insertion order, so results are
// deterministic for a fixed map.
func ShortestPath(source, target Node, gt geo.Tool, filter func(Line) bool, maxLen float64) ([]Line, error) {
	if source.ID() == target.ID() {
		return nil, nil
	}

	targetPt := target.Coordinate()
	h := func(n Node) float64 {
		return gt.Distance(n.Coordinate(), targetPt)
	}

	gScore := map[int64]float64{source.ID(): 0}
	cameBy := map[int64]Line{} // line used to reach a node
	settled := map[int64]bool{}

	var frontier minHeap
	frontier.push(source, h(source))

	for frontier.len() > 0 {
		item := frontier.pop()
		u := item.node
		uid := u.ID()
		if item.f > maxLen {
			// The heap is keyed by f, so every remaining entry is
			// at least as long.
			break
		}
		if settled[uid] {
			continue
		}
		settled[uid] = true

		if uid == target.ID() {
			return reconstruct(cameBy, source, target), nil
		}

		for _, line := range u.OutgoingLines() {
			if filter != nil && !filter(line) {
				continue
			}
			tentative := gScore[uid] + line.Length()
			if tentative > maxLen {
				continue
			}
			v := line.EndNode()
			vid := v.ID()
			if old, ok := gScore[vid]; ok && old <= tentative {
				continue
			}
			gScore[vid] = tentative
			cameBy[vid] = line
			frontier.push(v, tentative+h(v))
		}
	}

	return nil, ErrPathNotFound
}

// reconstruct walks the cameBy chain back from target and returns the
// path lines in travel order.
func reconstruct(cameBy map[int64]Line, source, target Node) []Line {
	var path []Line
	node := target
	for node.ID() != source.ID() {
		line := cameBy[node.ID()]
		path = append(path, line)
		node = line.StartNode()
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// pqItem is a priority queue entry. seq breaks ties FIFO on equal f.
type pqItem struct {
	node Node
	f    float64
	seq  uint64
}

// minHeap is a concrete-typed min-heap for the A* frontier.
// Avoids interface boxing overhead of container/heap.
type minHeap struct {
	items []pqItem
	seq   uint64
}

func (h *minHeap) len() int { return len(h.items) }

func (h *minHeap) push(node Node, f float64) {
	h.seq++
	h.items = append(h.items, pqItem{node, f, h.seq})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) pop() pqItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *minHeap) less(i, j int) bool {
	if h.items[i].f != h.items[j].f {
		return h.items[i].f < h.items[j].f
	}
	return h.items[i].seq < h.items[j].seq
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
