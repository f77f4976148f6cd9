package memmap

// UnionFind implements a disjoint-set data structure with path halving
// and union by rank.
type UnionFind struct {
	parent []int32
	rank   []byte // byte is sufficient — max rank ~30 for realistic networks
	size   []int32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n int32) *UnionFind {
	parent := make([]int32, n)
	size := make([]int32, n)
	for i := range parent {
		parent[i] = int32(i)
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x int32) int32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y int32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	// Union by rank.
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the edges whose endpoints belong to the
// largest weakly connected component of the network (directions treated
// as undirected). Disconnected map fragments produce candidates that can
// never be routed to the rest of the reference, so preprocessing may
// drop them.
func LargestComponent(edges []Edge) []Edge {
	if len(edges) == 0 {
		return nil
	}

	// Map external node IDs to dense indices.
	nodeIdx := make(map[int64]int32)
	index := func(id int64) int32 {
		if idx, ok := nodeIdx[id]; ok {
			return idx
		}
		idx := int32(len(nodeIdx))
		nodeIdx[id] = idx
		return idx
	}
	for _, e := range edges {
		index(e.StartNodeID)
		index(e.EndNodeID)
	}

	uf := NewUnionFind(int32(len(nodeIdx)))
	for _, e := range edges {
		uf.Union(nodeIdx[e.StartNodeID], nodeIdx[e.EndNodeID])
	}

	// Find the representative with the largest size.
	bestRoot := int32(0)
	bestSize := int32(0)
	for i := int32(0); i < int32(len(nodeIdx)); i++ {
		root := uf.Find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	kept := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if uf.Find(nodeIdx[e.StartNodeID]) == bestRoot && uf.Find(nodeIdx[e.EndNodeID]) == bestRoot {
			kept = append(kept, e)
		}
	}
	return kept
}
