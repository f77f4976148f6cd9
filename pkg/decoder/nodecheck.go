package decoder

import "openlr_decoder/pkg/network"

// IsValidNode reports whether a node corresponds to a real-world
// junction. OpenLR places LRPs at real junctions; mid-road connector
// nodes are artifacts of map modelling and must not absorb snapping.
func IsValidNode(n network.Node) bool {
	return !IsInvalidNode(n)
}

// IsInvalidNode reports whether a node is a mid-road connector: a node
// with exactly one incoming and one outgoing line (or two of each, for
// a bidirectional road continuation) whose lines connect exactly two
// other nodes, so the road just passes through:  ----*----
func IsInvalidNode(n network.Node) bool {
	incoming := n.IncomingLines()
	outgoing := n.OutgoingLines()

	pair := len(incoming) == 1 && len(outgoing) == 1
	doublePair := len(incoming) == 2 && len(outgoing) == 2
	if !pair && !doublePair {
		return false
	}

	unique := make(map[int64]struct{}, 4)
	for _, line := range incoming {
		unique[line.StartNode().ID()] = struct{}{}
		unique[line.EndNode().ID()] = struct{}{}
	}
	for _, line := range outgoing {
		unique[line.StartNode().ID()] = struct{}{}
		unique[line.EndNode().ID()] = struct{}{}
	}
	return len(unique) == 3
}
