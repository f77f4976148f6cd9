package network

import (
	"errors"

	"github.com/paulmach/orb"

	"openlr_decoder/pkg/openlr"
)

// ErrLineNotFound is returned by MapReader lookups for unknown line IDs.
var ErrLineNotFound = errors.New("line not found")

// ErrNodeNotFound is returned by MapReader lookups for unknown node IDs.
var ErrNodeNotFound = errors.New("node not found")

// Line is a directed road segment of the target map.
type Line interface {
	ID() int64
	StartNode() Node
	EndNode() Node
	// Geometry returns the full polyline of the line, including both
	// endpoint coordinates.
	Geometry() orb.LineString
	// Length returns the line's length in meters.
	Length() float64
	FRC() openlr.FRC
	FOW() openlr.FOW
}

// Node is a point of the target map where lines start and end.
type Node interface {
	ID() int64
	Coordinate() orb.Point
	IncomingLines() []Line
	OutgoingLines() []Line
}

// MapReader is the road-network adapter the decoder operates on.
// Implementations must be safe for concurrent reads.
type MapReader interface {
	// FindLinesCloseTo returns all lines within radius meters of p.
	// The result may be over-approximate; no ordering is required.
	FindLinesCloseTo(p orb.Point, radius float64) []Line
	GetLine(id int64) (Line, error)
	GetNode(id int64) (Node, error)
}
