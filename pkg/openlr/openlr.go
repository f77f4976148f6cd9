package openlr

import "fmt"

// FRC is the Functional Road Class. 0 is the most important class,
// 7 the least. "Lower" FRC in comparisons means numerically smaller,
// i.e. equally or more important.
type FRC uint8

const (
	FRC0 FRC = iota
	FRC1
	FRC2
	FRC3
	FRC4
	FRC5
	FRC6
	FRC7
)

func (f FRC) String() string {
	return fmt.Sprintf("FRC%d", uint8(f))
}

// FOW is the Form of Way of a road.
type FOW uint8

const (
	FOWUndefined FOW = iota
	FOWMotorway
	FOWMultipleCarriageway
	FOWSingleCarriageway
	FOWRoundabout
	FOWTrafficSquare
	FOWSlipRoad
	FOWOther
)

var fowNames = [...]string{
	"undefined",
	"motorway",
	"multiple_carriageway",
	"single_carriageway",
	"roundabout",
	"traffic_square",
	"slip_road",
	"other",
}

func (f FOW) String() string {
	if int(f) < len(fowNames) {
		return fowNames[f]
	}
	return fmt.Sprintf("FOW(%d)", uint8(f))
}

// LocationReferencePoint is one point of a line location reference.
// Bearing is the expected outgoing bearing in degrees [0, 360). DNP is
// the distance in meters to the next point along the intended path and
// is ignored for the final point. LFRCNP is the lowest FRC expected on
// the path to the next point.
type LocationReferencePoint struct {
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Bearing float64 `json:"bearing"`
	FRC     FRC     `json:"frc"`
	FOW     FOW     `json:"fow"`
	LFRCNP  FRC     `json:"lfrcnp"`
	DNP     float64 `json:"dnp"`
}
