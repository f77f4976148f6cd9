package decoder_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"openlr_decoder/pkg/decoder"
	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/memmap"
	"openlr_decoder/pkg/openlr"
)

func TestAngleDifference(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{90, 45, 45},
		{45, 90, -45},
		{10, 350, 20},
		{350, 10, -20},
		{180, 0, 180},
		{0, 180, 180}, // result is in (-180, 180], never -180
		{0, 0, 0},
		{359, 1, -2},
	}

	for _, tt := range tests {
		if got := decoder.AngleDifference(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AngleDifference(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestProject(t *testing.T) {
	m := buildMap(t, []memmap.Edge{
		edge(1, 1, 2, orb.LineString{pt(0, 0), pt(400, 0)}),
	})
	gt := geo.Spherical{}
	line, err := m.GetLine(1)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}

	tests := []struct {
		name string
		p    orb.Point
		want float64
	}{
		{"interior point", pt(100, 10), 0.25},
		{"before the start clamps to 0", pt(-50, 0), 0},
		{"past the end clamps to 1", pt(500, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol := decoder.Project(gt, line, tt.p)
			if math.Abs(pol.RelativeOffset-tt.want) > 1e-3 {
				t.Errorf("RelativeOffset = %f, want %f", pol.RelativeOffset, tt.want)
			}
		})
	}
}

func TestPointOnLineDistances(t *testing.T) {
	m := buildMap(t, []memmap.Edge{
		edge(1, 1, 2, orb.LineString{pt(0, 0), pt(400, 0)}),
	})
	line, err := m.GetLine(1)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}

	pol := decoder.PointOnLine{Line: line, RelativeOffset: 0.25}
	if d := pol.DistanceFromStart(); math.Abs(d-100) > 1 {
		t.Errorf("DistanceFromStart = %f, want ~100", d)
	}
	if d := pol.DistanceToEnd(); math.Abs(d-300) > 1 {
		t.Errorf("DistanceToEnd = %f, want ~300", d)
	}

	got := pol.Coordinate(geo.Spherical{})
	if d := (geo.Spherical{}).Distance(got, pt(100, 0)); d > 1 {
		t.Errorf("Coordinate is %f m off", d)
	}
}

// TestComputeBearing verifies the direction-of-travel convention on an
// L-shaped line heading east then north.
func TestComputeBearing(t *testing.T) {
	m := buildMap(t, []memmap.Edge{
		edge(1, 1, 2, orb.LineString{pt(0, 0), pt(200, 0), pt(200, 200)}),
	})
	gt := geo.Spherical{}
	line, err := m.GetLine(1)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}

	tests := []struct {
		name   string
		offset float64
		isLast bool
		want   float64
	}{
		{"non-last on the eastbound leg", 0.25, false, 90},
		{"non-last on the northbound leg", 0.75, false, 0},
		{"last looks back along the eastbound leg", 0.25, true, 90},
		{"last looks back along the northbound leg", 0.75, true, 0},
		{"non-last at the very end measures nothing ahead", 1, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol := decoder.PointOnLine{Line: line, RelativeOffset: tt.offset}
			got := decoder.ComputeBearing(gt, pol, tt.isLast, 20)
			if math.Abs(decoder.AngleDifference(got, tt.want)) > 1 {
				t.Errorf("ComputeBearing = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCoords(t *testing.T) {
	lrp := openlr.LocationReferencePoint{Lon: 103.8, Lat: 1.3}
	if got := decoder.Coords(lrp); got.Lon() != 103.8 || got.Lat() != 1.3 {
		t.Errorf("Coords = %v", got)
	}
}
