package geo

import (
	"math"
	"testing"
)

func TestCalcOrientation(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"due east", 0, 0, 0, 1, 0},
		{"due north", 0, 0, 1, 0, math.Pi / 2},
		{"due west", 0, 0, 0, -1, math.Pi},
		{"due south", 0, 0, -1, 0, -math.Pi / 2},
		{"degenerate", 1, 1, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcOrientation(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalcOrientation = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAlignOrientation(t *testing.T) {
	tests := []struct {
		name     string
		ref, x   float64
		wantDiff float64 // expected aligned value; the loop checks |ref - aligned| <= pi
	}{
		{"no shift needed", 0, 0.1, 0.1},
		{"wraps down", 0, 3.2, 3.2 - 2*math.Pi},
		{"wraps up", -3.0, 3.0, 3.0 - 2*math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlignOrientation(tt.ref, tt.x)
			if math.Abs(got-tt.ref) > math.Pi+1e-9 {
				t.Errorf("AlignOrientation(%f, %f) = %f, not within pi of ref", tt.ref, tt.x, got)
			}
		})
	}
}

func TestTurnAngleBandsAndSign(t *testing.T) {
	tests := []struct {
		name       string
		in, out    float64
		wantBand   AngleBand
		wantLeft   bool
	}{
		{"straight", 0, 0.05, BandStraight, false},
		{"slight right", 0, 0.5, BandSlight, false},
		{"slight left", 0, -0.5, BandSlight, true},
		{"normal right", 0, 1.5, BandNormal, false},
		{"sharp left", 0, -2.5, BandSharp, true},
		{"u-turn", 0, math.Pi, BandUTurn, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := TurnAngle(tt.in, tt.out)
			if got := ClassifyAngle(delta); got != tt.wantBand {
				t.Errorf("ClassifyAngle(%f) = %v, want %v", delta, got, tt.wantBand)
			}
			if (delta < 0) != tt.wantLeft {
				t.Errorf("TurnAngle sign = %f, wantLeft=%v", delta, tt.wantLeft)
			}
		})
	}
}

func TestRoundaboutTurnAngle(t *testing.T) {
	// Enter heading east (0), exit heading north (pi/2), driving clockwise
	// (as on a left-hand-drive roundabout entered from the south).
	got := RoundaboutTurnAngle(0, math.Pi/2, true)
	want := math.Pi + math.Pi/2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("RoundaboutTurnAngle = %f, want %f", got, want)
	}

	got = RoundaboutTurnAngle(0, math.Pi/2, false)
	want = -(math.Pi - math.Pi/2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("RoundaboutTurnAngle(ccw) = %f, want %f", got, want)
	}
}
