package snap

import (
	"testing"

	"turnguide/pkg/graph"
)

func buildLineGraph() *graph.Graph {
	edges := []graph.RawEdge[int]{
		{FromNode: 0, ToNode: 1, DistM: 1000, SpeedKMH: 50, AccessFwd: true, FootAccessFwd: true, Name: "Test Ave"},
	}
	lat := map[int]float64{0: 0, 1: 0.01}
	lon := map[int]float64{0: 0, 1: 0}
	return graph.Build(edges, lat, lon)
}

func TestNearestFindsCloseEdge(t *testing.T) {
	g := buildLineGraph()
	idx := Build(g)

	// A point just east of the edge's midpoint.
	res, err := idx.Nearest(0.005, 0.0005)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if res.Edge.Name() != "Test Ave" {
		t.Errorf("res.Edge.Name() = %q, want Test Ave", res.Edge.Name())
	}
	if res.Ratio < 0.4 || res.Ratio > 0.6 {
		t.Errorf("res.Ratio = %v, want close to 0.5 (query point is near the midpoint)", res.Ratio)
	}
	if res.DistanceM <= 0 {
		t.Errorf("res.DistanceM = %v, want > 0", res.DistanceM)
	}
}

func TestNearestRejectsFarPoint(t *testing.T) {
	g := buildLineGraph()
	idx := Build(g)

	// Roughly 5 degrees away — far outside maxSnapDistMeters.
	_, err := idx.Nearest(5, 5)
	if err != ErrPointTooFar {
		t.Errorf("Nearest() error = %v, want ErrPointTooFar", err)
	}
}

func TestNearestAtEndpointsHasExtremeRatio(t *testing.T) {
	g := buildLineGraph()
	idx := Build(g)

	res, err := idx.Nearest(0, 0)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if res.Ratio > 0.1 {
		t.Errorf("res.Ratio = %v, want near 0 (query at the base node)", res.Ratio)
	}
}
