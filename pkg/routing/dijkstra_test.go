package routing

import (
	"testing"

	"turnguide/pkg/graph"
	"turnguide/pkg/path"
	"turnguide/pkg/weighting"
)

func TestMinHeap(t *testing.T) {
	var h MinHeap
	h.Push(1, 30)
	h.Push(2, 10)
	h.Push(3, 20)

	if node, dist := h.Pop(); node != 2 || dist != 10 {
		t.Errorf("Pop() = (%d, %v), want (2, 10)", node, dist)
	}
	if node, dist := h.Pop(); node != 3 || dist != 20 {
		t.Errorf("Pop() = (%d, %v), want (3, 20)", node, dist)
	}
	if node, dist := h.Pop(); node != 1 || dist != 30 {
		t.Errorf("Pop() = (%d, %v), want (1, 30)", node, dist)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

// buildGridGraph builds:
//
//	0 ---100--- 1 ---200--- 2
//	|                       |
//	300                    400
//	|                       |
//	3 ---500--- 4 ---600--- 5
//
// all edges bidirectional, weights in meters.
func buildGridGraph() *graph.Graph {
	e := func(from, to int, distM float64) graph.RawEdge[int] {
		return graph.RawEdge[int]{FromNode: from, ToNode: to, DistM: distM, SpeedKMH: 36, AccessFwd: true}
	}
	edges := []graph.RawEdge[int]{
		e(0, 1, 100), e(1, 0, 100),
		e(1, 2, 200), e(2, 1, 200),
		e(0, 3, 300), e(3, 0, 300),
		e(2, 5, 400), e(5, 2, 400),
		e(3, 4, 500), e(4, 3, 500),
		e(4, 5, 600), e(5, 4, 600),
	}
	lat := map[int]float64{0: 1.300, 1: 1.300, 2: 1.300, 3: 1.301, 4: 1.301, 5: 1.301}
	lon := map[int]float64{0: 103.800, 1: 103.801, 2: 103.802, 3: 103.800, 4: 103.801, 5: 103.802}
	return graph.Build(edges, lat, lon)
}

func TestShortestPathFindsMinimumDistanceRoute(t *testing.T) {
	g := buildGridGraph()
	w := weighting.Car{}

	// graph.Build numbers nodes by first appearance, so grid node 5
	// (first seen in e(2, 5)) is compact index 4.
	entry := ShortestPath(g, w, 0, 4)
	if entry == nil {
		t.Fatal("ShortestPath() = nil, want a reachable chain")
	}

	p, err := path.Reconstruct(g, w, entry)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	// 0->1->2->5 costs 100+200+400=700; 0->3->4->5 costs 300+500+600=1400.
	if p.DistanceM != 700 {
		t.Errorf("p.DistanceM = %v, want 700 (via 0->1->2->5)", p.DistanceM)
	}
}

func TestShortestPathSourceEqualsTargetReturnsRootOnly(t *testing.T) {
	g := buildGridGraph()
	entry := ShortestPath(g, weighting.Car{}, 0, 0)
	if entry == nil {
		t.Fatal("ShortestPath() = nil for source==target, want a trivial root entry")
	}
	if entry.NodeID != 0 || entry.Parent != nil {
		t.Errorf("single-node chain = %+v, want root-only entry at node 0", entry)
	}
}

func TestShortestPathNoRouteForDisconnectedComponent(t *testing.T) {
	edges := []graph.RawEdge[int]{
		{FromNode: 0, ToNode: 1, DistM: 100, SpeedKMH: 36, AccessFwd: true},
		{FromNode: 2, ToNode: 3, DistM: 100, SpeedKMH: 36, AccessFwd: true},
	}
	lat := map[int]float64{0: 0, 1: 0, 2: 1, 3: 1}
	lon := map[int]float64{0: 0, 1: 1, 2: 0, 3: 1}
	g := graph.Build(edges, lat, lon)

	if ShortestPath(g, weighting.Car{}, 0, 1) == nil {
		t.Fatal("expected node 1 to be reachable from node 0")
	}
	// Node 3 sits in a separate component from 0, so it must be unreachable.
	if ShortestPath(g, weighting.Car{}, 0, 3) != nil {
		t.Error("expected node 3 to be unreachable from node 0 (disconnected component)")
	}
}
