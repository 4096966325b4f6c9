// Package path reconstructs a forward-ordered edge sequence from a
// shortest-path-tree predecessor chain. The search itself (Dijkstra and
// friends) is an external collaborator; this package only walks the
// result.
package path

import (
	"errors"

	"turnguide/pkg/graph"
	"turnguide/pkg/weighting"
)

// ErrPathMalformed is returned when the predecessor chain resolves each
// step's edge fine but the chain's own topology doesn't line up — a
// resolved edge lands on a different node than the chain claims it
// should. This signals a bad predecessor chain from the search
// collaborator, not a graph attribute problem; see
// graph.ErrGraphContractViolation for that case.
var ErrPathMalformed = errors.New("path: malformed predecessor chain")

// RootEdgeID is the sentinel EdgeID marking the root of an SPTEntry
// chain (the search's start node, which was reached by no edge).
const RootEdgeID = ^uint32(0)

// SPTEntry is one link in a shortest-path-tree predecessor chain:
// child -> parent. NodeID is the node this entry represents; EdgeID is
// the edge used to reach it from Parent.NodeID (or RootEdgeID at the
// chain's root, where Parent is nil).
type SPTEntry struct {
	EdgeID uint32
	NodeID uint32
	Weight float64
	Parent *SPTEntry
}

// Path is the reconstructed route: an ordered list of directed edge
// traversals plus the start and end node IDs. An empty/not-found path
// has Found == false and no edges.
type Path struct {
	Found      bool
	FromNode   uint32
	ToNode     uint32
	Edges      []graph.EdgeView
	Weight     float64
	TimeMillis int64
	DistanceM  float64
}

// Reconstruct walks entry's parent chain back to the root, reverses it
// into traversal order, and resolves each step to a graph.EdgeView
// oriented base->adj in the direction actually traveled. It accumulates
// distance and time, including turn costs at each intermediate node
// when w.HasTurnCosts() is true.
func Reconstruct(g *graph.Graph, w weighting.Weighting, entry *SPTEntry) (*Path, error) {
	if entry == nil {
		return &Path{Found: false}, nil
	}

	// Walk to the root, collecting (edgeID, fromNode, toNode) in
	// reverse (destination-to-source) order.
	type step struct {
		edgeID           uint32
		fromNode, toNode uint32
	}
	var steps []step
	cur := entry
	for cur.Parent != nil {
		steps = append(steps, step{
			edgeID:   cur.EdgeID,
			fromNode: cur.Parent.NodeID,
			toNode:   cur.NodeID,
		})
		cur = cur.Parent
	}
	root := cur

	if len(steps) == 0 {
		// Single-node path: start == end, no edges traversed.
		return &Path{Found: true, FromNode: root.NodeID, ToNode: root.NodeID}, nil
	}

	// Reverse into source-to-destination order.
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	edges := make([]graph.EdgeView, 0, len(steps))
	for _, s := range steps {
		view, ok := g.EdgeByID(s.edgeID, s.fromNode)
		if !ok {
			return nil, graph.ErrGraphContractViolation
		}
		if view.AdjNode != s.toNode {
			return nil, ErrPathMalformed
		}
		edges = append(edges, view)
	}

	p := &Path{
		Found:    true,
		FromNode: root.NodeID,
		ToNode:   entry.NodeID,
		Edges:    edges,
	}

	for i, e := range edges {
		p.DistanceM += e.Distance()
		p.TimeMillis += w.EdgeMillis(e)
		if i > 0 && w.HasTurnCosts() {
			prev := edges[i-1]
			p.TimeMillis += w.TurnMillis(prev.EdgeID, e.BaseNode, e.EdgeID)
			p.Weight += w.TurnWeight(prev.EdgeID, e.BaseNode, e.EdgeID)
		}
		p.Weight += w.EdgeWeight(e)
	}

	return p, nil
}

// CalcPoints concatenates the path's full point sequence: the first
// edge's base endpoint, then each edge's pillar geometry in forward
// order followed by its adj endpoint.
func CalcPoints(p *Path) []graph.Point {
	if !p.Found || len(p.Edges) == 0 {
		return nil
	}
	pts := make([]graph.Point, 0, len(p.Edges)*2)
	pts = append(pts, p.Edges[0].BaseLatLon())
	for _, e := range p.Edges {
		pts = append(pts, e.Geometry()...)
		pts = append(pts, e.AdjLatLon())
	}
	return pts
}
