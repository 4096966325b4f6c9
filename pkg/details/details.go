// Package details partitions a reconstructed path into maximal runs
// sharing a chosen per-edge attribute — speed, street name, edge
// identity, time, distance, or the fan-out of alternatives at each
// junction. It walks the same edge sequence the instruction
// synthesizer does and shares its point-index bookkeeping, but answers
// a different question: not "where does a turn instruction belong"
// but "where does this attribute change".
package details

import (
	"math"
	"sort"

	"turnguide/pkg/geo"
	"turnguide/pkg/graph"
	"turnguide/pkg/path"
	"turnguide/pkg/weighting"
)

// Value holds a detail run's payload. Concrete types vary per builder:
// float64 for speed/distance, string for street-name, uint32/uint64
// for edge-id/edge-key, int64 for time, IntersectionDetail for
// intersection.
type Value any

// Detail is one maximal run of a shared attribute value, addressed in
// point-index space (not edge-index): First is the point index where
// the run begins, Last is the index of its final point. Adjacent runs
// share their boundary point (one run's Last is the next run's First),
// and the final run's Last is the path's last point index.
type Detail struct {
	Value Value
	First int
	Last  int
}

// Context carries the collaborators a Builder needs to evaluate one
// edge: the graph (for junction fan-out), the weighting (for
// traversal cost), and the edge that preceded this one on the path
// (nil at the very first edge).
type Context struct {
	G        *graph.Graph
	W        weighting.Weighting
	PrevEdge *graph.EdgeView
}

// Builder is a small policy object deciding one detail key's run
// boundaries. ValueOf computes an edge's value; SameRun decides
// whether curVal continues the run currently holding runVal.
type Builder interface {
	Key() string
	ValueOf(e graph.EdgeView, ctx Context) Value
	SameRun(runVal, curVal Value, e graph.EdgeView) bool
}

// Extract runs every builder over p's edge sequence and returns one
// detail-run list per builder key. Returns an empty map for an
// unresolved or empty path.
func Extract(p *path.Path, g *graph.Graph, w weighting.Weighting, builders ...Builder) map[string][]Detail {
	out := make(map[string][]Detail, len(builders))
	if p == nil || !p.Found || len(p.Edges) == 0 {
		return out
	}
	totalPoints := len(path.CalcPoints(p))
	for _, b := range builders {
		out[b.Key()] = extractOne(b, p, g, w, totalPoints)
	}
	return out
}

func extractOne(b Builder, p *path.Path, g *graph.Graph, w weighting.Weighting, totalPoints int) []Detail {
	edges := p.Edges
	pointIdx := 0
	runFirst := 0
	runVal := b.ValueOf(edges[0], Context{G: g, W: w})

	var runs []Detail
	for i, e := range edges {
		startOfEdge := pointIdx
		if i > 0 {
			prev := edges[i-1]
			curVal := b.ValueOf(e, Context{G: g, W: w, PrevEdge: &prev})
			if !b.SameRun(runVal, curVal, e) {
				runs = append(runs, Detail{Value: runVal, First: runFirst, Last: startOfEdge})
				runVal = curVal
				runFirst = startOfEdge
			}
		}
		pointIdx += 1 + int(e.PillarCount())
	}
	runs = append(runs, Detail{Value: runVal, First: runFirst, Last: totalPoints - 1})
	return runs
}

// Options configures the builders that need a tunable threshold.
type Options struct {
	// MinCoalesceMeters is the edge length below which the average-speed
	// builder absorbs an edge into the previous run regardless of its
	// own speed, avoiding spurious single-point runs at sliver edges.
	MinCoalesceMeters float64
}

// DefaultOptions fixes the short-edge coalescing threshold at 1 meter.
func DefaultOptions() Options {
	return Options{MinCoalesceMeters: 1.0}
}

// SpeedBuilder produces average-speed runs.
type SpeedBuilder struct{ Options Options }

func (SpeedBuilder) Key() string { return "average-speed" }

func (SpeedBuilder) ValueOf(e graph.EdgeView, _ Context) Value { return e.Speed() }

func (b SpeedBuilder) SameRun(runVal, curVal Value, e graph.EdgeView) bool {
	if e.Distance() < b.Options.MinCoalesceMeters {
		return true
	}
	rv, ok1 := runVal.(float64)
	cv, ok2 := curVal.(float64)
	return ok1 && ok2 && rv == cv
}

// NameBuilder produces street-name runs.
type NameBuilder struct{}

func (NameBuilder) Key() string                             { return "street-name" }
func (NameBuilder) ValueOf(e graph.EdgeView, _ Context) Value { return e.Name() }
func (NameBuilder) SameRun(runVal, curVal Value, _ graph.EdgeView) bool {
	return runVal.(string) == curVal.(string)
}

// EdgeIDBuilder produces one run per distinct raw edge id (in practice
// one run per edge, since consecutive ids essentially never repeat).
type EdgeIDBuilder struct{}

func (EdgeIDBuilder) Key() string                             { return "edge-id" }
func (EdgeIDBuilder) ValueOf(e graph.EdgeView, _ Context) Value { return e.EdgeID }
func (EdgeIDBuilder) SameRun(runVal, curVal Value, _ graph.EdgeView) bool {
	return runVal.(uint32) == curVal.(uint32)
}

// EdgeKeyBuilder produces one run per distinct direction-canonicalized
// edge key.
type EdgeKeyBuilder struct{}

func (EdgeKeyBuilder) Key() string                             { return "edge-key" }
func (EdgeKeyBuilder) ValueOf(e graph.EdgeView, _ Context) Value { return e.EdgeKey() }
func (EdgeKeyBuilder) SameRun(runVal, curVal Value, _ graph.EdgeView) bool {
	return runVal.(uint64) == curVal.(uint64)
}

// TimeBuilder produces per-edge traversal-time runs, in milliseconds.
type TimeBuilder struct{}

func (TimeBuilder) Key() string { return "time" }
func (TimeBuilder) ValueOf(e graph.EdgeView, ctx Context) Value {
	return ctx.W.EdgeMillis(e)
}
func (TimeBuilder) SameRun(runVal, curVal Value, _ graph.EdgeView) bool {
	return runVal.(int64) == curVal.(int64)
}

// DistanceBuilder produces per-edge distance runs, in meters.
type DistanceBuilder struct{}

func (DistanceBuilder) Key() string                             { return "distance" }
func (DistanceBuilder) ValueOf(e graph.EdgeView, _ Context) Value { return e.Distance() }
func (DistanceBuilder) SameRun(runVal, curVal Value, _ graph.EdgeView) bool {
	return runVal.(float64) == curVal.(float64)
}

// IntersectionDetail describes the junction an edge departs from:
// every alternative leaving that node, sorted by compass bearing
// starting from north and increasing clockwise.
type IntersectionDetail struct {
	// Out is the bearing-sorted index of the alternative the path
	// actually takes.
	Out int
	// In is the bearing-sorted index of the alternative that leads back
	// the way the path came, or -1 at the path's first node.
	In int
	// Entries reports, per bearing-sorted alternative, whether it is
	// legally enterable under the weighting in effect.
	Entries []bool
	// Bearings holds each alternative's compass bearing in whole
	// degrees [0, 359], same order as Entries.
	Bearings []int
}

// IntersectionBuilder produces one intersection fan-out snapshot per
// edge; snapshots never coalesce, since each describes a distinct node.
type IntersectionBuilder struct{}

func (IntersectionBuilder) Key() string { return "intersection" }

func (IntersectionBuilder) ValueOf(e graph.EdgeView, ctx Context) Value {
	alts := ctx.G.Alternatives(e.BaseNode)
	type scored struct {
		bearing float64
		view    graph.EdgeView
	}
	sorted := make([]scored, len(alts))
	for i, a := range alts {
		sorted[i] = scored{bearing: exitBearingDeg(a), view: a}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].bearing < sorted[j].bearing })

	out := -1
	entries := make([]bool, len(sorted))
	bearings := make([]int, len(sorted))
	for i, s := range sorted {
		bearings[i] = int(s.bearing)
		entries[i] = weighting.Routable(ctx.W, s.view)
		if s.view.EdgeID == e.EdgeID {
			out = i
		}
	}

	in := -1
	if ctx.PrevEdge != nil {
		revID := ctx.G.RevEdge[ctx.PrevEdge.EdgeID]
		for i, s := range sorted {
			if s.view.EdgeID == revID {
				in = i
				break
			}
		}
	}

	return IntersectionDetail{Out: out, In: in, Entries: entries, Bearings: bearings}
}

func (IntersectionBuilder) SameRun(_, _ Value, _ graph.EdgeView) bool { return false }

// exitBearingDeg returns the compass bearing (degrees from north,
// clockwise, [0, 360)) of the first segment leaving e's base node.
func exitBearingDeg(e graph.EdgeView) float64 {
	geomPts := e.Geometry()
	to := e.AdjLatLon()
	if len(geomPts) > 0 {
		to = geomPts[0]
	}
	from := e.BaseLatLon()
	eastRad := geo.CalcOrientation(from.Lat, from.Lon, to.Lat, to.Lon)
	deg := eastRad * 180 / math.Pi
	return math.Mod(450-deg, 360)
}
