// Package snap locates the nearest road edge to an arbitrary lat/lon,
// the first step in turning a user-supplied coordinate into a graph
// node the search can start or end at. It replaces a flat spatial-grid
// index with an R-tree, trading the grid's fixed cell size for a
// structure that adapts to uneven edge density (dense urban cores next
// to sparse rural stretches).
package snap

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"turnguide/pkg/geo"
	"turnguide/pkg/graph"
)

// maxSnapDistMeters bounds how far a query point may be from the
// nearest edge before the snap is rejected as unreasonable (e.g. a
// point out in open water).
const maxSnapDistMeters = 500.0

// ErrPointTooFar is returned when the nearest edge is farther than
// maxSnapDistMeters from the query point.
var ErrPointTooFar = errors.New("snap: point too far from any road")

// Result is a query point projected onto the nearest edge.
type Result struct {
	Edge      graph.EdgeView
	Ratio     float64 // 0 = at Edge.BaseNode, 1 = at Edge.AdjNode
	DistanceM float64 // distance from the query point to the projection
}

// Index is an R-tree over every edge's bounding box, built once from a
// graph and reused across snap queries.
type Index struct {
	tree *rtree.RTreeG[graph.EdgeView]
}

// Build indexes every edge of g.
func Build(g *graph.Graph) *Index {
	tree := &rtree.RTreeG[graph.EdgeView]{}
	for u := uint32(0); u < g.NodeCount(); u++ {
		for _, e := range g.Alternatives(u) {
			min, max := boundingBox(e)
			tree.Insert(min, max, e)
		}
	}
	return &Index{tree: tree}
}

// boundingBox returns the [lon,lat] min/max corners enclosing an
// edge's full polyline (base, pillars, adj).
func boundingBox(e graph.EdgeView) (min, max [2]float64) {
	base := e.BaseLatLon()
	minLat, maxLat := base.Lat, base.Lat
	minLon, maxLon := base.Lon, base.Lon
	extend := func(p graph.Point) {
		minLat, maxLat = math.Min(minLat, p.Lat), math.Max(maxLat, p.Lat)
		minLon, maxLon = math.Min(minLon, p.Lon), math.Max(maxLon, p.Lon)
	}
	for _, p := range e.Geometry() {
		extend(p)
	}
	extend(e.AdjLatLon())
	return [2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}
}

// degPerMeter approximates how many degrees of latitude correspond to
// one meter, used to size the expanding search window below. It is not
// latitude-corrected for longitude; that's fine for a coarse, widening
// candidate window that the exact PointToSegmentDist pass refines.
const degPerMeter = 1.0 / 111_000.0

// Nearest returns the nearest edge to (lat, lon), widening the search
// window geometrically until a candidate is found or the window
// exceeds the graph's reasonable extent.
func (idx *Index) Nearest(lat, lon float64) (Result, error) {
	radiusM := 50.0
	for radiusM <= 50_000 {
		best, found := idx.searchWithin(lat, lon, radiusM)
		if found {
			if best.DistanceM > maxSnapDistMeters {
				return Result{}, ErrPointTooFar
			}
			return best, nil
		}
		radiusM *= 4
	}
	return Result{}, ErrPointTooFar
}

func (idx *Index) searchWithin(lat, lon, radiusM float64) (Result, bool) {
	r := radiusM * degPerMeter
	min := [2]float64{lon - r, lat - r}
	max := [2]float64{lon + r, lat + r}

	best := Result{DistanceM: math.Inf(1)}
	found := false
	idx.tree.Search(min, max, func(_, _ [2]float64, e graph.EdgeView) bool {
		d, ratio := closestPointOnEdge(e, lat, lon)
		if d < best.DistanceM {
			best = Result{Edge: e, Ratio: ratio, DistanceM: d}
			found = true
		}
		return true
	})
	return best, found
}

// closestPointOnEdge finds the closest projection of (lat,lon) onto
// any segment of e's polyline (base -> pillars -> adj), returning the
// distance and the overall ratio along the whole edge [0,1].
func closestPointOnEdge(e graph.EdgeView, lat, lon float64) (distM, ratio float64) {
	pts := make([]graph.Point, 0, 2+e.PillarCount())
	pts = append(pts, e.BaseLatLon())
	pts = append(pts, e.Geometry()...)
	pts = append(pts, e.AdjLatLon())

	bestDist := math.Inf(1)
	bestRatio := 0.0
	segCount := len(pts) - 1
	for i := 0; i < segCount; i++ {
		d, t := geo.PointToSegmentDist(lat, lon, pts[i].Lat, pts[i].Lon, pts[i+1].Lat, pts[i+1].Lon)
		if d < bestDist {
			bestDist = d
			bestRatio = (float64(i) + t) / float64(segCount)
		}
	}
	return bestDist, bestRatio
}
