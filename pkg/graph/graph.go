// Package graph is the read-only graph façade consumed by the
// instruction synthesizer. It is deliberately the only layer in this
// module that knows about CSR array layout; everything above it talks
// in terms of EdgeView values.
package graph

import "errors"

// ErrGraphContractViolation is returned when a caller requests an edge
// or attribute the graph cannot honor: an edgeID that doesn't
// originate or terminate at the given node, or a traversal against a
// oneway restriction. Distinct from a malformed predecessor chain
// (see path.ErrPathMalformed): this is the graph refusing a request
// that was valid in shape but wrong in content.
var ErrGraphContractViolation = errors.New("graph: contract violation")

// RoadClass enumerates the OSM-derived functional road classes.
type RoadClass int

const (
	RoadClassOther RoadClass = iota
	RoadClassMotorway
	RoadClassTrunk
	RoadClassPrimary
	RoadClassSecondary
	RoadClassTertiary
	RoadClassResidential
	RoadClassUnclassified
	RoadClassService
)

func (c RoadClass) String() string {
	switch c {
	case RoadClassMotorway:
		return "motorway"
	case RoadClassTrunk:
		return "trunk"
	case RoadClassPrimary:
		return "primary"
	case RoadClassSecondary:
		return "secondary"
	case RoadClassTertiary:
		return "tertiary"
	case RoadClassResidential:
		return "residential"
	case RoadClassUnclassified:
		return "unclassified"
	case RoadClassService:
		return "service"
	default:
		return "other"
	}
}

// RoadEnvironment enumerates the environment an edge runs through.
type RoadEnvironment int

const (
	EnvRoad RoadEnvironment = iota
	EnvFerry
	EnvTunnel
	EnvBridge
	EnvFord
)

func (e RoadEnvironment) String() string {
	switch e {
	case EnvFerry:
		return "ferry"
	case EnvTunnel:
		return "tunnel"
	case EnvBridge:
		return "bridge"
	case EnvFord:
		return "ford"
	default:
		return "road"
	}
}

// NoEdge is the sentinel for "no such edge".
const NoEdge = ^uint32(0)

// Graph is a directed road graph in CSR (Compressed Sparse Row) layout,
// extended with the per-edge attributes the instruction synthesizer
// needs. Every CSR row is already one specific direction of travel —
// a bidirectional street is two rows, paired via RevEdge — so there is
// no separate "reverse" flag to thread through attribute lookups, the
// same way the teacher's OSM builder emits one RawEdge per usable
// direction rather than a single bidirectional record.
//
// Graph is built once (see Build) and is safe for concurrent readers
// for as long as no writer touches it afterward.
type Graph struct {
	NumNodes uint32
	NumEdges uint32

	FirstOut []uint32 // len NumNodes+1; FirstOut[i]..FirstOut[i+1] are edges out of node i
	Head     []uint32 // len NumEdges; target node of each edge
	NodeLat  []float64
	NodeLon  []float64

	DistanceMM []uint32 // per-edge length in millimeters
	SpeedKMH   []float64

	AccessFwd     []bool // car access in this row's direction
	FootAccessFwd []bool // foot access in this row's direction

	RoadClassAttr     []RoadClass
	RoadClassLinkAttr []bool
	RoadEnvAttr       []RoadEnvironment
	RoundaboutAttr    []bool
	NameID            []uint32 // index into Names

	Names []string // interned street names; Names[0] == ""

	// RevEdge[e] is the edge index of e's reverse traversal (the same
	// pair of endpoints, opposite direction), or NoEdge if that
	// direction does not exist (e.g. a oneway street).
	RevEdge []uint32

	// Geometry: pillar points strictly between an edge's two tower
	// endpoints, in this row's own direction, flattened and indexed
	// the same way as the attribute arrays.
	GeoFirstOut []uint32
	GeoShapeLat []float64
	GeoShapeLon []float64
}

// EdgesFrom returns the range of edge indices for edges leaving node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// LatLon returns the coordinates of a node.
func (g *Graph) LatLon(node uint32) (lat, lon float64) {
	return g.NodeLat[node], g.NodeLon[node]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() uint32 {
	return g.NumNodes
}

// Point is a geographic coordinate.
type Point struct {
	Lat, Lon float64
}

// EdgeView is a read-only, directed view of one edge traversal, always
// oriented base->adj.
type EdgeView struct {
	g        *Graph
	EdgeID   uint32
	BaseNode uint32
	AdjNode  uint32
}

// EdgeKey returns 2*edgeID + directionBit, canonicalized so both
// directions of one physical edge resolve against the lower-numbered
// CSR row: directionBit is 0 for that row's native direction and 1 for
// its RevEdge partner.
func (e EdgeView) EdgeKey() uint64 {
	base, rev := e.EdgeID, e.g.RevEdge[e.EdgeID]
	if rev != NoEdge && rev < base {
		return 2*uint64(rev) + 1
	}
	return 2 * uint64(base)
}

// Distance returns the edge length in meters.
func (e EdgeView) Distance() float64 {
	return float64(e.g.DistanceMM[e.EdgeID]) / 1000.0
}

// Speed returns the speed in km/h for this direction of travel.
func (e EdgeView) Speed() float64 {
	return e.g.SpeedKMH[e.EdgeID]
}

// Access returns whether this direction of travel is permitted for the
// car access profile.
func (e EdgeView) Access() bool {
	return e.g.AccessFwd[e.EdgeID]
}

// FootAccess returns whether this direction of travel is permitted for
// the foot access profile.
func (e EdgeView) FootAccess() bool {
	return e.g.FootAccessFwd[e.EdgeID]
}

// Name returns the street name, or "" if unnamed.
func (e EdgeView) Name() string {
	return e.g.Names[e.g.NameID[e.EdgeID]]
}

// RoadClass, RoadClassLink, RoadEnv, and Roundabout are direction-independent.
func (e EdgeView) RoadClass() RoadClass     { return e.g.RoadClassAttr[e.EdgeID] }
func (e EdgeView) RoadClassLink() bool      { return e.g.RoadClassLinkAttr[e.EdgeID] }
func (e EdgeView) RoadEnv() RoadEnvironment { return e.g.RoadEnvAttr[e.EdgeID] }
func (e EdgeView) Roundabout() bool         { return e.g.RoundaboutAttr[e.EdgeID] }

// PillarCount returns the number of pillar (non-tower) geometry points
// on this edge, without allocating — used by the point-index bookkeeping
// in pkg/instructions and pkg/details.
func (e EdgeView) PillarCount() uint32 {
	return e.g.GeoFirstOut[e.EdgeID+1] - e.g.GeoFirstOut[e.EdgeID]
}

// Geometry returns the pillar points between this edge's tower
// endpoints, in the direction this view traverses (base->adj).
func (e EdgeView) Geometry() []Point {
	start, end := e.g.GeoFirstOut[e.EdgeID], e.g.GeoFirstOut[e.EdgeID+1]
	pts := make([]Point, end-start)
	for i := start; i < end; i++ {
		pts[i-start] = Point{e.g.GeoShapeLat[i], e.g.GeoShapeLon[i]}
	}
	return pts
}

// BaseLatLon and AdjLatLon return the endpoint coordinates, oriented
// per this view's direction of travel.
func (e EdgeView) BaseLatLon() Point {
	lat, lon := e.g.LatLon(e.BaseNode)
	return Point{lat, lon}
}

func (e EdgeView) AdjLatLon() Point {
	lat, lon := e.g.LatLon(e.AdjNode)
	return Point{lat, lon}
}

// EdgeByID resolves the directed view of edgeID oriented so that it
// leaves fromNode. Fails (ok=false) if edgeID's endpoints don't include
// fromNode, or if fromNode requires traveling against a oneway edge —
// callers surface that as a graph-contract violation.
func (g *Graph) EdgeByID(edgeID, fromNode uint32) (view EdgeView, ok bool) {
	base := sourceOf(g.FirstOut, edgeID)
	switch fromNode {
	case base:
		return g.EdgeViewAt(edgeID), true
	case g.Head[edgeID]:
		rev := g.RevEdge[edgeID]
		if rev == NoEdge {
			return EdgeView{}, false
		}
		return g.EdgeViewAt(rev), true
	default:
		return EdgeView{}, false
	}
}

// EdgeViewAt returns the view of the edge at CSR index e, oriented in
// that row's own stored direction (base = the CSR row owner, adj =
// Head[e]).
func (g *Graph) EdgeViewAt(e uint32) EdgeView {
	base := sourceOf(g.FirstOut, e)
	return EdgeView{g: g, EdgeID: e, BaseNode: base, AdjNode: g.Head[e]}
}

// Alternatives returns every edge leaving node u, each as a forward-
// oriented EdgeView.
func (g *Graph) Alternatives(u uint32) []EdgeView {
	start, end := g.EdgesFrom(u)
	out := make([]EdgeView, 0, end-start)
	for e := start; e < end; e++ {
		out = append(out, g.EdgeViewAt(e))
	}
	return out
}

// sourceOf finds the CSR row owning edge index e via binary search over
// FirstOut, mirroring the teacher's CH-unpacking source lookup.
func sourceOf(firstOut []uint32, e uint32) uint32 {
	n := uint32(len(firstOut) - 1)
	lo, hi := uint32(0), n
	for lo < hi {
		mid := (lo + hi) / 2
		if firstOut[mid+1] <= e {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
