package graph

import "sort"

// RawEdge is one directed, attributed edge as produced by an ingestion
// collaborator (e.g. pkg/osmgraph) or hand-built by a test. FromNode and
// ToNode are caller-space node identifiers (not yet the graph's compact
// uint32 indices), so a builder can be fed OSM node IDs, synthetic test
// IDs, or anything else comparable. A bidirectional street is two
// RawEdges, one per direction, each carrying its own speed/access —
// there is no shared "reverse" variant of a single record.
type RawEdge[NodeID comparable] struct {
	FromNode NodeID
	ToNode   NodeID
	DistM    float64 // meters

	SpeedKMH      float64
	AccessFwd     bool
	FootAccessFwd bool

	RoadClass     RoadClass
	RoadClassLink bool
	RoadEnv       RoadEnvironment
	Roundabout    bool
	Name          string

	ShapeLat, ShapeLon []float64 // pillars, excluding the two tower endpoints
}

// Build compacts a set of raw, directed edges into a CSR Graph.
func Build[NodeID comparable](edges []RawEdge[NodeID], nodeLat, nodeLon map[NodeID]float64) *Graph {
	if len(edges) == 0 {
		return &Graph{Names: []string{""}}
	}

	// Step 1: collect unique node IDs and build a compact mapping.
	nodeSet := make(map[NodeID]uint32)
	var nodeIDs []NodeID
	addNode := func(id NodeID) uint32 {
		if idx, ok := nodeSet[id]; ok {
			return idx
		}
		idx := uint32(len(nodeIDs))
		nodeSet[id] = idx
		nodeIDs = append(nodeIDs, id)
		return idx
	}
	for i := range edges {
		addNode(edges[i].FromNode)
		addNode(edges[i].ToNode)
	}
	numNodes := uint32(len(nodeIDs))

	names := map[string]uint32{"": 0}
	nameList := []string{""}
	internName := func(s string) uint32 {
		if idx, ok := names[s]; ok {
			return idx
		}
		idx := uint32(len(nameList))
		names[s] = idx
		nameList = append(nameList, s)
		return idx
	}

	type compactEdge struct {
		from, to uint32
		raw      *RawEdge[NodeID]
		pairKey  int // compact index of this edge's reverse traversal, -1 if none
	}

	compact := make([]compactEdge, len(edges))
	pairOf := make(map[[2]uint32]int, len(edges))
	for i := range edges {
		from := nodeSet[edges[i].FromNode]
		to := nodeSet[edges[i].ToNode]
		compact[i] = compactEdge{from: from, to: to, raw: &edges[i], pairKey: -1}
		if j, ok := pairOf[[2]uint32{to, from}]; ok && compact[j].pairKey == -1 {
			compact[i].pairKey = j
			compact[j].pairKey = i
		} else {
			pairOf[[2]uint32{from, to}] = i
		}
	}

	// Step 2: sort edges by source node, keep a mapping from the
	// pre-sort compact index to the final CSR index so RevEdge can be
	// resolved after sorting.
	order := make([]int, len(compact))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ea, eb := compact[order[a]], compact[order[b]]
		if ea.from != eb.from {
			return ea.from < eb.from
		}
		return ea.to < eb.to
	})

	numEdges := uint32(len(compact))
	newIndexOf := make([]uint32, len(compact))
	for newIdx, oldIdx := range order {
		newIndexOf[oldIdx] = uint32(newIdx)
	}

	firstOut := make([]uint32, numNodes+1)
	head := make([]uint32, numEdges)
	distanceMM := make([]uint32, numEdges)
	speedKMH := make([]float64, numEdges)
	accessFwd := make([]bool, numEdges)
	footAccessFwd := make([]bool, numEdges)
	roadClass := make([]RoadClass, numEdges)
	roadClassLink := make([]bool, numEdges)
	roadEnv := make([]RoadEnvironment, numEdges)
	roundabout := make([]bool, numEdges)
	nameID := make([]uint32, numEdges)
	revEdge := make([]uint32, numEdges)
	geoFirstOut := make([]uint32, numEdges+1)
	var geoShapeLat, geoShapeLon []float64

	for newIdx, oldIdx := range order {
		ce := compact[oldIdx]
		r := ce.raw
		head[newIdx] = ce.to
		distanceMM[newIdx] = uint32(r.DistM*1000 + 0.5)
		speedKMH[newIdx] = r.SpeedKMH
		accessFwd[newIdx] = r.AccessFwd
		footAccessFwd[newIdx] = r.FootAccessFwd
		roadClass[newIdx] = r.RoadClass
		roadClassLink[newIdx] = r.RoadClassLink
		roadEnv[newIdx] = r.RoadEnv
		roundabout[newIdx] = r.Roundabout
		nameID[newIdx] = internName(r.Name)

		geoFirstOut[newIdx] = uint32(len(geoShapeLat))
		geoShapeLat = append(geoShapeLat, r.ShapeLat...)
		geoShapeLon = append(geoShapeLon, r.ShapeLon...)

		if ce.pairKey == -1 {
			revEdge[newIdx] = NoEdge
		} else {
			revEdge[newIdx] = newIndexOf[ce.pairKey]
		}
	}
	geoFirstOut[numEdges] = uint32(len(geoShapeLat))

	// Step 3: build FirstOut via counting then prefix sum.
	for _, oldIdx := range order {
		firstOut[compact[oldIdx].from+1]++
	}
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	latArr := make([]float64, numNodes)
	lonArr := make([]float64, numNodes)
	for id, idx := range nodeSet {
		latArr[idx] = nodeLat[id]
		lonArr[idx] = nodeLon[id]
	}

	return &Graph{
		NumNodes:          numNodes,
		NumEdges:          numEdges,
		FirstOut:          firstOut,
		Head:              head,
		NodeLat:           latArr,
		NodeLon:           lonArr,
		DistanceMM:        distanceMM,
		SpeedKMH:          speedKMH,
		AccessFwd:         accessFwd,
		FootAccessFwd:     footAccessFwd,
		RoadClassAttr:     roadClass,
		RoadClassLinkAttr: roadClassLink,
		RoadEnvAttr:       roadEnv,
		RoundaboutAttr:    roundabout,
		NameID:            nameID,
		Names:             nameList,
		RevEdge:           revEdge,
		GeoFirstOut:       geoFirstOut,
		GeoShapeLat:       geoShapeLat,
		GeoShapeLon:       geoShapeLon,
	}
}
