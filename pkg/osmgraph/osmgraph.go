// Package osmgraph builds a graph.Graph from an OSM PBF extract. It
// extends the two-pass way/node scan pattern with a third pass that
// collapses each way's node chain into tower-to-tower segments, so a
// long residential street between two intersections becomes one edge
// with interior shape nodes as pillars rather than one edge per
// way-node pair.
package osmgraph

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"turnguide/pkg/geo"
	"turnguide/pkg/graph"
)

// BBox restricts ingestion to a geographic bounding box. The zero value
// means unrestricted.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

func (b BBox) isZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLon == 0 && b.MaxLon == 0
}

func (b BBox) contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Options configures ingestion.
type Options struct {
	BBox BBox
}

// carHighways lists highway tag values that a motor vehicle may use.
var carHighways = map[string]bool{
	"motorway": true, "motorway_link": true,
	"trunk": true, "trunk_link": true,
	"primary": true, "primary_link": true,
	"secondary": true, "secondary_link": true,
	"tertiary": true, "tertiary_link": true,
	"unclassified": true, "residential": true,
	"living_street": true, "service": true,
}

// footHighways lists highway tag values walkable by default even
// though they carry no car access at all.
var footHighways = map[string]bool{
	"footway": true, "path": true, "pedestrian": true,
	"steps": true, "living_street": true, "track": true,
}

var defaultSpeedKMH = map[graph.RoadClass]float64{
	graph.RoadClassMotorway:     110,
	graph.RoadClassTrunk:        90,
	graph.RoadClassPrimary:      65,
	graph.RoadClassSecondary:    55,
	graph.RoadClassTertiary:     45,
	graph.RoadClassResidential:  30,
	graph.RoadClassUnclassified: 40,
	graph.RoadClassService:      15,
	graph.RoadClassOther:        30,
}

const ferrySpeedKMH = 15.0

var maxspeedLeadingNum = regexp.MustCompile(`^(\d+(\.\d+)?)`)

// roadClassOf maps a highway tag to a RoadClass, stripping the "_link"
// suffix that marks ramps and slip roads.
func roadClassOf(highway string) (class graph.RoadClass, link bool) {
	base := strings.TrimSuffix(highway, "_link")
	link = base != highway
	switch base {
	case "motorway":
		return graph.RoadClassMotorway, link
	case "trunk":
		return graph.RoadClassTrunk, link
	case "primary":
		return graph.RoadClassPrimary, link
	case "secondary":
		return graph.RoadClassSecondary, link
	case "tertiary":
		return graph.RoadClassTertiary, link
	case "residential", "living_street":
		return graph.RoadClassResidential, link
	case "unclassified":
		return graph.RoadClassUnclassified, link
	case "service":
		return graph.RoadClassService, link
	default:
		return graph.RoadClassOther, link
	}
}

func roadEnvOf(tags osm.Tags, isFerry bool) graph.RoadEnvironment {
	switch {
	case isFerry:
		return graph.EnvFerry
	case tags.Find("tunnel") == "yes":
		return graph.EnvTunnel
	case tags.Find("bridge") == "yes":
		return graph.EnvBridge
	case tags.Find("ford") == "yes":
		return graph.EnvFord
	default:
		return graph.EnvRoad
	}
}

func speedOf(tags osm.Tags, class graph.RoadClass, isFerry bool) float64 {
	if isFerry {
		return ferrySpeedKMH
	}
	if ms := strings.TrimSpace(tags.Find("maxspeed")); ms != "" {
		if m := maxspeedLeadingNum.FindStringSubmatch(ms); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				if strings.Contains(ms, "mph") {
					v *= 1.60934
				}
				return v
			}
		}
	}
	return defaultSpeedKMH[class]
}

// carDirection reports (forward, backward) car traversal for a way,
// folding implied-oneway rules (motorways, roundabouts) together with
// an explicit oneway tag.
func carDirection(tags osm.Tags, drivable bool) (fwd, bwd bool) {
	if !drivable {
		return false, false
	}
	fwd, bwd = true, true
	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		bwd = false
	}
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		fwd, bwd = true, false
	case "-1", "reverse":
		fwd, bwd = false, true
	case "no":
		fwd, bwd = true, true
	case "reversible", "alternating":
		fwd, bwd = false, false
	}
	return fwd, bwd
}

// footAllowed reports whether pedestrians may use the way at all. Foot
// traffic ignores a car oneway restriction, so this is
// direction-independent; oneway:foot is not read.
func footAllowed(tags osm.Tags, class graph.RoadClass, isFerry bool) bool {
	switch tags.Find("foot") {
	case "no":
		return false
	case "yes", "designated", "permissive":
		return true
	}
	if isFerry {
		return true
	}
	if class == graph.RoadClassMotorway {
		return false
	}
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	return true
}

func isDrivable(tags osm.Tags, isFerry bool) bool {
	if isFerry {
		return true
	}
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}
	if tags.Find("area") == "yes" {
		return false
	}
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}
	return true
}

func isWalkable(tags osm.Tags, drivable bool, class graph.RoadClass, isFerry bool) bool {
	hw := tags.Find("highway")
	if !drivable && !footHighways[hw] && !isFerry {
		return false
	}
	return footAllowed(tags, class, isFerry)
}

// wayInfo is the attributed, per-way result of pass 1.
type wayInfo struct {
	nodeIDs       []osm.NodeID
	carFwd, carBwd bool
	footOK        bool
	class         graph.RoadClass
	link          bool
	env           graph.RoadEnvironment
	roundabout    bool
	name          string
	speedKMH      float64
}

// Parse reads an OSM PBF extract and returns a graph.Graph ready for
// routing. rs is consumed twice (rewound between passes), so it must
// support seeking.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...Options) (*graph.Graph, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	useBBox := !opt.BBox.isZero()

	var ways []wayInfo
	nodeOccur := make(map[osm.NodeID]int)

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}
		isFerry := w.Tags.Find("route") == "ferry"
		drivable := isDrivable(w.Tags, isFerry)
		class, link := roadClassOf(w.Tags.Find("highway"))
		walkable := isWalkable(w.Tags, drivable, class, isFerry)
		if !drivable && !walkable {
			continue
		}
		carFwd, carBwd := carDirection(w.Tags, drivable)
		foot := walkable
		if !carFwd && !carBwd && !foot {
			continue
		}

		ids := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			ids[i] = wn.ID
			nodeOccur[wn.ID]++
		}
		ways = append(ways, wayInfo{
			nodeIDs:    ids,
			carFwd:     carFwd,
			carBwd:     carBwd,
			footOK:     foot,
			class:      class,
			link:       link,
			env:        roadEnvOf(w.Tags, isFerry),
			roundabout: w.Tags.Find("junction") == "roundabout",
			name:       w.Tags.Find("name"),
			speedKMH:   speedOf(w.Tags, class, isFerry),
		})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()
	log.Printf("osmgraph: pass 1 complete: %d routable ways, %d referenced nodes", len(ways), len(nodeOccur))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}
	nodeLat := make(map[osm.NodeID]float64, len(nodeOccur))
	nodeLon := make(map[osm.NodeID]float64, len(nodeOccur))
	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := nodeOccur[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()
	log.Printf("osmgraph: pass 2 complete: %d node coordinates", len(nodeLat))

	var edges []graph.RawEdge[osm.NodeID]
	var skipped int
	for _, w := range ways {
		segStart := 0
		isJunction := func(idx int) bool {
			return idx == 0 || idx == len(w.nodeIDs)-1 || nodeOccur[w.nodeIDs[idx]] > 1
		}
		for i := 1; i < len(w.nodeIDs); i++ {
			if !isJunction(i) {
				continue
			}
			from, to := w.nodeIDs[segStart], w.nodeIDs[i]
			pillars := w.nodeIDs[segStart+1 : i]
			segStart = i

			fromLat, fromOk := nodeLat[from]
			fromLon := nodeLon[from]
			toLat, toOk := nodeLat[to]
			toLon := nodeLon[to]
			if !fromOk || !toOk {
				skipped++
				continue
			}
			if useBBox && (!opt.BBox.contains(fromLat, fromLon) || !opt.BBox.contains(toLat, toLon)) {
				continue
			}

			shapeLat := make([]float64, 0, len(pillars))
			shapeLon := make([]float64, 0, len(pillars))
			ok := true
			dist := 0.0
			prevLat, prevLon := fromLat, fromLon
			for _, p := range pillars {
				lat, latOk := nodeLat[p]
				lon := nodeLon[p]
				if !latOk {
					ok = false
					break
				}
				dist += geo.Haversine(prevLat, prevLon, lat, lon)
				shapeLat = append(shapeLat, lat)
				shapeLon = append(shapeLon, lon)
				prevLat, prevLon = lat, lon
			}
			if !ok {
				skipped++
				continue
			}
			dist += geo.Haversine(prevLat, prevLon, toLat, toLon)
			if dist == 0 {
				dist = 0.001
			}

			if w.carFwd || w.footOK {
				edges = append(edges, graph.RawEdge[osm.NodeID]{
					FromNode: from, ToNode: to, DistM: dist,
					SpeedKMH: w.speedKMH, AccessFwd: w.carFwd, FootAccessFwd: w.footOK,
					RoadClass: w.class, RoadClassLink: w.link, RoadEnv: w.env,
					Roundabout: w.roundabout, Name: w.name,
					ShapeLat: shapeLat, ShapeLon: shapeLon,
				})
			}
			if w.carBwd || w.footOK {
				revLat := reversed(shapeLat)
				revLon := reversed(shapeLon)
				edges = append(edges, graph.RawEdge[osm.NodeID]{
					FromNode: to, ToNode: from, DistM: dist,
					SpeedKMH: w.speedKMH, AccessFwd: w.carBwd, FootAccessFwd: w.footOK,
					RoadClass: w.class, RoadClassLink: w.link, RoadEnv: w.env,
					Roundabout: w.roundabout, Name: w.name,
					ShapeLat: revLat, ShapeLon: revLon,
				})
			}
		}
	}
	if skipped > 0 {
		log.Printf("osmgraph: skipped %d segments with missing node coordinates", skipped)
	}
	log.Printf("osmgraph: built %d directed edges", len(edges))

	return graph.Build(edges, nodeLat, nodeLon), nil
}

func reversed(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
