// Package weighting provides the weighting collaborator the path
// reconstructor and instruction synthesizer consult to decide whether
// an edge or turn is traversable and how long it takes.
package weighting

import (
	"math"

	"turnguide/pkg/graph"
)

// Weighting answers traversal-cost questions for one routing profile.
// EdgeWeight returning +Inf means the edge is not traversable in the
// direction the EdgeView represents; callers must treat that as
// "excluded from alternatives", not as an error.
type Weighting interface {
	EdgeWeight(e graph.EdgeView) float64
	EdgeMillis(e graph.EdgeView) int64
	TurnWeight(inEdgeID, viaNode, outEdgeID uint32) float64
	TurnMillis(inEdgeID, viaNode, outEdgeID uint32) int64
	HasTurnCosts() bool
}

const minSpeedKMH = 1.0 // guards against div-by-zero on malformed data

func edgeMillis(distanceM, speedKMH float64) int64 {
	if speedKMH < minSpeedKMH {
		speedKMH = minSpeedKMH
	}
	hours := distanceM / 1000.0 / speedKMH
	return int64(hours * 3_600_000)
}

// Car is the default driving weighting: traversable edges are those
// with car access in the direction traveled, weighted by travel time.
type Car struct{}

func (Car) EdgeWeight(e graph.EdgeView) float64 {
	if !e.Access() {
		return math.Inf(1)
	}
	return float64(edgeMillis(e.Distance(), e.Speed()))
}

func (Car) EdgeMillis(e graph.EdgeView) int64 {
	if !e.Access() {
		return 0
	}
	return edgeMillis(e.Distance(), e.Speed())
}

func (Car) TurnWeight(inEdgeID, viaNode, outEdgeID uint32) float64 { return 0 }
func (Car) TurnMillis(inEdgeID, viaNode, outEdgeID uint32) int64   { return 0 }
func (Car) HasTurnCosts() bool                                     { return false }

// footSpeedKMH is a constant walking pace; pedestrian travel time does
// not depend on the posted vehicle speed limit of the edge.
const footSpeedKMH = 5.0

// Foot is the walking weighting: traversable edges are those with foot
// access, regardless of car access — this is what lets the same graph
// produce different instructions for testFootAndCar_issue3081-style
// fixtures under the two profiles.
type Foot struct{}

func (Foot) EdgeWeight(e graph.EdgeView) float64 {
	if !e.FootAccess() {
		return math.Inf(1)
	}
	return float64(edgeMillis(e.Distance(), footSpeedKMH))
}

func (Foot) EdgeMillis(e graph.EdgeView) int64 {
	if !e.FootAccess() {
		return 0
	}
	return edgeMillis(e.Distance(), footSpeedKMH)
}

func (Foot) TurnWeight(inEdgeID, viaNode, outEdgeID uint32) float64 { return 0 }
func (Foot) TurnMillis(inEdgeID, viaNode, outEdgeID uint32) int64   { return 0 }
func (Foot) HasTurnCosts() bool                                     { return false }

// Routable reports whether e has finite weight under w — the
// routability-under-weighting predicate used to decide which outgoing
// edges at a junction count as real alternatives.
func Routable(w Weighting, e graph.EdgeView) bool {
	return !math.IsInf(w.EdgeWeight(e), 1)
}
