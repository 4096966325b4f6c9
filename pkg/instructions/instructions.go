// Package instructions is the turn-by-turn instruction synthesizer: it
// walks a reconstructed Path's edges and emits a minimal, human-useful
// sequence of navigation instructions by fusing geometry (bearings),
// topology (junction alternatives), and road semantics (names, class,
// roundabout, environment).
//
// Instructions are a tagged variant (Kind + Sign) rather than an
// interface hierarchy, so the hot per-edge loop never pays for virtual
// dispatch.
package instructions

import (
	"math"

	"turnguide/pkg/geo"
	"turnguide/pkg/graph"
	"turnguide/pkg/path"
	"turnguide/pkg/weighting"
)

// Kind is the instruction variant.
type Kind int

const (
	KindContinue Kind = iota
	KindTurn
	KindRoundabout
	KindFerry
	KindFinish
)

func (k Kind) String() string {
	switch k {
	case KindContinue:
		return "continue"
	case KindTurn:
		return "turn"
	case KindRoundabout:
		return "roundabout"
	case KindFerry:
		return "ferry"
	case KindFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// Sign refines KindTurn (and is SignContinue for every other kind).
type Sign int

const (
	SignContinue Sign = iota
	SignSlightLeft
	SignLeft
	SignSharpLeft
	SignSlightRight
	SignRight
	SignSharpRight
	SignUTurnLeft
	SignUTurnRight
	SignKeepLeft
	SignKeepRight
	SignIgnore
)

func (s Sign) String() string {
	switch s {
	case SignSlightLeft:
		return "slight_left"
	case SignLeft:
		return "left"
	case SignSharpLeft:
		return "sharp_left"
	case SignSlightRight:
		return "slight_right"
	case SignRight:
		return "right"
	case SignSharpRight:
		return "sharp_right"
	case SignUTurnLeft:
		return "u_turn_left"
	case SignUTurnRight:
		return "u_turn_right"
	case SignKeepLeft:
		return "keep_left"
	case SignKeepRight:
		return "keep_right"
	case SignIgnore:
		return "ignore"
	default:
		return "continue"
	}
}

// Instruction is one entry of the synthesized turn-by-turn list.
// ExitNumber and TurnAngle are only meaningful for KindRoundabout.
type Instruction struct {
	Kind       Kind
	Sign       Sign
	Name       string
	DistanceM  float64
	TimeMillis int64
	FirstPoint int
	LastPoint  int
	ExitNumber int
	TurnAngle  float64
	Exited     bool
}

// Options carries the tunable thresholds of the state machine, broken
// out of hardcoded constants so callers can tune them per profile
// (e.g. a tighter slight-turn band for pedestrians).
type Options struct {
	StraightMaxRad float64
	SlightMaxRad   float64
	NormalMaxRad   float64
	SharpMaxRad    float64
}

// DefaultOptions mirrors the band thresholds in pkg/geo.
func DefaultOptions() Options {
	return Options{
		StraightMaxRad: geo.StraightMaxRad,
		SlightMaxRad:   geo.SlightMaxRad,
		NormalMaxRad:   geo.NormalMaxRad,
		SharpMaxRad:    geo.SharpMaxRad,
	}
}

func (o Options) classify(delta float64) geo.AngleBand {
	d := math.Abs(delta)
	switch {
	case d < o.StraightMaxRad:
		return geo.BandStraight
	case d < o.SlightMaxRad:
		return geo.BandSlight
	case d < o.NormalMaxRad:
		return geo.BandNormal
	case d < o.SharpMaxRad:
		return geo.BandSharp
	default:
		return geo.BandUTurn
	}
}

// Synthesize walks p's edges and produces the instruction list. An
// unfound or empty path yields (nil, nil) — spec's EmptyPath case,
// which is not an error.
func Synthesize(p *path.Path, g *graph.Graph, w weighting.Weighting, opts Options) ([]Instruction, error) {
	if p == nil || !p.Found || len(p.Edges) == 0 {
		return nil, nil
	}
	edges := p.Edges

	list := make([]Instruction, 0, len(edges))
	pointIdx := 0

	cur := newInstruction(KindContinue, SignContinue, edges[0], pointIdx)
	consumeEdge(cur, edges[0], w, &pointIdx)

	var inRoundabout bool
	var entryBearingRad, roundaboutTurnSum float64
	if edges[0].Roundabout() {
		inRoundabout = true
		entryBearingRad = exitBearing(edges[0])
		cur.Kind = KindRoundabout
		cur.ExitNumber = 1
	}

	for i := 1; i < len(edges); i++ {
		prevEdge := edges[i-1]
		e := edges[i]
		v := e.BaseNode

		handled := false
		forceNew := false

		enteringFerry := prevEdge.RoadEnv() != graph.EnvFerry && e.RoadEnv() == graph.EnvFerry
		leavingFerry := prevEdge.RoadEnv() == graph.EnvFerry && e.RoadEnv() != graph.EnvFerry

		switch {
		case enteringFerry:
			list = append(list, *cur)
			cur = newInstruction(KindFerry, SignContinue, e, pointIdx)
			handled = true

		case leavingFerry:
			list = append(list, *cur)
			sign := forcedTurnSign(prevEdge, e, opts)
			cur = newInstruction(KindTurn, sign, e, pointIdx)
			handled = true

		case e.Roundabout() && !prevEdge.Roundabout():
			list = append(list, *cur)
			cur = newInstruction(KindRoundabout, SignContinue, e, pointIdx)
			cur.ExitNumber = 1
			inRoundabout = true
			entryBearingRad = entryBearing(prevEdge)
			roundaboutTurnSum = 0
			handled = true

		case inRoundabout && e.Roundabout():
			for _, a := range alternativesAt(g, w, v, prevEdge) {
				if !a.Roundabout() {
					cur.ExitNumber++
				}
			}
			roundaboutTurnSum += turnDelta(prevEdge, e)
			handled = true

		case inRoundabout && !e.Roundabout():
			roundaboutTurnSum += turnDelta(prevEdge, e)
			clockwise := roundaboutTurnSum > 0
			cur.TurnAngle = geo.RoundaboutTurnAngle(entryBearingRad, exitBearing(e), clockwise)
			cur.Exited = true
			list = append(list, *cur)
			cur = nil
			inRoundabout = false
			forceNew = true
		}

		if !handled {
			kind, sign, emit := decideTurn(g, w, opts, prevEdge, e, v)
			if forceNew {
				emit = true
			}
			if emit {
				if cur != nil {
					list = append(list, *cur)
				}
				cur = newInstruction(kind, sign, e, pointIdx)
			}
		}

		consumeEdge(cur, e, w, &pointIdx)
	}

	list = append(list, *cur)
	list = append(list, Instruction{Kind: KindFinish, FirstPoint: pointIdx, LastPoint: pointIdx})
	return list, nil
}

func newInstruction(kind Kind, sign Sign, e graph.EdgeView, pointIdx int) *Instruction {
	return &Instruction{Kind: kind, Sign: sign, Name: e.Name(), FirstPoint: pointIdx, LastPoint: pointIdx}
}

func consumeEdge(cur *Instruction, e graph.EdgeView, w weighting.Weighting, pointIdx *int) {
	cur.DistanceM += e.Distance()
	cur.TimeMillis += w.EdgeMillis(e)
	*pointIdx += 1 + int(e.PillarCount())
	cur.LastPoint = *pointIdx
}

// decideTurn implements spec step 7 (the non-ferry, non-roundabout
// junction decision). It reports the instruction to open (kind, sign)
// and whether to emit at all — emit=false means "extend the current
// instruction, no new one".
func decideTurn(g *graph.Graph, w weighting.Weighting, opts Options, prevEdge, e graph.EdgeView, v uint32) (kind Kind, sign Sign, emit bool) {
	alts := alternativesAt(g, w, v, prevEdge)
	delta := turnDelta(prevEdge, e)
	band := opts.classify(delta)
	sameName := prevEdge.Name() == e.Name()

	switch band {
	case geo.BandUTurn:
		if sameName {
			if delta < 0 {
				return KindTurn, SignUTurnLeft, true
			}
			return KindTurn, SignUTurnRight, true
		}
		if delta < 0 {
			return KindTurn, SignSharpLeft, true
		}
		return KindTurn, SignSharpRight, true

	case geo.BandStraight:
		if sameName {
			return KindContinue, SignContinue, false
		}
		if len(alts) <= 1 {
			// Forced continuation: no real alternative at this junction.
			return KindContinue, SignContinue, false
		}
		return KindContinue, SignContinue, true

	case geo.BandSlight:
		comparable, compAlt := comparableSlightAlternative(prevEdge, e, alts, delta, opts)
		motorwayish := isMotorwayOrTrunk(prevEdge) && isMotorwayOrTrunk(e)
		if comparable && motorwayish && (compAlt.RoadClassLink() || prevEdge.RoadClassLink() || e.RoadClassLink()) {
			return KindContinue, SignContinue, false
		}
		if comparable {
			if delta < 0 {
				return KindTurn, SignSlightLeft, true
			}
			return KindTurn, SignSlightRight, true
		}
		if sameName {
			return KindContinue, SignContinue, false
		}
		if delta < 0 {
			return KindTurn, SignSlightLeft, true
		}
		return KindTurn, SignSlightRight, true

	case geo.BandNormal:
		if delta < 0 {
			return KindTurn, SignLeft, true
		}
		return KindTurn, SignRight, true

	default: // BandSharp
		if delta < 0 {
			return KindTurn, SignSharpLeft, true
		}
		return KindTurn, SignSharpRight, true
	}
}

// forcedTurnSign classifies a turn purely by angle, ignoring the
// alternative-based suppression rules — used when leaving a ferry,
// where spec mandates a turn instruction "regardless".
func forcedTurnSign(prevEdge, e graph.EdgeView, opts Options) Sign {
	delta := turnDelta(prevEdge, e)
	switch opts.classify(delta) {
	case geo.BandSlight:
		if delta < 0 {
			return SignSlightLeft
		}
		return SignSlightRight
	case geo.BandNormal:
		if delta < 0 {
			return SignLeft
		}
		return SignRight
	case geo.BandSharp:
		if delta < 0 {
			return SignSharpLeft
		}
		return SignSharpRight
	case geo.BandUTurn:
		if delta < 0 {
			return SignUTurnLeft
		}
		return SignUTurnRight
	default:
		return SignContinue
	}
}

// comparableSlightAlternative looks for another alternative at the
// junction (besides e) whose turn angle from prevEdge also falls in
// the slight band on the same side as e's — the ambiguity that forces
// an explicit slight-turn instruction rather than silent continuation.
func comparableSlightAlternative(prevEdge, e graph.EdgeView, alts []graph.EdgeView, deltaE float64, opts Options) (bool, graph.EdgeView) {
	for _, a := range alts {
		if a.EdgeID == e.EdgeID {
			continue
		}
		d := turnDelta(prevEdge, a)
		if opts.classify(d) == geo.BandSlight && sameSign(d, deltaE) {
			return true, a
		}
	}
	return false, graph.EdgeView{}
}

func sameSign(a, b float64) bool {
	return (a < 0) == (b < 0)
}

func isMotorwayOrTrunk(e graph.EdgeView) bool {
	return e.RoadClass() == graph.RoadClassMotorway || e.RoadClass() == graph.RoadClassTrunk
}

// alternativesAt returns the outgoing edges at v that are routable
// under w and are not the reverse of prevEdge, matched by edge id (not
// node id) so parallel edges between the same two nodes are handled
// correctly.
func alternativesAt(g *graph.Graph, w weighting.Weighting, v uint32, prevEdge graph.EdgeView) []graph.EdgeView {
	all := g.Alternatives(v)
	prevRev := g.RevEdge[prevEdge.EdgeID]
	out := make([]graph.EdgeView, 0, len(all))
	for _, a := range all {
		if a.EdgeID == prevRev {
			continue
		}
		if !weighting.Routable(w, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// entryBearing is the bearing of the final segment arriving at e's
// adjacent (far) node.
func entryBearing(e graph.EdgeView) float64 {
	pts := e.Geometry()
	from := e.BaseLatLon()
	if len(pts) > 0 {
		last := pts[len(pts)-1]
		from = graph.Point{Lat: last.Lat, Lon: last.Lon}
	}
	to := e.AdjLatLon()
	return geo.CalcOrientation(from.Lat, from.Lon, to.Lat, to.Lon)
}

// exitBearing is the bearing of the first segment leaving e's base
// (near) node.
func exitBearing(e graph.EdgeView) float64 {
	from := e.BaseLatLon()
	to := e.AdjLatLon()
	if pts := e.Geometry(); len(pts) > 0 {
		to = graph.Point{Lat: pts[0].Lat, Lon: pts[0].Lon}
	}
	return geo.CalcOrientation(from.Lat, from.Lon, to.Lat, to.Lon)
}

func turnDelta(prevEdge, e graph.EdgeView) float64 {
	return geo.TurnAngle(entryBearing(prevEdge), exitBearing(e))
}
