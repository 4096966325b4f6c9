package geo

import "math"

// Angle bands used to classify a turn at a junction, in radians.
// Thresholds follow the literal values from the routing engine's own
// fixtures rather than a tunable config, since they are geometric
// constants, not policy.
const (
	StraightMaxRad = 0.2
	SlightMaxRad   = 0.8
	NormalMaxRad   = 2.3
	SharpMaxRad    = 2.9
)

// CalcOrientation returns the bearing from (lat1,lon1) to (lat2,lon2) in
// (-pi, pi], measured as a signed angle relative to east with
// counter-clockwise increasing (due north is pi/2, due south -pi/2).
// Degenerate (zero-length) segments return 0.
func CalcOrientation(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	if dLat == 0 && dLon == 0 {
		return 0
	}
	return math.Atan2(dLat, dLon)
}

// AlignOrientation shifts x by a multiple of 2*pi so that it lies within
// pi of ref. Used before subtracting two bearings so the result doesn't
// wrap around the +-pi branch cut.
func AlignOrientation(ref, x float64) float64 {
	for x-ref > math.Pi {
		x -= 2 * math.Pi
	}
	for ref-x > math.Pi {
		x += 2 * math.Pi
	}
	return x
}

// normalizeAngle folds a into (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// TurnAngle returns the signed turn angle at a junction given the
// incoming bearing (direction of travel arriving at the junction) and
// the outgoing bearing (direction of travel leaving it), normalized to
// (-pi, pi]. Negative is left, positive is right.
func TurnAngle(inBearing, outBearing float64) float64 {
	aligned := AlignOrientation(inBearing, outBearing)
	return normalizeAngle(aligned - inBearing)
}

// AngleBand classifies a signed turn angle (as returned by TurnAngle)
// into one of the instruction bands.
type AngleBand int

const (
	BandStraight AngleBand = iota
	BandSlight
	BandNormal
	BandSharp
	BandUTurn
)

// ClassifyAngle buckets the magnitude of a turn angle into a band.
// The sign of delta (not returned here) determines left vs. right.
func ClassifyAngle(delta float64) AngleBand {
	abs := math.Abs(delta)
	switch {
	case abs < StraightMaxRad:
		return BandStraight
	case abs < SlightMaxRad:
		return BandSlight
	case abs < NormalMaxRad:
		return BandNormal
	case abs < SharpMaxRad:
		return BandSharp
	default:
		return BandUTurn
	}
}

// RoundaboutTurnAngle computes the signed exit angle of a roundabout
// traversal from the bearing of the entry tangent to the bearing of the
// exit tangent. clockwise indicates the direction of travel around the
// circle (true = clockwise, i.e. driving on the left).
func RoundaboutTurnAngle(entryBearing, exitBearing float64, clockwise bool) float64 {
	delta := TurnAngle(entryBearing, exitBearing)
	if clockwise {
		return math.Pi + delta
	}
	return -(math.Pi - delta)
}
