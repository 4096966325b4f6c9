// Package translate renders an Instruction into localized display
// text. Locale lookup and message-catalog loading are out of scope for
// this module — Translator is the seam a real i18n layer would plug
// into; English is a minimal passthrough implementation good enough to
// drive a demo CLI or test assertions.
package translate

import (
	"fmt"

	"turnguide/pkg/instructions"
)

// Translator renders one instruction's sign, street name, and (for
// roundabouts) exit number into display text. The core synthesizer
// never concatenates localized text itself; it only produces the
// typed Instruction values this interface consumes.
type Translator interface {
	Render(in instructions.Instruction) string
}

// English is a minimal, non-localized Translator.
type English struct{}

func (English) Render(in instructions.Instruction) string {
	switch in.Kind {
	case instructions.KindFinish:
		return "You have arrived at your destination"
	case instructions.KindFerry:
		return withStreet("Take the ferry", in.Name)
	case instructions.KindRoundabout:
		if !in.Exited {
			return "Enter the roundabout"
		}
		return withStreet(fmt.Sprintf("At the roundabout, take exit %d", in.ExitNumber), in.Name)
	case instructions.KindContinue:
		return withStreet("Continue", in.Name)
	case instructions.KindTurn:
		return withStreet(signText(in.Sign), in.Name)
	default:
		return withStreet(signText(in.Sign), in.Name)
	}
}

func withStreet(prefix, name string) string {
	if name == "" {
		return prefix
	}
	return prefix + " onto " + name
}

func signText(s instructions.Sign) string {
	switch s {
	case instructions.SignContinue:
		return "Continue"
	case instructions.SignSlightLeft:
		return "Turn slight left"
	case instructions.SignLeft:
		return "Turn left"
	case instructions.SignSharpLeft:
		return "Turn sharp left"
	case instructions.SignSlightRight:
		return "Turn slight right"
	case instructions.SignRight:
		return "Turn right"
	case instructions.SignSharpRight:
		return "Turn sharp right"
	case instructions.SignUTurnLeft, instructions.SignUTurnRight:
		return "Make a U-turn"
	case instructions.SignKeepLeft:
		return "Keep left"
	case instructions.SignKeepRight:
		return "Keep right"
	default:
		return "Continue"
	}
}
