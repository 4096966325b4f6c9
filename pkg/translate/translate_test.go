package translate

import (
	"strings"
	"testing"

	"turnguide/pkg/instructions"
)

func TestEnglishRenderContinueWithName(t *testing.T) {
	got := English{}.Render(instructions.Instruction{Kind: instructions.KindContinue, Name: "Main St"})
	if got != "Continue onto Main St" {
		t.Errorf("Render() = %q, want %q", got, "Continue onto Main St")
	}
}

func TestEnglishRenderContinueUnnamed(t *testing.T) {
	got := English{}.Render(instructions.Instruction{Kind: instructions.KindContinue})
	if got != "Continue" {
		t.Errorf("Render() = %q, want %q", got, "Continue")
	}
}

func TestEnglishRenderTurn(t *testing.T) {
	got := English{}.Render(instructions.Instruction{Kind: instructions.KindTurn, Sign: instructions.SignSlightRight, Name: "Exit Ramp"})
	want := "Turn slight right onto Exit Ramp"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestEnglishRenderRoundaboutExit(t *testing.T) {
	got := English{}.Render(instructions.Instruction{
		Kind: instructions.KindRoundabout, Exited: true, ExitNumber: 3, Name: "High St",
	})
	if !strings.Contains(got, "exit 3") || !strings.Contains(got, "High St") {
		t.Errorf("Render() = %q, want it to mention exit 3 and High St", got)
	}
}

func TestEnglishRenderRoundaboutEntry(t *testing.T) {
	got := English{}.Render(instructions.Instruction{Kind: instructions.KindRoundabout, Exited: false})
	if got != "Enter the roundabout" {
		t.Errorf("Render() = %q, want %q", got, "Enter the roundabout")
	}
}

func TestEnglishRenderFinish(t *testing.T) {
	got := English{}.Render(instructions.Instruction{Kind: instructions.KindFinish})
	if got != "You have arrived at your destination" {
		t.Errorf("Render() = %q, want arrival message", got)
	}
}

func TestEnglishRenderFerry(t *testing.T) {
	got := English{}.Render(instructions.Instruction{Kind: instructions.KindFerry, Name: "Cross Sound Ferry"})
	if !strings.HasPrefix(got, "Take the ferry") || !strings.Contains(got, "Cross Sound Ferry") {
		t.Errorf("Render() = %q, want a ferry message mentioning the name", got)
	}
}

func TestEnglishRenderUTurn(t *testing.T) {
	left := English{}.Render(instructions.Instruction{Kind: instructions.KindTurn, Sign: instructions.SignUTurnLeft})
	right := English{}.Render(instructions.Instruction{Kind: instructions.KindTurn, Sign: instructions.SignUTurnRight})
	if left != right {
		t.Errorf("expected both U-turn signs to render identically in English, got %q vs %q", left, right)
	}
	if left != "Make a U-turn" {
		t.Errorf("Render() = %q, want %q", left, "Make a U-turn")
	}
}
