package component

import (
	"fmt"
	"strings"
)

// MaterialState is the physical state of the droplet.
type MaterialState int

const (
	MaterialNone MaterialState = iota
	MaterialLiquid
	MaterialSolid
	MaterialGazeous
)

// MaterialStates lists the playable states in cycle order.
var MaterialStates = []MaterialState{MaterialLiquid, MaterialSolid, MaterialGazeous}

func (s MaterialState) String() string {
	switch s {
	case MaterialLiquid:
		return "liquid"
	case MaterialSolid:
		return "solid"
	case MaterialGazeous:
		return "gazeous"
	default:
		return "none"
	}
}

func (s MaterialState) Playable() bool {
	return s == MaterialLiquid || s == MaterialSolid || s == MaterialGazeous
}

func ParseMaterialState(s string) (MaterialState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "liquid":
		return MaterialLiquid, nil
	case "solid":
		return MaterialSolid, nil
	case "gazeous", "gaseous", "gas":
		return MaterialGazeous, nil
	case "", "none":
		return MaterialNone, nil
	}
	return MaterialNone, fmt.Errorf("unknown material state %q", s)
}

func (s MaterialState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *MaterialState) UnmarshalText(text []byte) error {
	v, err := ParseMaterialState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// StateController mirrors the droplet's material state the way the player
// controller sees it, including the state it came from and the timers that
// return it to liquid.
type StateController struct {
	Current  MaterialState
	Previous MaterialState

	// Remaining seconds before an automatic return to liquid; zero when idle.
	ReturnTimer float64
	// Remaining seconds during which new transitions are refused.
	CooldownTimer float64
	// NoTimeLimit disables the automatic return to liquid.
	NoTimeLimit bool
}

var StateControllerComponent = NewComponent[StateController]()

// MaterialStateRequest asks the material state system to transition on its
// next update. Requests are removed once consumed.
type MaterialStateRequest struct {
	State           MaterialState
	PlayerInitiated bool
}

var MaterialStateRequestComponent = NewComponent[MaterialStateRequest]()
