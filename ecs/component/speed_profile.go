package component

import "github.com/milk9111/droplet/curve"

// SpeedProfile holds the locomotion tunables of the droplet. Speeds are in
// units per second. The profile is read-only during a tick and is only ever
// replaced as a whole.
type SpeedProfile struct {
	Liquid  StateSpeeds
	Solid   StateSpeeds
	Gazeous GazeousSpeeds

	FallMax float64

	Splash             SplashTuning
	SlideDash          SlideDashTuning
	GazeousDashImpulse float64

	OilFactor float64
}

// StateSpeeds are the walking tunables of a grounded state.
type StateSpeeds struct {
	AscendingMax     float64
	AscendingMin     float64
	DescendingMax    float64
	FlatMax          float64
	FlatAcceleration float64

	AscendingFactor             float64
	AscendingFactorEmptyStamina float64
	DescendingFactor            float64
}

type GazeousSpeeds struct {
	FlyMax       float64
	Acceleration float64
}

type SplashTuning struct {
	Duration         float64
	SuccessThreshold float64
	FailureThreshold float64
	BoostFactor      float64
	// GroundDistance is how far the ground must be below a falling droplet
	// for its landing to count as a splash.
	GroundDistance float64
	Curve          curve.Curve
}

type SlideDashTuning struct {
	Duration float64
	// NoMovementImpulse is the forward speed used when the droplet
	// solidifies while standing still.
	NoMovementImpulse float64
	Curve             curve.Curve
}

// Walking returns the grounded tunables for s. Gazeous and None have none.
func (p *SpeedProfile) Walking(s MaterialState) (StateSpeeds, bool) {
	if p == nil {
		return StateSpeeds{}, false
	}
	switch s {
	case MaterialLiquid:
		return p.Liquid, true
	case MaterialSolid:
		return p.Solid, true
	}
	return StateSpeeds{}, false
}

var SpeedProfileComponent = NewComponent[SpeedProfile]()
