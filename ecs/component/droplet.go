package component

// StateDurationPolicy is how long a non-liquid state lasts and how long the
// droplet must wait afterwards before changing state again.
type StateDurationPolicy struct {
	Duration float64 `yaml:"duration"`
	Cooldown float64 `yaml:"cooldown"`
}

// DropletTuning groups the sensor and timing constants of the droplet.
type DropletTuning struct {
	Solid   StateDurationPolicy
	Gazeous StateDurationPolicy

	SlideDashBreakDuration float64
	DrillerDuration        float64

	FlatSurfaceTolerance    float64
	VelocityMovingTolerance float64
	LineTraceLength         float64
	SlopeDetectionThreshold float64
	MaxSlopeAngle           float64

	InteractRadius float64
}

func DefaultDropletTuning() DropletTuning {
	return DropletTuning{
		Solid:                   StateDurationPolicy{Duration: 8, Cooldown: 2},
		Gazeous:                 StateDurationPolicy{Duration: 8, Cooldown: 2},
		SlideDashBreakDuration:  1,
		DrillerDuration:         1,
		FlatSurfaceTolerance:    0.1,
		VelocityMovingTolerance: 0.1,
		LineTraceLength:         100,
		SlopeDetectionThreshold: 1,
		MaxSlopeAngle:           45,
		InteractRadius:          150,
	}
}

// Policy returns the duration policy of s. Liquid and None have none.
func (t *DropletTuning) Policy(s MaterialState) (StateDurationPolicy, bool) {
	if t == nil {
		return StateDurationPolicy{}, false
	}
	switch s {
	case MaterialSolid:
		return t.Solid, true
	case MaterialGazeous:
		return t.Gazeous, true
	}
	return StateDurationPolicy{}, false
}

// Droplet is the per-character state of the material controller.
type Droplet struct {
	Tuning DropletTuning

	// Strategy is the state whose movement strategy is bound. MaterialNone
	// means no strategy and Move requests are ignored.
	Strategy MaterialState

	Markers MarkerSet

	Splash         Overlay
	SlideDash      Overlay
	SlideDashBreak Window

	CanSplash           bool
	JustChangedState    bool
	CurrentFallingSpeed float64
	TargetMaxSpeed      float64

	CurrentDuration float64
	CurrentCooldown float64

	UnderOil bool

	DebugSpeed        bool
	DebugInteractions bool
}

var DropletComponent = NewComponent[Droplet]()

func NewDroplet(tuning DropletTuning) Droplet {
	return Droplet{Tuning: tuning}
}

// OverlayActive reports whether a translational overlay drives velocity.
func (d *Droplet) OverlayActive() bool {
	return d != nil && (d.Splash.Active || d.SlideDash.Active)
}

// StateVisual is what the droplet looks like in one state.
type StateVisual struct {
	Mesh         string
	Material     string
	InputContext string
}

// Appearance maps states to visuals and input contexts.
type Appearance struct {
	Liquid  StateVisual
	Solid   StateVisual
	Gazeous StateVisual

	DefaultContext string
}

// For returns the visual of s. None falls back to the liquid visual and the
// default input context.
func (a *Appearance) For(s MaterialState) StateVisual {
	if a == nil {
		return StateVisual{}
	}
	switch s {
	case MaterialSolid:
		return a.Solid
	case MaterialGazeous:
		return a.Gazeous
	case MaterialLiquid:
		return a.Liquid
	}
	v := a.Liquid
	v.InputContext = a.DefaultContext
	return v
}

var AppearanceComponent = NewComponent[Appearance]()
