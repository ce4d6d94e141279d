package prefabs

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/curve"
	"github.com/milk9111/droplet/ecs/component"
)

const defaultCurveSamples = 32

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
}

type CapsuleComponentSpec struct {
	Radius     float64 `yaml:"radius"`
	HalfHeight float64 `yaml:"half_height"`
}

type MovementComponentSpec struct {
	Forward Vec3Spec `yaml:"forward"`
}

type StateComponentSpec struct {
	Initial           string `yaml:"initial"`
	NoTimeLimit       bool   `yaml:"no_time_limit"`
	DebugSpeed        bool   `yaml:"debug_speed"`
	DebugInteractions bool   `yaml:"debug_interactions"`
}

type TuningComponentSpec struct {
	Solid                   component.StateDurationPolicy `yaml:"solid"`
	Gazeous                 component.StateDurationPolicy `yaml:"gazeous"`
	SlideDashBreakDuration  float64                       `yaml:"slide_dash_break_duration"`
	DrillerDuration         float64                       `yaml:"driller_duration"`
	FlatSurfaceTolerance    float64                       `yaml:"flat_surface_tolerance"`
	VelocityMovingTolerance float64                       `yaml:"velocity_moving_tolerance"`
	LineTraceLength         float64                       `yaml:"line_trace_length"`
	SlopeDetectionThreshold float64                       `yaml:"slope_detection_threshold"`
	MaxSlopeAngle           float64                       `yaml:"max_slope_angle"`
	InteractRadius          float64                       `yaml:"interact_radius"`
}

// CurveSpec names a response curve. Script wins over Keys, Keys over
// Constant. An empty spec is a constant 1.
type CurveSpec struct {
	Script   string      `yaml:"script"`
	Samples  int         `yaml:"samples"`
	Keys     []curve.Key `yaml:"keys"`
	Constant *float64    `yaml:"constant"`
}

type StateSpeedsSpec struct {
	AscendingMax                float64 `yaml:"ascending_max"`
	AscendingMin                float64 `yaml:"ascending_min"`
	DescendingMax               float64 `yaml:"descending_max"`
	FlatMax                     float64 `yaml:"flat_max"`
	FlatAcceleration            float64 `yaml:"flat_acceleration"`
	AscendingFactor             float64 `yaml:"ascending_factor"`
	AscendingFactorEmptyStamina float64 `yaml:"ascending_factor_empty_stamina"`
	DescendingFactor            float64 `yaml:"descending_factor"`
}

type GazeousSpeedsSpec struct {
	FlyMax       float64 `yaml:"fly_max"`
	Acceleration float64 `yaml:"acceleration"`
}

type SplashSpec struct {
	Duration         float64   `yaml:"duration"`
	SuccessThreshold float64   `yaml:"success_threshold"`
	FailureThreshold float64   `yaml:"failure_threshold"`
	BoostFactor      float64   `yaml:"boost_factor"`
	GroundDistance   float64   `yaml:"ground_distance"`
	Curve            CurveSpec `yaml:"curve"`
}

type SlideDashSpec struct {
	Duration          float64   `yaml:"duration"`
	NoMovementImpulse float64   `yaml:"no_movement_impulse"`
	Curve             CurveSpec `yaml:"curve"`
}

type SpeedProfileComponentSpec struct {
	Liquid             StateSpeedsSpec   `yaml:"liquid"`
	Solid              StateSpeedsSpec   `yaml:"solid"`
	Gazeous            GazeousSpeedsSpec `yaml:"gazeous"`
	FallMax            float64           `yaml:"fall_max"`
	Splash             SplashSpec        `yaml:"splash"`
	SlideDash          SlideDashSpec     `yaml:"slide_dash"`
	GazeousDashImpulse float64           `yaml:"gazeous_dash_impulse"`
	OilFactor          float64           `yaml:"oil_factor"`
}

type StaminaProfileSpec struct {
	Max                  float64 `yaml:"max"`
	JumpCost             float64 `yaml:"jump_cost"`
	RegenPerSecond       float64 `yaml:"regen_per_second"`
	DrainPerSecond       float64 `yaml:"drain_per_second"`
	AscendDrainPerSecond float64 `yaml:"ascend_drain_per_second"`
}

type StaminaComponentSpec struct {
	Initial       float64            `yaml:"initial"`
	Infinite      bool               `yaml:"infinite"`
	DebugMessages bool               `yaml:"debug_messages"`
	ShowDebugBar  bool               `yaml:"show_debug_bar"`
	Liquid        StaminaProfileSpec `yaml:"liquid"`
	Solid         StaminaProfileSpec `yaml:"solid"`
	Gazeous       StaminaProfileSpec `yaml:"gazeous"`
}

type StateVisualSpec struct {
	Mesh         string     `yaml:"mesh"`
	Material     string     `yaml:"material"`
	InputContext string     `yaml:"input_context"`
	Color        *YAMLColor `yaml:"color"`
}

type AppearanceComponentSpec struct {
	DefaultContext string          `yaml:"default_context"`
	Liquid         StateVisualSpec `yaml:"liquid"`
	Solid          StateVisualSpec `yaml:"solid"`
	Gazeous        StateVisualSpec `yaml:"gazeous"`
}

// DropletPrefab is a droplet build spec decoded into component values.
type DropletPrefab struct {
	Name string

	Transform component.Transform
	Capsule   component.Capsule
	Movement  component.Movement
	Tuning    component.DropletTuning
	Profile   component.SpeedProfile

	StaminaProfiles component.StaminaProfiles
	Stamina         component.Stamina

	Appearance component.Appearance
	Colors     map[component.MaterialState]color.Color

	InitialState      component.MaterialState
	NoTimeLimit       bool
	DebugSpeed        bool
	DebugInteractions bool
}

// LoadDroplet loads and builds the droplet prefab in filename.
func LoadDroplet(filename string) (*DropletPrefab, error) {
	spec, err := LoadEntityBuildSpec(filename)
	if err != nil {
		return nil, err
	}
	prefab, err := BuildDroplet(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: build %s: %w", filename, err)
	}
	return prefab, nil
}

// BuildDroplet decodes the components of spec. speed_profile and stamina
// are required; everything else has defaults.
func BuildDroplet(spec EntityBuildSpec) (*DropletPrefab, error) {
	p := &DropletPrefab{Name: spec.Name}

	transformSpec, err := DecodeComponentSpec[TransformComponentSpec](spec.Components["transform"])
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	p.Transform = component.Transform{Position: transformSpec.Position.Vec3()}

	capsuleSpec, err := DecodeComponentSpecInto(spec.Components["capsule"], CapsuleComponentSpec{Radius: 20, HalfHeight: 40})
	if err != nil {
		return nil, fmt.Errorf("capsule: %w", err)
	}
	if capsuleSpec.Radius <= 0 {
		return nil, fmt.Errorf("capsule radius %v: %w", capsuleSpec.Radius, ErrInvalidSpec)
	}
	p.Capsule = component.Capsule{Radius: capsuleSpec.Radius, HalfHeight: capsuleSpec.HalfHeight}

	movementSpec, err := DecodeComponentSpecInto(spec.Components["movement"], MovementComponentSpec{Forward: Vec3Spec{X: 1}})
	if err != nil {
		return nil, fmt.Errorf("movement: %w", err)
	}
	p.Movement = component.Movement{Mode: component.MovementFalling, Forward: movementSpec.Forward.Vec3()}

	if p.Tuning, err = buildTuning(spec.Components["tuning"]); err != nil {
		return nil, fmt.Errorf("tuning: %w", err)
	}

	stateSpec, err := DecodeComponentSpecInto(spec.Components["state"], StateComponentSpec{Initial: "liquid"})
	if err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}
	initial, err := component.ParseMaterialState(stateSpec.Initial)
	if err != nil || initial == component.MaterialNone {
		return nil, fmt.Errorf("state %q: %w", stateSpec.Initial, ErrInvalidSpec)
	}
	p.InitialState = initial
	p.NoTimeLimit = stateSpec.NoTimeLimit
	p.DebugSpeed = stateSpec.DebugSpeed
	p.DebugInteractions = stateSpec.DebugInteractions

	raw, ok := spec.Components["speed_profile"]
	if !ok {
		return nil, fmt.Errorf("speed_profile: %w", ErrInvalidSpec)
	}
	if p.Profile, err = buildSpeedProfile(raw); err != nil {
		return nil, fmt.Errorf("speed_profile: %w", err)
	}

	raw, ok = spec.Components["stamina"]
	if !ok {
		return nil, fmt.Errorf("stamina: %w", ErrInvalidSpec)
	}
	if err := buildStamina(p, raw); err != nil {
		return nil, fmt.Errorf("stamina: %w", err)
	}

	if err := buildAppearance(p, spec.Components["appearance"]); err != nil {
		return nil, fmt.Errorf("appearance: %w", err)
	}

	return p, nil
}

func buildTuning(raw any) (component.DropletTuning, error) {
	d := component.DefaultDropletTuning()
	base := TuningComponentSpec{
		Solid:                   d.Solid,
		Gazeous:                 d.Gazeous,
		SlideDashBreakDuration:  d.SlideDashBreakDuration,
		DrillerDuration:         d.DrillerDuration,
		FlatSurfaceTolerance:    d.FlatSurfaceTolerance,
		VelocityMovingTolerance: d.VelocityMovingTolerance,
		LineTraceLength:         d.LineTraceLength,
		SlopeDetectionThreshold: d.SlopeDetectionThreshold,
		MaxSlopeAngle:           d.MaxSlopeAngle,
		InteractRadius:          d.InteractRadius,
	}
	s, err := DecodeComponentSpecInto(raw, base)
	if err != nil {
		return d, err
	}
	return component.DropletTuning{
		Solid:                   s.Solid,
		Gazeous:                 s.Gazeous,
		SlideDashBreakDuration:  s.SlideDashBreakDuration,
		DrillerDuration:         s.DrillerDuration,
		FlatSurfaceTolerance:    s.FlatSurfaceTolerance,
		VelocityMovingTolerance: s.VelocityMovingTolerance,
		LineTraceLength:         s.LineTraceLength,
		SlopeDetectionThreshold: s.SlopeDetectionThreshold,
		MaxSlopeAngle:           s.MaxSlopeAngle,
		InteractRadius:          s.InteractRadius,
	}, nil
}

func buildSpeedProfile(raw any) (component.SpeedProfile, error) {
	s, err := DecodeComponentSpec[SpeedProfileComponentSpec](raw)
	if err != nil {
		return component.SpeedProfile{}, err
	}

	splashCurve, err := BuildCurve(s.Splash.Curve)
	if err != nil {
		return component.SpeedProfile{}, fmt.Errorf("splash curve: %w", err)
	}
	slideCurve, err := BuildCurve(s.SlideDash.Curve)
	if err != nil {
		return component.SpeedProfile{}, fmt.Errorf("slide dash curve: %w", err)
	}

	return component.SpeedProfile{
		Liquid: stateSpeeds(s.Liquid),
		Solid:  stateSpeeds(s.Solid),
		Gazeous: component.GazeousSpeeds{
			FlyMax:       s.Gazeous.FlyMax,
			Acceleration: s.Gazeous.Acceleration,
		},
		FallMax: s.FallMax,
		Splash: component.SplashTuning{
			Duration:         s.Splash.Duration,
			SuccessThreshold: s.Splash.SuccessThreshold,
			FailureThreshold: s.Splash.FailureThreshold,
			BoostFactor:      s.Splash.BoostFactor,
			GroundDistance:   s.Splash.GroundDistance,
			Curve:            splashCurve,
		},
		SlideDash: component.SlideDashTuning{
			Duration:          s.SlideDash.Duration,
			NoMovementImpulse: s.SlideDash.NoMovementImpulse,
			Curve:             slideCurve,
		},
		GazeousDashImpulse: s.GazeousDashImpulse,
		OilFactor:          s.OilFactor,
	}, nil
}

func stateSpeeds(s StateSpeedsSpec) component.StateSpeeds {
	return component.StateSpeeds{
		AscendingMax:                s.AscendingMax,
		AscendingMin:                s.AscendingMin,
		DescendingMax:               s.DescendingMax,
		FlatMax:                     s.FlatMax,
		FlatAcceleration:            s.FlatAcceleration,
		AscendingFactor:             s.AscendingFactor,
		AscendingFactorEmptyStamina: s.AscendingFactorEmptyStamina,
		DescendingFactor:            s.DescendingFactor,
	}
}

// BuildCurve turns a curve spec into a curve. Scripted curves are baked
// into keys.
func BuildCurve(s CurveSpec) (curve.Curve, error) {
	switch {
	case s.Script != "":
		src, err := LoadScript(s.Script)
		if err != nil {
			return nil, fmt.Errorf("prefabs: load script %s: %w", s.Script, err)
		}
		script, err := curve.NewScript(s.Script, src)
		if err != nil {
			return nil, err
		}
		samples := s.Samples
		if samples <= 0 {
			samples = defaultCurveSamples
		}
		return script.Bake(samples), nil
	case len(s.Keys) > 0:
		return curve.NewKeyed(s.Keys...), nil
	case s.Constant != nil:
		return curve.Constant(*s.Constant), nil
	}
	return nil, nil
}

func buildStamina(p *DropletPrefab, raw any) error {
	s, err := DecodeComponentSpec[StaminaComponentSpec](raw)
	if err != nil {
		return err
	}
	p.StaminaProfiles = component.StaminaProfiles{
		Liquid:  staminaProfile(s.Liquid),
		Solid:   staminaProfile(s.Solid),
		Gazeous: staminaProfile(s.Gazeous),
	}
	for _, state := range component.MaterialStates {
		profile, _ := p.StaminaProfiles.For(state)
		if profile.Max <= 0 {
			return fmt.Errorf("%s max %v: %w", state, profile.Max, ErrInvalidSpec)
		}
	}

	initial, _ := p.StaminaProfiles.For(p.InitialStateOrLiquid())
	p.Stamina = component.NewStamina(initial)
	if s.Initial > 0 {
		p.Stamina.SetCurrent(s.Initial)
	} else {
		p.Stamina.SetCurrent(initial.Max)
	}
	p.Stamina.Infinite = s.Infinite
	p.Stamina.DebugMessages = s.DebugMessages
	p.Stamina.ShowDebugBar = s.ShowDebugBar
	return nil
}

func staminaProfile(s StaminaProfileSpec) component.StaminaProfile {
	return component.StaminaProfile{
		Max:                  s.Max,
		JumpCost:             s.JumpCost,
		RegenPerSecond:       s.RegenPerSecond,
		DrainPerSecond:       s.DrainPerSecond,
		AscendDrainPerSecond: s.AscendDrainPerSecond,
	}
}

func buildAppearance(p *DropletPrefab, raw any) error {
	s, err := DecodeComponentSpec[AppearanceComponentSpec](raw)
	if err != nil {
		return err
	}
	p.Appearance = component.Appearance{
		DefaultContext: s.DefaultContext,
		Liquid:         stateVisual(s.Liquid),
		Solid:          stateVisual(s.Solid),
		Gazeous:        stateVisual(s.Gazeous),
	}
	p.Colors = map[component.MaterialState]color.Color{}
	for state, v := range map[component.MaterialState]StateVisualSpec{
		component.MaterialLiquid:  s.Liquid,
		component.MaterialSolid:   s.Solid,
		component.MaterialGazeous: s.Gazeous,
	} {
		if v.Color != nil && v.Color.Color != nil {
			p.Colors[state] = v.Color.Color
		}
	}
	return nil
}

func stateVisual(s StateVisualSpec) component.StateVisual {
	return component.StateVisual{Mesh: s.Mesh, Material: s.Material, InputContext: s.InputContext}
}

// InitialStateOrLiquid returns the state the droplet spawns in.
func (p *DropletPrefab) InitialStateOrLiquid() component.MaterialState {
	if p == nil || !p.InitialState.Playable() {
		return component.MaterialLiquid
	}
	return p.InitialState
}
