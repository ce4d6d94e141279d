package system

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/curve"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// fakeWorld answers probes with a fixed normal per ring slot. Slot i is the
// probe at angle i*45 degrees around center; the center probe uses slot 0.
// A zero normal misses, as does any probe shorter than ground.
type fakeWorld struct {
	center  mgl64.Vec3
	normals [groundProbeCount]mgl64.Vec3
	ground  float64
	calls   int
}

func newFakeWorld(n mgl64.Vec3) *fakeWorld {
	f := &fakeWorld{ground: 50}
	f.setAll(n)
	return f
}

func (f *fakeWorld) setAll(n mgl64.Vec3) {
	for i := range f.normals {
		f.normals[i] = n
	}
}

func (f *fakeWorld) Probe(origin, dir mgl64.Vec3, maxLen float64) (component.Hit, bool) {
	f.calls++
	if maxLen < f.ground {
		return component.Hit{}, false
	}
	n := f.normals[ringSlot(origin.Sub(f.center))]
	if n == (mgl64.Vec3{}) {
		return component.Hit{}, false
	}
	return component.Hit{Point: origin.Add(dir.Mul(f.ground)), Normal: n, Distance: f.ground}, true
}

func ringSlot(off mgl64.Vec3) int {
	if math.Abs(off.X()) < 1e-9 && math.Abs(off.Y()) < 1e-9 {
		return 0
	}
	i := int(math.Round(math.Atan2(off.Y(), off.X()) / (math.Pi / 4)))
	return (i%groundProbeCount + groundProbeCount) % groundProbeCount
}

// slopeNormal is the normal of a slope of deg degrees rising toward +X.
func slopeNormal(deg float64) mgl64.Vec3 {
	r := mgl64.DegToRad(deg)
	return mgl64.Vec3{-math.Sin(r), 0, math.Cos(r)}
}

type recordingInputs struct {
	contexts []string
}

func (r *recordingInputs) SetActiveContext(id string) {
	r.contexts = append(r.contexts, id)
}

type recordingVisuals struct {
	calls []string
}

func (r *recordingVisuals) SetMesh(id string) {
	r.calls = append(r.calls, "mesh:"+id)
}

func (r *recordingVisuals) SetMaterial(id string) {
	r.calls = append(r.calls, "material:"+id)
}

func (r *recordingVisuals) SetVisible(visible bool) {
	r.calls = append(r.calls, fmt.Sprintf("visible:%t", visible))
}

func testProfile() component.SpeedProfile {
	return component.SpeedProfile{
		Liquid: component.StateSpeeds{
			AscendingMax:                300,
			AscendingMin:                100,
			DescendingMax:               800,
			FlatMax:                     600,
			FlatAcceleration:            2048,
			AscendingFactor:             5,
			AscendingFactorEmptyStamina: 10,
			DescendingFactor:            10,
		},
		Solid: component.StateSpeeds{
			AscendingMax:     400,
			DescendingMax:    1000,
			FlatMax:          700,
			FlatAcceleration: 1500,
			AscendingFactor:  8,
			DescendingFactor: 12,
		},
		Gazeous: component.GazeousSpeeds{FlyMax: 500, Acceleration: 1000},
		FallMax: 1200,
		Splash: component.SplashTuning{
			Duration:         0.5,
			SuccessThreshold: 5,
			FailureThreshold: 10,
			BoostFactor:      0.5,
			GroundDistance:   200,
			Curve:            curve.Constant(1),
		},
		SlideDash: component.SlideDashTuning{
			Duration:          0.4,
			NoMovementImpulse: 600,
			Curve:             curve.Constant(1),
		},
		GazeousDashImpulse: 400,
		OilFactor:          0.5,
	}
}

func testStaminaProfiles() component.StaminaProfiles {
	return component.StaminaProfiles{
		Liquid:  component.StaminaProfile{Max: 100, JumpCost: 0.2, RegenPerSecond: 10, AscendDrainPerSecond: 15},
		Solid:   component.StaminaProfile{Max: 100, JumpCost: 0.3, DrainPerSecond: 5},
		Gazeous: component.StaminaProfile{Max: 100, JumpCost: 0.5, DrainPerSecond: 8},
	}
}

func testAppearance() component.Appearance {
	return component.Appearance{
		Liquid:         component.StateVisual{Mesh: "droplet_liquid", Material: "mat_liquid", InputContext: "liquid"},
		Solid:          component.StateVisual{Mesh: "droplet_solid", Material: "mat_solid", InputContext: "solid"},
		Gazeous:        component.StateVisual{Mesh: "droplet_gazeous", Material: "mat_gazeous", InputContext: "gazeous"},
		DefaultContext: "default",
	}
}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func mustGet[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T]) *T {
	t.Helper()
	v, ok := ecs.Get(w, e, kind)
	if !ok {
		t.Fatalf("missing component on %v", e)
	}
	return v
}

type dropletFixture struct {
	w       *ecs.World
	e       ecs.Entity
	sys     *DropletSystem
	query   *fakeWorld
	inputs  *recordingInputs
	visuals *recordingVisuals
}

func (f *dropletFixture) droplet(t *testing.T) *component.Droplet {
	return mustGet(t, f.w, f.e, component.DropletComponent.Kind())
}

func (f *dropletFixture) movement(t *testing.T) *component.Movement {
	return mustGet(t, f.w, f.e, component.MovementComponent.Kind())
}

func (f *dropletFixture) controller(t *testing.T) *component.StateController {
	return mustGet(t, f.w, f.e, component.StateControllerComponent.Kind())
}

func (f *dropletFixture) stamina(t *testing.T) *component.Stamina {
	return mustGet(t, f.w, f.e, component.StaminaComponent.Kind())
}

// newDropletFixture builds a grounded droplet at the origin standing on flat
// ground. It is not in any material state yet.
func newDropletFixture(t *testing.T) *dropletFixture {
	t.Helper()

	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)

	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	mustAdd(t, w, e, component.CapsuleComponent.Kind(), &component.Capsule{Radius: 20, HalfHeight: 40})
	mustAdd(t, w, e, component.MovementComponent.Kind(), &component.Movement{
		Mode:    component.MovementWalking,
		Forward: mgl64.Vec3{1, 0, 0},
	})
	d := component.NewDroplet(component.DefaultDropletTuning())
	mustAdd(t, w, e, component.DropletComponent.Kind(), &d)
	mustAdd(t, w, e, component.StateControllerComponent.Kind(), &component.StateController{})
	profile := testProfile()
	mustAdd(t, w, e, component.SpeedProfileComponent.Kind(), &profile)
	profiles := testStaminaProfiles()
	mustAdd(t, w, e, component.StaminaProfilesComponent.Kind(), &profiles)
	st := component.NewStamina(profiles.Liquid)
	mustAdd(t, w, e, component.StaminaComponent.Kind(), &st)
	appearance := testAppearance()
	mustAdd(t, w, e, component.AppearanceComponent.Kind(), &appearance)
	mustAdd(t, w, e, component.GroundComponent.Kind(), &component.Ground{})

	query := newFakeWorld(mgl64.Vec3{0, 0, 1})
	inputs := &recordingInputs{}
	visuals := &recordingVisuals{}
	sys := NewDropletSystem(DropletConfig{Query: query, Inputs: inputs, Visuals: visuals})

	return &dropletFixture{w: w, e: e, sys: sys, query: query, inputs: inputs, visuals: visuals}
}

// newDropletIn returns a fixture already in state.
func newDropletIn(t *testing.T, state component.MaterialState) *dropletFixture {
	t.Helper()
	f := newDropletFixture(t)
	if err := f.sys.SetMaterialState(f.w, f.e, state, false); err != nil {
		t.Fatalf("SetMaterialState(%s): %v", state, err)
	}
	return f
}
