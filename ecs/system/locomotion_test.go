package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

var sideFacing = mgl64.Vec3{0, 1, 0}

func TestMoveUnboundDoesNothing(t *testing.T) {
	f := newDropletFixture(t)
	f.movement(t).Input = mgl64.Vec3{1, 0, 0}

	moved, err := f.sys.Locomotion.Move(f.w, f.e, component.MoveInput{X: 1}, sideFacing)
	if err != nil || moved {
		t.Fatalf("Move = %v, %v", moved, err)
	}
	if f.movement(t).Input != (mgl64.Vec3{}) {
		t.Fatalf("input should be cleared")
	}
}

func TestMoveBlockedByOverlay(t *testing.T) {
	f := newDropletIn(t, component.MaterialSolid)
	if !f.droplet(t).SlideDash.Active {
		t.Fatalf("fixture should be slide dashing")
	}
	moved, err := f.sys.Locomotion.Move(f.w, f.e, component.MoveInput{X: 1}, sideFacing)
	if err != nil || moved {
		t.Fatalf("Move = %v, %v", moved, err)
	}
}

func TestMoveDirection(t *testing.T) {
	cases := []struct {
		name  string
		state component.MaterialState
		input component.MoveInput
		want  mgl64.Vec3
	}{
		{"liquid_right", component.MaterialLiquid, component.MoveInput{X: 1}, mgl64.Vec3{1, 0, 0}},
		{"liquid_forward", component.MaterialLiquid, component.MoveInput{Y: 1}, mgl64.Vec3{0, 1, 0}},
		{"solid_left", component.MaterialSolid, component.MoveInput{X: -1}, mgl64.Vec3{-1, 0, 0}},
		{"gas_rises", component.MaterialGazeous, component.MoveInput{X: 1, Y: 1}, mgl64.Vec3{1, 0, 1}},
		{"gas_sinks", component.MaterialGazeous, component.MoveInput{Y: -1}, mgl64.Vec3{0, 0, -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDropletIn(t, tc.state)
			f.droplet(t).SlideDash.Stop()

			moved, err := f.sys.Locomotion.Move(f.w, f.e, tc.input, sideFacing)
			if err != nil || !moved {
				t.Fatalf("Move = %v, %v", moved, err)
			}
			if got := f.movement(t).Input; !got.ApproxEqualThreshold(tc.want, 1e-9) {
				t.Fatalf("input = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMoveWithEmptyStamina(t *testing.T) {
	cases := []struct {
		name   string
		state  component.MaterialState
		normal mgl64.Vec3
		input  component.MoveInput
		want   bool
	}{
		{"solid_flat", component.MaterialSolid, mgl64.Vec3{0, 0, 1}, component.MoveInput{X: 1}, false},
		{"solid_downhill", component.MaterialSolid, slopeNormal(30), component.MoveInput{X: -1}, true},
		{"solid_uphill", component.MaterialSolid, slopeNormal(30), component.MoveInput{X: 1}, false},
		{"liquid_flat", component.MaterialLiquid, mgl64.Vec3{0, 0, 1}, component.MoveInput{X: 1}, true},
		{"liquid_gentle_uphill", component.MaterialLiquid, slopeNormal(30), component.MoveInput{X: 1}, true},
		{"liquid_steep_uphill", component.MaterialLiquid, slopeNormal(50), component.MoveInput{X: 1}, false},
		{"liquid_steep_downhill", component.MaterialLiquid, slopeNormal(50), component.MoveInput{X: -1}, true},
		{"gas_anywhere", component.MaterialGazeous, mgl64.Vec3{0, 0, 1}, component.MoveInput{X: 1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDropletIn(t, tc.state)
			f.droplet(t).SlideDash.Stop()
			f.query.setAll(tc.normal)
			f.stamina(t).SetCurrent(0)

			moved, err := f.sys.Locomotion.Move(f.w, f.e, tc.input, sideFacing)
			if err != nil {
				t.Fatalf("Move: %v", err)
			}
			if moved != tc.want {
				t.Fatalf("moved = %v, want %v", moved, tc.want)
			}
			if !moved && f.movement(t).Input != (mgl64.Vec3{}) {
				t.Fatalf("blocked move left input %v", f.movement(t).Input)
			}
		})
	}
}

func TestJump(t *testing.T) {
	cases := []struct {
		name        string
		stamina     float64
		hold        float64
		infinite    bool
		splashing   bool
		airborne    bool
		wantJump    bool
		wantRequest bool
		wantStamina float64
	}{
		{name: "pays_cost", stamina: 100, wantJump: true, wantRequest: true, wantStamina: 80},
		{name: "holding_is_free", stamina: 100, hold: 0.2, wantJump: true, wantStamina: 100},
		{name: "infinite", stamina: 100, infinite: true, wantJump: true, wantRequest: true, wantStamina: 100},
		{name: "airborne_is_free", stamina: 100, airborne: true, wantJump: true, wantRequest: true, wantStamina: 100},
		{name: "too_tired", stamina: 10, wantStamina: 10},
		{name: "splashing", stamina: 100, splashing: true, wantStamina: 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDropletIn(t, component.MaterialLiquid)
			st := f.stamina(t)
			st.SetCurrent(tc.stamina)
			st.Infinite = tc.infinite
			m := f.movement(t)
			m.JumpHoldTime = tc.hold
			if tc.airborne {
				m.Mode = component.MovementFalling
			}
			f.droplet(t).Splash.Active = tc.splashing

			jumped, err := f.sys.Locomotion.Jump(f.w, f.e)
			if err != nil {
				t.Fatalf("Jump: %v", err)
			}
			if jumped != tc.wantJump || m.JumpRequested != tc.wantRequest {
				t.Fatalf("jumped=%v requested=%v", jumped, m.JumpRequested)
			}
			if got := f.stamina(t).Current(); !mgl64.FloatEqualThreshold(got, tc.wantStamina, 1e-9) {
				t.Fatalf("stamina = %v, want %v", got, tc.wantStamina)
			}
		})
	}
}

func TestLocomotionUpdate(t *testing.T) {
	f := newDropletIn(t, component.MaterialLiquid)
	f.w.SetTimeStep(0.5)
	mustAdd(t, f.w, f.e, component.InputComponent.Kind(), &component.Input{
		Move:        component.MoveInput{X: 1},
		Jump:        true,
		Interact:    true,
		ChangeState: 1,
		Facing:      sideFacing,
	})

	f.sys.Locomotion.Update(f.w)

	req, ok := ecs.Get(f.w, f.e, component.MaterialStateRequestComponent.Kind())
	if !ok || req.State != component.MaterialSolid || !req.PlayerInitiated {
		t.Fatalf("state request = %+v (%v)", req, ok)
	}
	if !ecs.Has(f.w, f.e, component.InteractRequestComponent.Kind()) {
		t.Fatalf("interact request missing")
	}
	m := f.movement(t)
	if m.Input != (mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("input = %v", m.Input)
	}
	if !m.JumpRequested || m.JumpHoldTime != 0.5 {
		t.Fatalf("jump requested=%v hold=%v", m.JumpRequested, m.JumpHoldTime)
	}
	if got := f.stamina(t).Current(); got != 80 {
		t.Fatalf("stamina = %v, want 80", got)
	}

	m.JumpRequested = false
	f.sys.Locomotion.Update(f.w)
	if m.JumpRequested || m.JumpHoldTime != 1 || f.stamina(t).Current() != 80 {
		t.Fatalf("held jump: requested=%v hold=%v stamina=%v", m.JumpRequested, m.JumpHoldTime, f.stamina(t).Current())
	}

	mustGet(t, f.w, f.e, component.InputComponent.Kind()).Jump = false
	f.sys.Locomotion.Update(f.w)
	if m.JumpHoldTime != 0 {
		t.Fatalf("releasing jump should reset the hold time")
	}
}
