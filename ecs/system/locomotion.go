package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/common"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// LocomotionSystem turns player input into movement, jumps and requests for
// the other droplet systems. It runs first in the tick.
type LocomotionSystem struct {
	Sensor *GroundSensor
}

func NewLocomotionSystem(sensor *GroundSensor) *LocomotionSystem {
	return &LocomotionSystem{Sensor: sensor}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaSeconds()

	ecs.ForEach2(w, component.InputComponent.Kind(), component.DropletComponent.Kind(), func(e ecs.Entity, in *component.Input, _ *component.Droplet) {
		if in.ChangeState != 0 {
			if ctrl, ok := ecs.Get(w, e, component.StateControllerComponent.Kind()); ok {
				next := NextMaterialState(ctrl.Current, in.ChangeState)
				_ = ecs.Add(w, e, component.MaterialStateRequestComponent.Kind(), &component.MaterialStateRequest{State: next, PlayerInitiated: true})
			}
		}
		if in.Interact {
			_ = ecs.Add(w, e, component.InteractRequestComponent.Kind(), &component.InteractRequest{})
		}

		if _, err := s.Move(w, e, in.Move, in.Facing); err != nil {
			log.Printf("droplet: move %v: %v", e, err)
		}

		m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
		if !ok {
			return
		}
		if !in.Jump {
			m.JumpHoldTime = 0
			return
		}
		if _, err := s.Jump(w, e); err != nil {
			log.Printf("droplet: jump %v: %v", e, err)
		}
		m.JumpHoldTime += dt
	})
}

// Move writes the desired direction of input into the movement component
// and reports whether it did. Nothing moves without a bound strategy or
// while an overlay drives velocity. Out of stamina a solid droplet can only
// go down slopes and a liquid one cannot climb steep slopes.
func (s *LocomotionSystem) Move(w *ecs.World, e ecs.Entity, input component.MoveInput, facing mgl64.Vec3) (bool, error) {
	d, ok := ecs.Get(w, e, component.DropletComponent.Kind())
	if !ok {
		return false, ErrMissingDependency
	}
	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	if !ok {
		return false, ErrMissingDependency
	}
	ctrl, ok := ecs.Get(w, e, component.StateControllerComponent.Kind())
	if !ok {
		return false, ErrMissingDependency
	}

	m.Input = mgl64.Vec3{}
	strategy, ok := strategyFor(d.Strategy)
	if !ok {
		return false, nil
	}
	if d.SlideDash.Active || d.Splash.Active {
		return false, nil
	}

	dir := strategy.Direction(input, facing)

	stamina, _ := ecs.Get(w, e, component.StaminaComponent.Kind())
	if stamina != nil && stamina.Current() <= 0 && ctrl.Current != component.MaterialGazeous {
		var pos mgl64.Vec3
		var radius float64
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			pos = t.Position
		}
		if c, ok := ecs.Get(w, e, component.CapsuleComponent.Kind()); ok {
			radius = c.Radius
		}

		slope, normal := s.Sensor.SlopeAngle(pos, radius, d.Tuning.LineTraceLength, d.Tuning.SlopeDetectionThreshold, nil)
		downhill := false
		if slope >= d.Tuning.FlatSurfaceTolerance {
			downhill = common.AngleDeg(common.SafeNormal(common.Horizontal(normal)), common.SafeNormal(dir)) < 90
		}

		if !downhill {
			if ctrl.Current != component.MaterialLiquid {
				if stamina.DebugMessages {
					log.Printf("droplet: stamina is empty")
				}
				return false, nil
			}
			if slope >= d.Tuning.MaxSlopeAngle {
				if stamina.DebugMessages {
					log.Printf("droplet: stamina is empty on a %.1f degree slope", slope)
				}
				return false, nil
			}
		}
	}

	m.Input = dir
	return true, nil
}

// Jump asks the host for a jump. It needs the jump cost in stamina; the
// first press on the ground pays it.
func (s *LocomotionSystem) Jump(w *ecs.World, e ecs.Entity) (bool, error) {
	d, ok := ecs.Get(w, e, component.DropletComponent.Kind())
	if !ok {
		return false, ErrMissingDependency
	}
	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	if !ok {
		return false, ErrMissingDependency
	}

	if d.Splash.Active {
		return false, nil
	}

	if stamina, ok := ecs.Get(w, e, component.StaminaComponent.Kind()); ok {
		if !stamina.CanJump() {
			return false, nil
		}
		if m.JumpHoldTime == 0 && m.OnGround() {
			stamina.DrainJump()
		}
	} else {
		log.Printf("droplet: jump without stamina on %v", e)
	}

	if m.JumpHoldTime == 0 {
		m.JumpRequested = true
	}
	return true, nil
}
