package system

import (
	"log"

	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// StateTimerSystem returns timed states to liquid once their duration runs
// out and counts down the state change cooldown.
type StateTimerSystem struct {
	States *MaterialStateSystem
}

func NewStateTimerSystem(states *MaterialStateSystem) *StateTimerSystem {
	return &StateTimerSystem{States: states}
}

func (s *StateTimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaSeconds()

	ecs.ForEach(w, component.StateControllerComponent.Kind(), func(e ecs.Entity, ctrl *component.StateController) {
		if ctrl.CooldownTimer > 0 {
			ctrl.CooldownTimer = max(ctrl.CooldownTimer-dt, 0)
		}
		if ctrl.NoTimeLimit {
			ctrl.ReturnTimer = 0
			return
		}
		if ctrl.ReturnTimer <= 0 {
			return
		}

		ctrl.ReturnTimer -= dt
		if ctrl.ReturnTimer > 0 {
			return
		}
		ctrl.ReturnTimer = 0

		if s.States == nil {
			log.Printf("droplet: state timer of %v expired: %v", e, ErrMissingDependency)
			return
		}
		if err := s.States.SetMaterialState(w, e, component.MaterialLiquid, false); err != nil {
			log.Printf("droplet: return %v to liquid: %v", e, err)
		}
	})
}
