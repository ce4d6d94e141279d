package prefabs

import (
	"fmt"

	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// SpawnDroplet creates a droplet entity from p. The initial material state
// is queued as a request and applied by the next droplet tick.
func SpawnDroplet(w *ecs.World, p *DropletPrefab) (ecs.Entity, error) {
	if w == nil || p == nil {
		return 0, fmt.Errorf("prefabs: spawn droplet: %w", ErrInvalidSpec)
	}

	e := ecs.CreateEntity(w)

	transform := p.Transform
	capsule := p.Capsule
	movement := p.Movement
	profile := p.Profile
	profiles := p.StaminaProfiles
	stamina := p.Stamina
	appearance := p.Appearance

	droplet := component.NewDroplet(p.Tuning)
	droplet.DebugSpeed = p.DebugSpeed
	droplet.DebugInteractions = p.DebugInteractions

	adders := []func() error{
		func() error { return ecs.Add(w, e, component.TransformComponent.Kind(), &transform) },
		func() error { return ecs.Add(w, e, component.CapsuleComponent.Kind(), &capsule) },
		func() error { return ecs.Add(w, e, component.MovementComponent.Kind(), &movement) },
		func() error { return ecs.Add(w, e, component.GroundComponent.Kind(), &component.Ground{}) },
		func() error { return ecs.Add(w, e, component.DropletComponent.Kind(), &droplet) },
		func() error {
			return ecs.Add(w, e, component.StateControllerComponent.Kind(), &component.StateController{NoTimeLimit: p.NoTimeLimit})
		},
		func() error { return ecs.Add(w, e, component.SpeedProfileComponent.Kind(), &profile) },
		func() error { return ecs.Add(w, e, component.StaminaProfilesComponent.Kind(), &profiles) },
		func() error { return ecs.Add(w, e, component.StaminaComponent.Kind(), &stamina) },
		func() error { return ecs.Add(w, e, component.AppearanceComponent.Kind(), &appearance) },
		func() error { return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}) },
		func() error {
			return ecs.Add(w, e, component.MaterialStateRequestComponent.Kind(), &component.MaterialStateRequest{State: p.InitialStateOrLiquid()})
		},
	}
	for _, add := range adders {
		if err := add(); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("prefabs: spawn %s: %w", p.Name, err)
		}
	}
	return e, nil
}
