package system

import (
	"fmt"

	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// DropletConfig holds the collaborators of the droplet controller. Any of
// them may be nil; Query falls back to the physics world of the ecs world.
type DropletConfig struct {
	Query     WorldQuery
	Inputs    InputContextSwitcher
	Visuals   VisualSwapper
	Observers *StateObservers
}

// DropletSystem runs the droplet controller in its fixed tick order:
// input, state requests, landings, marker timers, speed and overlays,
// stamina, interactions, state return timers.
type DropletSystem struct {
	Sensor      *GroundSensor
	Locomotion  *LocomotionSystem
	States      *MaterialStateSystem
	Effects     *TransitionEffectsSystem
	Markers     *MarkerSystem
	Speed       *SpeedSystem
	Stamina     *StaminaSystem
	Interaction *InteractionSystem
	Timers      *StateTimerSystem

	scheduler *ecs.Scheduler
}

func NewDropletSystem(cfg DropletConfig) *DropletSystem {
	sensor := NewGroundSensor(cfg.Query)
	states := NewMaterialStateSystem(cfg.Inputs, cfg.Visuals, cfg.Observers)

	s := &DropletSystem{
		Sensor:      sensor,
		Locomotion:  NewLocomotionSystem(sensor),
		States:      states,
		Effects:     NewTransitionEffectsSystem(),
		Markers:     NewMarkerSystem(),
		Speed:       NewSpeedSystem(sensor),
		Stamina:     NewStaminaSystem(),
		Interaction: NewInteractionSystem(),
		Timers:      NewStateTimerSystem(states),
	}
	s.scheduler = ecs.NewScheduler(
		s.Locomotion,
		s.States,
		s.Effects,
		s.Markers,
		s.Speed,
		s.Stamina,
		s.Interaction,
		s.Timers,
	)
	return s
}

func (s *DropletSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if s.Sensor.Query == nil {
		if pw := w.PhysicsWorld(); pw != nil {
			s.Sensor.Query = pw
		}
	}
	s.scheduler.Update(w)
}

// Observers returns the state change broadcast list.
func (s *DropletSystem) Observers() *StateObservers {
	return s.States.Observers
}

func (s *DropletSystem) SetMaterialState(w *ecs.World, e ecs.Entity, state component.MaterialState, playerInitiated bool) error {
	return s.States.SetMaterialState(w, e, state, playerInitiated)
}

// SetProfile replaces the speed profile of e as a whole.
func (s *DropletSystem) SetProfile(w *ecs.World, e ecs.Entity, profile component.SpeedProfile) error {
	if err := ecs.Add(w, e, component.SpeedProfileComponent.Kind(), &profile); err != nil {
		return fmt.Errorf("droplet: set profile of %v: %w", e, err)
	}
	return nil
}

// SetUnderOil toggles the oil slowdown of e.
func (s *DropletSystem) SetUnderOil(w *ecs.World, e ecs.Entity, oil bool) error {
	d, ok := ecs.Get(w, e, component.DropletComponent.Kind())
	if !ok {
		return ErrMissingDependency
	}
	d.UnderOil = oil
	return nil
}
