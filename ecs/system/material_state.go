package system

import (
	"fmt"
	"log"

	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// defaultStamina seeds the pool when a droplet changes state without one.
const defaultStamina = 100

// MaterialStateSystem performs material state transitions. Collaborators
// are optional; a missing one is logged and its step skipped.
type MaterialStateSystem struct {
	Inputs    InputContextSwitcher
	Visuals   VisualSwapper
	Observers *StateObservers
}

func NewMaterialStateSystem(inputs InputContextSwitcher, visuals VisualSwapper, observers *StateObservers) *MaterialStateSystem {
	if observers == nil {
		observers = &StateObservers{}
	}
	return &MaterialStateSystem{Inputs: inputs, Visuals: visuals, Observers: observers}
}

// NextMaterialState cycles through the playable states. None starts the
// cycle at liquid.
func NextMaterialState(current component.MaterialState, dir int) component.MaterialState {
	idx := -1
	for i, s := range component.MaterialStates {
		if s == current {
			idx = i
			break
		}
	}
	if idx < 0 || dir == 0 {
		return component.MaterialLiquid
	}
	n := len(component.MaterialStates)
	step := 1
	if dir < 0 {
		step = n - 1
	}
	return component.MaterialStates[(idx+step)%n]
}

// Update consumes material state requests. Player requests are refused
// while the state change cooldown runs.
func (s *MaterialStateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.MaterialStateRequestComponent.Kind(), func(e ecs.Entity, req *component.MaterialStateRequest) {
		r := *req
		ecs.Remove(w, e, component.MaterialStateRequestComponent.Kind())

		if ctrl, ok := ecs.Get(w, e, component.StateControllerComponent.Kind()); ok && r.PlayerInitiated && ctrl.CooldownTimer > 0 {
			return
		}
		if err := s.SetMaterialState(w, e, r.State, r.PlayerInitiated); err != nil {
			log.Printf("droplet: set material state %s on %v: %v", r.State, e, err)
		}
	})
}

// SetMaterialState moves e into state and reconfigures everything that
// depends on it. The transition is visible to the rest of the tick.
func (s *MaterialStateSystem) SetMaterialState(w *ecs.World, e ecs.Entity, state component.MaterialState, playerInitiated bool) error {
	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	if !ok {
		return fmt.Errorf("droplet: movement of %v: %w", e, ErrMissingDependency)
	}
	d, ok := ecs.Get(w, e, component.DropletComponent.Kind())
	if !ok {
		return fmt.Errorf("droplet: droplet of %v: %w", e, ErrMissingDependency)
	}
	ctrl, ok := ecs.Get(w, e, component.StateControllerComponent.Kind())
	if !ok {
		return fmt.Errorf("droplet: controller of %v: %w", e, ErrMissingDependency)
	}

	if state == component.MaterialNone {
		m.DefaultLandMode = component.MovementNone
		d.Strategy = component.MaterialNone
		log.Printf("droplet: material state set to none on %v, movement unbound", e)
		return ErrInvalidState
	}

	strategy, ok := strategyFor(state)
	if !ok {
		log.Printf("droplet: no movement strategy for %s on %v: %v", state, e, ErrUnresolvedDescription)
		return fmt.Errorf("droplet: %s: %w", state, ErrUnresolvedDescription)
	}

	profile, _ := ecs.Get(w, e, component.SpeedProfileComponent.Kind())

	s.applyMovementMode(m, strategy)
	strategy.ApplySpecificities(m, profile)
	d.Strategy = state

	appearance, _ := ecs.Get(w, e, component.AppearanceComponent.Kind())
	s.swapInputContext(appearance, state)
	s.swapVisuals(appearance, state)

	s.Observers.Broadcast(e, state)
	w.Events().Push(ecs.Event{Type: ecs.EventMaterialStateChanged, Entity: e, Data: state})

	s.swapStamina(w, e, state)

	hadBreaker := d.Markers.Has(component.MarkerBreaker)
	if profile == nil {
		log.Printf("droplet: no speed profile on %v: %v", e, ErrMissingDependency)
	} else {
		applyStateLocomotion(d, m, profile, state)
	}
	if !hadBreaker && d.Markers.Has(component.MarkerBreaker) {
		w.Events().Push(ecs.Event{Type: ecs.EventMarkerAdded, Entity: e, Data: component.MarkerBreaker})
	}

	applyDurationPolicy(d, ctrl, state)

	if state != component.MaterialSolid {
		d.SlideDash.Stop()
		d.SlideDashBreak.Cancel()
		removeMarker(w, e, d, component.MarkerBreaker)
	}
	if state != component.MaterialLiquid {
		removeMarker(w, e, d, component.MarkerDriller)
	} else if playerInitiated && ctrl.Current == component.MaterialGazeous {
		addMarker(w, e, d, component.MarkerDriller)
	}

	d.JustChangedState = true
	if ctrl.Current != state {
		ctrl.Previous = ctrl.Current
	}
	ctrl.Current = state

	log.Printf("droplet: material state of %v is %s", e, state)
	return nil
}

// applyMovementMode sets the movement mode of strategy. Walking states that
// are not touching the ground fall until the host reports a landing.
func (s *MaterialStateSystem) applyMovementMode(m *component.Movement, strategy MovementStrategy) {
	mode := strategy.Mode()
	if mode == component.MovementWalking && !m.OnGround() {
		mode = component.MovementFalling
	}
	m.Mode = mode
}

func (s *MaterialStateSystem) swapInputContext(appearance *component.Appearance, state component.MaterialState) {
	if s.Inputs == nil {
		log.Printf("droplet: input context switcher: %v", ErrMissingDependency)
		return
	}
	if appearance == nil {
		log.Printf("droplet: appearance: %v", ErrMissingDependency)
		return
	}
	s.Inputs.SetActiveContext(appearance.For(state).InputContext)
}

func (s *MaterialStateSystem) swapVisuals(appearance *component.Appearance, state component.MaterialState) {
	if s.Visuals == nil || appearance == nil {
		log.Printf("droplet: visual swapper: %v", ErrMissingDependency)
		return
	}
	visual := appearance.For(state)
	if state == component.MaterialGazeous {
		s.Visuals.SetVisible(false)
		s.Visuals.SetMaterial(visual.Material)
		return
	}
	s.Visuals.SetMesh(visual.Mesh)
	s.Visuals.SetVisible(true)
	s.Visuals.SetMaterial(visual.Material)
}

// swapStamina replaces the stamina pool with the one of state, keeping the
// current value and debug flags.
func (s *MaterialStateSystem) swapStamina(w *ecs.World, e ecs.Entity, state component.MaterialState) {
	profiles, ok := ecs.Get(w, e, component.StaminaProfilesComponent.Kind())
	if !ok {
		log.Printf("droplet: stamina profiles of %v: %v", e, ErrMissingDependency)
		return
	}
	profile, _ := profiles.For(state)

	var next component.Stamina
	if old, ok := ecs.Get(w, e, component.StaminaComponent.Kind()); ok {
		next = old.Swap(profile)
	} else {
		log.Printf("droplet: no stamina on %v, starting at %d", e, defaultStamina)
		next = component.NewStamina(profile)
		next.SetCurrent(defaultStamina)
	}
	_ = ecs.Add(w, e, component.StaminaComponent.Kind(), &next)
}

// applyStateLocomotion loads the locomotion values of state and fires its
// entry effect.
func applyStateLocomotion(d *component.Droplet, m *component.Movement, profile *component.SpeedProfile, state component.MaterialState) {
	loadStateLocomotion(m, profile, state)
	switch state {
	case component.MaterialSolid:
		StartSlideDash(d, m, profile)
	case component.MaterialGazeous:
		GazeousDash(m, profile)
	}
}

func loadStateLocomotion(m *component.Movement, profile *component.SpeedProfile, state component.MaterialState) {
	switch state {
	case component.MaterialLiquid:
		m.MaxWalkSpeed = profile.Liquid.FlatMax
		m.MaxAcceleration = profile.Liquid.FlatAcceleration
	case component.MaterialSolid:
		m.MaxWalkSpeed = profile.Solid.FlatMax
		m.MaxAcceleration = profile.Solid.FlatAcceleration
	case component.MaterialGazeous:
		m.MaxFlySpeed = profile.Gazeous.FlyMax
		m.MaxAcceleration = profile.Gazeous.Acceleration
	}
}

// applyDurationPolicy loads the duration and cooldown of a timed state and
// arms the return timer of the controller.
func applyDurationPolicy(d *component.Droplet, ctrl *component.StateController, state component.MaterialState) {
	policy, timed := d.Tuning.Policy(state)
	if !timed {
		if _, wasTimed := d.Tuning.Policy(ctrl.Current); wasTimed {
			ctrl.CooldownTimer = d.CurrentCooldown
		}
		ctrl.ReturnTimer = 0
		return
	}

	d.CurrentDuration = policy.Duration
	d.CurrentCooldown = policy.Cooldown
	if ctrl.NoTimeLimit {
		ctrl.ReturnTimer = 0
		return
	}
	ctrl.ReturnTimer = policy.Duration
}
