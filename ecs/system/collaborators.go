package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// WorldQuery casts a ray from origin along dir and returns the first hit
// within maxLen.
type WorldQuery interface {
	Probe(origin, dir mgl64.Vec3, maxLen float64) (component.Hit, bool)
}

type InputContextSwitcher interface {
	SetActiveContext(id string)
}

type VisualSwapper interface {
	SetMesh(id string)
	SetMaterial(id string)
	SetVisible(visible bool)
}

// StateObserver is notified after each successful transition.
type StateObserver func(e ecs.Entity, state component.MaterialState)

// StateObservers is a broadcast list of StateObserver callbacks.
type StateObservers struct {
	observers []StateObserver
}

func (o *StateObservers) Subscribe(fn StateObserver) {
	if o == nil || fn == nil {
		return
	}
	o.observers = append(o.observers, fn)
}

func (o *StateObservers) Broadcast(e ecs.Entity, state component.MaterialState) {
	if o == nil {
		return
	}
	for _, fn := range o.observers {
		fn(e, state)
	}
}

func (o *StateObservers) Len() int {
	if o == nil {
		return 0
	}
	return len(o.observers)
}
