package system

import (
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// InteractionSystem keeps at most one interactable focused per droplet and
// performs manual interactions.
type InteractionSystem struct {
	// focus remembers the last registered target of each droplet so it can
	// be released once the droplet walks out of reach.
	focus map[ecs.Entity]ecs.Entity
}

func NewInteractionSystem() *InteractionSystem {
	return &InteractionSystem{focus: make(map[ecs.Entity]ecs.Entity)}
}

type interactCandidate struct {
	entity   ecs.Entity
	target   *component.Interactable
	distance float64
}

func (s *InteractionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.DropletComponent.Kind(), func(e ecs.Entity, _ *component.Droplet) {
		if ecs.Has(w, e, component.InteractRequestComponent.Kind()) {
			ecs.Remove(w, e, component.InteractRequestComponent.Kind())
			if _, err := s.Interact(w, e); err != nil {
				log.Printf("droplet: interact %v: %v", e, err)
			}
		}
		if _, _, err := s.Arbitrate(w, e); err != nil {
			log.Printf("droplet: arbitrate %v: %v", e, err)
		}
	})
}

// Focus returns the target e currently has registered.
func (s *InteractionSystem) Focus(e ecs.Entity) (ecs.Entity, bool) {
	if s == nil {
		return 0, false
	}
	t, ok := s.focus[e]
	return t, ok
}

// overlapping returns every interactable within the interact radius of e,
// excluding e itself.
func (s *InteractionSystem) overlapping(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, radius float64) []interactCandidate {
	var out []interactCandidate
	ecs.ForEach2(w, component.InteractableComponent.Kind(), component.TransformComponent.Kind(), func(other ecs.Entity, it *component.Interactable, t *component.Transform) {
		if other == e || it.Target == nil {
			return
		}
		d := t.Position.Sub(pos)
		dist := d.Dot(d)
		if dist > radius*radius {
			return
		}
		out = append(out, interactCandidate{entity: other, target: it, distance: dist})
	})
	return out
}

func (s *InteractionSystem) actor(w *ecs.World, e ecs.Entity) (mgl64.Vec3, *component.Droplet, *component.StateController, error) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, nil, nil, ErrMissingDependency
	}
	d, ok := ecs.Get(w, e, component.DropletComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, nil, nil, ErrMissingDependency
	}
	ctrl, ok := ecs.Get(w, e, component.StateControllerComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, nil, nil, ErrMissingDependency
	}
	return t.Position, d, ctrl, nil
}

func sortByDistance(c []interactCandidate) {
	sort.SliceStable(c, func(i, j int) bool {
		return c[i].distance < c[j].distance
	})
}

// Arbitrate registers e with the closest active eligible interactable and
// unregisters it from every other candidate. A gas never focuses anything
// and cannot even see dialogue targets.
func (s *InteractionSystem) Arbitrate(w *ecs.World, e ecs.Entity) (ecs.Entity, bool, error) {
	pos, d, ctrl, err := s.actor(w, e)
	if err != nil {
		return 0, false, err
	}
	actor := component.Actor(e)
	gazeous := ctrl.Current == component.MaterialGazeous

	var eligible, ineligible []interactCandidate
	for _, c := range s.overlapping(w, e, pos, d.Tuning.InteractRadius) {
		if !(gazeous && c.target.Dialogue) && c.target.Target.InRange(actor, pos) {
			eligible = append(eligible, c)
		} else {
			ineligible = append(ineligible, c)
		}
	}
	sortByDistance(eligible)

	focused := -1
	if !gazeous {
		for i, c := range eligible {
			if c.target.Target.Active() {
				focused = i
				break
			}
		}
	}

	if s.focus == nil {
		s.focus = make(map[ecs.Entity]ecs.Entity)
	}
	prev, hadPrev := s.focus[e]
	delete(s.focus, e)

	for i, c := range eligible {
		if i == focused {
			c.target.Target.Register(actor)
			s.focus[e] = c.entity
			continue
		}
		c.target.Target.Unregister(actor)
	}
	for _, c := range ineligible {
		c.target.Target.Unregister(actor)
	}

	cur, ok := s.focus[e]
	if hadPrev && (!ok || cur != prev) {
		if it, found := ecs.Get(w, prev, component.InteractableComponent.Kind()); found && it.Target != nil {
			it.Target.Unregister(actor)
		}
	}
	if d.DebugInteractions && ok {
		log.Printf("droplet: %v focuses %v", e, cur)
	}
	return cur, ok, nil
}

// Interact performs a manual interaction. The closest in-range target is
// used when active, then the second closest when active; otherwise the
// closest one is forced. It returns the entity interacted with.
func (s *InteractionSystem) Interact(w *ecs.World, e ecs.Entity) (ecs.Entity, error) {
	pos, d, _, err := s.actor(w, e)
	if err != nil {
		return 0, err
	}
	actor := component.Actor(e)

	var eligible []interactCandidate
	for _, c := range s.overlapping(w, e, pos, d.Tuning.InteractRadius) {
		if c.target.Target.InRange(actor, pos) {
			eligible = append(eligible, c)
		} else if d.DebugInteractions {
			log.Printf("droplet: %v not in range of %v", e, c.entity)
		}
	}
	if len(eligible) == 0 {
		return 0, nil
	}
	sortByDistance(eligible)

	pick := eligible[0]
	if !pick.target.Target.Active() && len(eligible) > 1 && eligible[1].target.Target.Active() {
		pick = eligible[1]
	}

	pick.target.Target.Interact(actor)
	w.Events().Push(ecs.Event{Type: ecs.EventInteracted, Entity: e, Data: pick.entity})
	if d.DebugInteractions {
		log.Printf("droplet: %v interacts with %v", e, pick.entity)
	}
	return pick.entity, nil
}
