package system

import (
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// MarkerSystem expires interaction markers. The breaker lives as long as the
// slide dash break window; the driller has its own duration.
type MarkerSystem struct{}

func NewMarkerSystem() *MarkerSystem {
	return &MarkerSystem{}
}

func (s *MarkerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaSeconds()

	ecs.ForEach(w, component.DropletComponent.Kind(), func(e ecs.Entity, d *component.Droplet) {
		if d.SlideDashBreak.Advance(dt) {
			removeMarker(w, e, d, component.MarkerBreaker)
		}
		d.Markers.Advance(component.MarkerBreaker, dt)

		if d.Markers.Advance(component.MarkerDriller, dt) >= d.Tuning.DrillerDuration && d.Markers.Has(component.MarkerDriller) {
			removeMarker(w, e, d, component.MarkerDriller)
		}
	})
}

func addMarker(w *ecs.World, e ecs.Entity, d *component.Droplet, k component.MarkerKind) {
	if d.Markers.Add(k) {
		w.Events().Push(ecs.Event{Type: ecs.EventMarkerAdded, Entity: e, Data: k})
	}
}

func removeMarker(w *ecs.World, e ecs.Entity, d *component.Droplet, k component.MarkerKind) {
	if d.Markers.Remove(k) {
		w.Events().Push(ecs.Event{Type: ecs.EventMarkerRemoved, Entity: e, Data: k})
	}
}
