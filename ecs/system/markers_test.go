package system

import (
	"testing"

	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

func removedMarkers(events []ecs.Event) []component.MarkerKind {
	var out []component.MarkerKind
	for _, evt := range events {
		if evt.Type != ecs.EventMarkerRemoved {
			continue
		}
		if k, ok := evt.Data.(component.MarkerKind); ok {
			out = append(out, k)
		}
	}
	return out
}

func TestBreakerExpiresWithBreakWindow(t *testing.T) {
	f := newDropletIn(t, component.MaterialSolid)
	f.w.Events().Drain()
	f.w.SetTimeStep(0.5)

	f.sys.Markers.Update(f.w)
	if !f.droplet(t).Markers.Has(component.MarkerBreaker) {
		t.Fatalf("breaker removed before the break window closed")
	}

	f.sys.Markers.Update(f.w)
	d := f.droplet(t)
	if d.Markers.Has(component.MarkerBreaker) || d.SlideDashBreak.Active {
		t.Fatalf("breaker should expire with the window: %+v", d.SlideDashBreak)
	}
	removed := removedMarkers(f.w.Events().Drain())
	if len(removed) != 1 || removed[0] != component.MarkerBreaker {
		t.Fatalf("removed events = %v", removed)
	}
}

func TestDrillerExpires(t *testing.T) {
	f := newDropletIn(t, component.MaterialGazeous)
	if err := f.sys.SetMaterialState(f.w, f.e, component.MaterialLiquid, true); err != nil {
		t.Fatalf("SetMaterialState: %v", err)
	}
	if !f.droplet(t).Markers.Has(component.MarkerDriller) {
		t.Fatalf("driller not granted")
	}
	f.w.Events().Drain()
	f.w.SetTimeStep(0.25)

	for i := 0; i < 3; i++ {
		f.sys.Markers.Update(f.w)
	}
	if !f.droplet(t).Markers.Has(component.MarkerDriller) {
		t.Fatalf("driller expired early")
	}

	f.sys.Markers.Update(f.w)
	if f.droplet(t).Markers.Has(component.MarkerDriller) {
		t.Fatalf("driller should expire after its duration")
	}
	removed := removedMarkers(f.w.Events().Drain())
	if len(removed) != 1 || removed[0] != component.MarkerDriller {
		t.Fatalf("removed events = %v", removed)
	}
}
