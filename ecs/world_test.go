package ecs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/ecs/component"
)

func intPtr(v int) *int          { return &v }
func stringPtr(v string) *string { return &v }

func TestEntitiesTracksLiveHandles(t *testing.T) {
	tests := []struct {
		name    string
		spawn   int
		destroy []int
		want    int
	}{
		{name: "empty"},
		{name: "spawn_only", spawn: 3, want: 3},
		{name: "destroy_middle", spawn: 4, destroy: []int{1}, want: 3},
		{name: "destroy_all", spawn: 2, destroy: []int{0, 1}, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWorld()
			spawned := make([]Entity, tc.spawn)
			for i := range spawned {
				spawned[i] = CreateEntity(w)
				if !spawned[i].Valid() {
					t.Fatalf("entity %d invalid", i)
				}
			}
			for _, i := range tc.destroy {
				DestroyEntity(w, spawned[i])
			}

			live := Entities(w)
			if len(live) != tc.want {
				t.Fatalf("expected %d live entities, got %d", tc.want, len(live))
			}
			for _, e := range live {
				if !IsAlive(w, e) {
					t.Fatalf("%v listed but not alive", e)
				}
			}
			for _, i := range tc.destroy {
				if IsAlive(w, spawned[i]) {
					t.Fatalf("destroyed %v still alive", spawned[i])
				}
			}
		})
	}
}

func TestDropletComponents(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	pos := mgl64.Vec3{10, 0, 32}
	if err := Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		t.Fatal(err)
	}
	stamina := component.NewStamina(component.StaminaProfile{Max: 80})
	if err := Add(w, e, component.StaminaComponent.Kind(), &stamina); err != nil {
		t.Fatal(err)
	}

	tr, ok := Get(w, e, component.TransformComponent.Kind())
	if !ok || tr.Position != pos {
		t.Fatalf("unexpected transform %v ok=%v", tr, ok)
	}
	tr.Position[2] = 0
	if again, _ := Get(w, e, component.TransformComponent.Kind()); again.Position[2] != 0 {
		t.Fatalf("Get should return the stored pointer")
	}

	if err := Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: mgl64.Vec3{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	if tr, _ := Get(w, e, component.TransformComponent.Kind()); tr.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("Add should replace, got %v", tr.Position)
	}

	if Has(w, e, component.CapsuleComponent.Kind()) {
		t.Fatalf("capsule never added")
	}
	if Remove(w, e, component.CapsuleComponent.Kind()) {
		t.Fatalf("removing a missing component should report false")
	}
	if !Remove(w, e, component.StaminaComponent.Kind()) {
		t.Fatalf("expected stamina removal")
	}
	if _, ok := Get(w, e, component.StaminaComponent.Kind()); ok {
		t.Fatalf("stamina still present after Remove")
	}

	DestroyEntity(w, e)
	if _, ok := Get(w, e, component.TransformComponent.Kind()); ok {
		t.Fatalf("destroyed entity kept its transform")
	}
	if Remove(w, e, component.TransformComponent.Kind()) {
		t.Fatalf("Remove on a dead entity should report false")
	}
}

func TestForEachIntersections(t *testing.T) {
	w := NewWorld()
	transformK := component.TransformComponent.Kind()
	movementK := component.MovementComponent.Kind()
	capsuleK := component.CapsuleComponent.Kind()

	body := CreateEntity(w)
	_ = Add(w, body, transformK, &component.Transform{})
	_ = Add(w, body, movementK, &component.Movement{})
	_ = Add(w, body, capsuleK, &component.Capsule{Radius: 16, HalfHeight: 16})

	prop := CreateEntity(w)
	_ = Add(w, prop, transformK, &component.Transform{})

	ghost := CreateEntity(w)
	_ = Add(w, ghost, transformK, &component.Transform{})
	_ = Add(w, ghost, movementK, &component.Movement{})
	_ = Add(w, ghost, capsuleK, &component.Capsule{})
	DestroyEntity(w, ghost)

	collect := func(visit func(func(Entity))) []Entity {
		var got []Entity
		visit(func(e Entity) { got = append(got, e) })
		return got
	}

	tests := []struct {
		name  string
		visit func(func(Entity))
		want  []Entity
	}{
		{
			name: "single",
			visit: func(f func(Entity)) {
				ForEach(w, transformK, func(e Entity, _ *component.Transform) { f(e) })
			},
			want: []Entity{body, prop},
		},
		{
			name: "pair",
			visit: func(f func(Entity)) {
				ForEach2(w, transformK, movementK, func(e Entity, _ *component.Transform, _ *component.Movement) { f(e) })
			},
			want: []Entity{body},
		},
		{
			name: "triple",
			visit: func(f func(Entity)) {
				ForEach3(w, movementK, transformK, capsuleK, func(e Entity, _ *component.Movement, _ *component.Transform, c *component.Capsule) {
					if c.Radius == 16 {
						f(e)
					}
				})
			},
			want: []Entity{body},
		},
		{
			name: "missing_store",
			visit: func(f func(Entity)) {
				ForEach2(w, transformK, component.StaminaComponent.Kind(), func(e Entity, _ *component.Transform, _ *component.Stamina) { f(e) })
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := collect(tc.visit)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			seen := make(map[Entity]bool, len(got))
			for _, e := range got {
				seen[e] = true
			}
			for _, e := range tc.want {
				if !seen[e] {
					t.Fatalf("missing %v in %v", e, got)
				}
			}
		})
	}
}

func TestForEachToleratesRemovalDuringIteration(t *testing.T) {
	w := NewWorld()
	kind := component.TransformComponent.Kind()
	for i := 0; i < 4; i++ {
		_ = Add(w, CreateEntity(w), kind, &component.Transform{Position: mgl64.Vec3{float64(i), 0, 0}})
	}

	visited := 0
	ForEach(w, kind, func(e Entity, _ *component.Transform) {
		visited++
		Remove(w, e, kind)
	})
	if visited != 4 {
		t.Fatalf("expected 4 visits, got %d", visited)
	}
	if _, ok := First(w, kind); ok {
		t.Fatalf("expected every transform removed")
	}
}

func TestTimeStep(t *testing.T) {
	w := NewWorld()
	if w.DeltaSeconds() != DefaultTimeStep {
		t.Fatalf("expected default step, got %v", w.DeltaSeconds())
	}
	w.SetTimeStep(0)
	if w.DeltaSeconds() != DefaultTimeStep {
		t.Fatalf("non-positive step should be ignored")
	}
	w.SetTimeStep(0.02)
	if w.DeltaSeconds() != 0.02 {
		t.Fatalf("expected 0.02, got %v", w.DeltaSeconds())
	}

	var nilWorld *World
	if nilWorld.PhysicsWorld() != nil {
		t.Fatalf("nil world has no physics")
	}
}

func TestEntityReuseBumpsGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
		t.Fatal(err)
	}
	if !DestroyEntity(w, e1) {
		t.Fatalf("DestroyEntity should succeed")
	}
	if DestroyEntity(w, e1) {
		t.Fatalf("double destroy should fail")
	}

	e2 := CreateEntity(w)
	if e2.id() != e1.id() {
		t.Fatalf("expected slot reuse, got %v and %v", e1, e2)
	}
	if e2.generation() == e1.generation() {
		t.Fatalf("expected generation bump on reuse")
	}
	if IsAlive(w, e1) {
		t.Fatalf("stale handle should not be alive")
	}
	if Has(w, e2, h.Kind()) {
		t.Fatalf("recycled entity must not inherit components")
	}
	if err := Add(w, e1, h.Kind(), intPtr(2)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	if err := Add(w, e, component.ComponentKind[int]{}, intPtr(1)); err != component.ErrInvalidComponentKind {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
	if err := Add(w, e, component.NewComponentKind[int](), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[string]()

	if _, ok := First(w, h.Kind()); ok {
		t.Fatalf("expected no entity before any add")
	}

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	if err := Add(w, e2, h.Kind(), stringPtr("b")); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e1, h.Kind(), stringPtr("a")); err != nil {
		t.Fatal(err)
	}

	got, ok := First(w, h.Kind())
	if !ok || got != e2 {
		t.Fatalf("expected e2 first, got %v ok=%v", got, ok)
	}
}

func TestSchedulerOrder(t *testing.T) {
	var order []string
	s := NewScheduler(
		systemFunc(func(*World) { order = append(order, "a") }),
		nil,
		systemFunc(func(*World) { order = append(order, "b") }),
	)
	s.Add(systemFunc(func(*World) { order = append(order, "c") }))
	s.Update(NewWorld())

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("unexpected order %v", order)
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("expected 3 systems, got %d", len(s.Systems()))
	}
}

type systemFunc func(*World)

func (f systemFunc) Update(w *World) { f(w) }

func TestEventQueueDrain(t *testing.T) {
	w := NewWorld()
	w.Events().Push(Event{Type: EventLanded})
	w.Events().Push(Event{Type: EventMarkerAdded})

	if w.Events().Len() != 2 {
		t.Fatalf("expected 2 queued events")
	}
	evts := w.Events().Drain()
	if len(evts) != 2 || evts[0].Type != EventLanded {
		t.Fatalf("unexpected events %v", evts)
	}
	if w.Events().Drain() != nil {
		t.Fatalf("queue should be empty after drain")
	}
}
