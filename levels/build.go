package levels

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

func (p Point) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{p.X, 0, p.Z}
}

// PhysicsWorld builds the static terrain of l.
func (l *Level) PhysicsWorld() *ecs.PhysicsWorld {
	pw := ecs.NewPhysicsWorld()
	if l == nil {
		return pw
	}
	for _, s := range l.Terrain {
		pw.AddSegment(ecs.Segment{A: s.From.Vec3(), B: s.To.Vec3()})
	}
	return pw
}

// SpawnPrompts creates one interactable entity per prompt of l and returns
// them with their targets, in level order.
func (l *Level) SpawnPrompts(w *ecs.World) ([]ecs.Entity, []*component.Prompt, error) {
	if l == nil {
		return nil, nil, nil
	}
	entities := make([]ecs.Entity, 0, len(l.Prompts))
	prompts := make([]*component.Prompt, 0, len(l.Prompts))
	for _, p := range l.Prompts {
		e := ecs.CreateEntity(w)
		target := component.NewPrompt(p.Name, p.At.Vec3(), p.Radius)
		target.Disabled = p.Disabled

		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: p.At.Vec3()}); err != nil {
			return nil, nil, fmt.Errorf("levels: prompt %q: %w", p.Name, err)
		}
		if err := ecs.Add(w, e, component.InteractableComponent.Kind(), &component.Interactable{Target: target, Dialogue: p.Dialogue}); err != nil {
			return nil, nil, fmt.Errorf("levels: prompt %q: %w", p.Name, err)
		}
		entities = append(entities, e)
		prompts = append(prompts, target)
	}
	return entities, prompts, nil
}
