package system

import (
	"log"

	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// StaminaSystem drains and regenerates the stamina pool of each droplet.
// Climbing drains it; the ground sensor must have run earlier in the tick.
type StaminaSystem struct{}

func NewStaminaSystem() *StaminaSystem {
	return &StaminaSystem{}
}

func (s *StaminaSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaSeconds()

	ecs.ForEach(w, component.StaminaComponent.Kind(), func(e ecs.Entity, st *component.Stamina) {
		ascending := false
		m, okm := ecs.Get(w, e, component.MovementComponent.Kind())
		g, okg := ecs.Get(w, e, component.GroundComponent.Kind())
		if okm && okg {
			ascending = m.OnGround() && g.Ascending
		}

		wasEmpty := st.Empty()
		st.Tick(dt, ascending)
		if st.DebugMessages && !wasEmpty && st.Empty() {
			log.Printf("droplet: stamina of %v is empty", e)
		}
	})
}
