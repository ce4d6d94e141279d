package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/common"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// BodySystem is a minimal kinematic character body for hosts that have no
// movement component of their own. It integrates velocity in the vertical
// plane of a side view course, follows the ground while walking and queues
// a LandingRequest when a fall ends. It runs after the droplet systems.
type BodySystem struct {
	Query      WorldQuery
	Gravity    float64
	JumpSpeed  float64
	StepHeight float64

	// MinX and MaxX bound the course; an empty range disables the clamp.
	MinX, MaxX float64
}

func NewBodySystem(query WorldQuery) *BodySystem {
	return &BodySystem{Query: query, Gravity: 2400, JumpSpeed: 900, StepHeight: 24}
}

func (s *BodySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if s.Query == nil {
		if pw := w.PhysicsWorld(); pw != nil {
			s.Query = pw
		} else {
			log.Printf("droplet: body: %v", ErrMissingDependency)
			return
		}
	}
	dt := w.DeltaSeconds()

	ecs.ForEach3(w, component.MovementComponent.Kind(), component.TransformComponent.Kind(), component.CapsuleComponent.Kind(), func(e ecs.Entity, m *component.Movement, t *component.Transform, c *component.Capsule) {
		overlay := false
		if d, ok := ecs.Get(w, e, component.DropletComponent.Kind()); ok {
			overlay = d.OverlayActive()
		}

		switch m.Mode {
		case component.MovementWalking:
			s.walk(m, t, c, overlay, dt)
		case component.MovementFalling:
			if hit, landed := s.fall(m, t, c, overlay, dt); landed {
				_ = ecs.Add(w, e, component.LandingRequestComponent.Kind(), &component.LandingRequest{Hit: hit})
			}
		case component.MovementFlying:
			s.fly(m, t, c, dt)
		}
	})
}

func (s *BodySystem) walk(m *component.Movement, t *component.Transform, c *component.Capsule, overlay bool, dt float64) {
	if m.JumpRequested {
		m.JumpRequested = false
		m.Velocity[2] = s.JumpSpeed
		m.Mode = component.MovementFalling
		t.Position = t.Position.Add(planar(m.Velocity).Mul(dt))
		s.clampX(t, c)
		return
	}

	if !overlay {
		target := mgl64.Vec3{m.Input.X() * m.MaxWalkSpeed, 0, 0}
		m.Velocity = approach(mgl64.Vec3{m.Velocity.X(), 0, 0}, target, m.MaxAcceleration*dt)
	}
	t.Position[0] += m.Velocity.X() * dt
	s.clampX(t, c)

	origin := t.Position.Add(mgl64.Vec3{0, 0, s.StepHeight})
	hit, ok := s.Query.Probe(origin, common.Down, c.HalfHeight+2*s.StepHeight)
	if !ok {
		m.Mode = component.MovementFalling
		return
	}
	t.Position[2] = hit.Point.Z() + c.HalfHeight
	m.Velocity[2] = 0
}

// fall integrates gravity and reports the ground hit when the fall ends.
// The impact velocity is kept so the landing can be classified.
func (s *BodySystem) fall(m *component.Movement, t *component.Transform, c *component.Capsule, overlay bool, dt float64) (component.Hit, bool) {
	m.JumpRequested = false
	m.Velocity[2] -= s.Gravity * m.GravityScale * dt
	if !overlay {
		target := m.Input.X() * m.MaxWalkSpeed
		m.Velocity[0] = approachScalar(m.Velocity.X(), target, m.MaxAcceleration*m.AirControl*dt)
	}

	prev := t.Position
	t.Position = t.Position.Add(planar(m.Velocity).Mul(dt))
	s.clampX(t, c)
	if m.Velocity.Z() > 0 {
		return component.Hit{}, false
	}

	origin := mgl64.Vec3{t.Position.X(), t.Position.Y(), prev.Z()}
	hit, ok := s.Query.Probe(origin, common.Down, prev.Z()-t.Position.Z()+c.HalfHeight)
	if !ok {
		return component.Hit{}, false
	}
	t.Position[2] = hit.Point.Z() + c.HalfHeight

	mode := m.DefaultLandMode
	if mode == component.MovementNone || mode == component.MovementFalling {
		mode = component.MovementWalking
	}
	m.Mode = mode
	return hit, true
}

func (s *BodySystem) fly(m *component.Movement, t *component.Transform, c *component.Capsule, dt float64) {
	m.JumpRequested = false
	target := planar(m.Input).Mul(m.MaxFlySpeed)
	m.Velocity = approach(planar(m.Velocity), target, m.MaxAcceleration*dt)
	t.Position = t.Position.Add(m.Velocity.Mul(dt))
	s.clampX(t, c)

	hit, ok := s.Query.Probe(t.Position.Add(mgl64.Vec3{0, 0, c.HalfHeight}), common.Down, 2*c.HalfHeight)
	if ok && hit.Point.Z()+c.HalfHeight > t.Position.Z() {
		t.Position[2] = hit.Point.Z() + c.HalfHeight
		if m.Velocity.Z() < 0 {
			m.Velocity[2] = 0
		}
	}
}

func (s *BodySystem) clampX(t *component.Transform, c *component.Capsule) {
	if s.MaxX <= s.MinX {
		return
	}
	t.Position[0] = common.Clamp(t.Position.X(), s.MinX+c.Radius, s.MaxX-c.Radius)
}

// planar drops the collapsed Y axis of the side view.
func planar(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// approach moves v toward target by at most maxDelta.
func approach(v, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	diff := target.Sub(v)
	l := diff.Len()
	if l <= maxDelta || l == 0 {
		return target
	}
	return v.Add(diff.Mul(maxDelta / l))
}

func approachScalar(v, target, maxDelta float64) float64 {
	switch {
	case target > v:
		return min(v+maxDelta, target)
	case target < v:
		return max(v-maxDelta, target)
	}
	return v
}
