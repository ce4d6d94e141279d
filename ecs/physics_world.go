package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/droplet/ecs/component"
)

const collisionTypeSolid cp.CollisionType = 1

// PhysicsWorld owns a Chipmunk space holding the static terrain of a side
// view course. World X maps to space X and world Z (up) maps to space Y; the
// world Y axis is collapsed, so probes that differ only in Y hit the same
// surface.
type PhysicsWorld struct {
	space    *cp.Space
	segments []Segment
}

// Segment is a static terrain edge in world coordinates.
type Segment struct {
	A, B   mgl64.Vec3
	Radius float64
}

// NewPhysicsWorld creates a physics world with the given static terrain.
func NewPhysicsWorld(segments ...Segment) *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	pw := &PhysicsWorld{space: space}
	for _, seg := range segments {
		pw.AddSegment(seg)
	}
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) Segments() []Segment {
	if pw == nil {
		return nil
	}
	return append([]Segment(nil), pw.segments...)
}

func (pw *PhysicsWorld) AddSegment(seg Segment) {
	if pw == nil || pw.space == nil {
		return
	}
	shape := cp.NewSegment(pw.space.StaticBody, toSpace(seg.A), toSpace(seg.B), seg.Radius)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	pw.space.AddShape(shape)
	pw.segments = append(pw.segments, seg)
}

// Probe casts a segment from origin along dir and reports the first static
// surface hit within maxLength.
func (pw *PhysicsWorld) Probe(origin, dir mgl64.Vec3, maxLength float64) (component.Hit, bool) {
	if pw == nil || pw.space == nil || maxLength <= 0 {
		return component.Hit{}, false
	}
	end := origin.Add(dir.Mul(maxLength))
	info := pw.space.SegmentQueryFirst(toSpace(origin), toSpace(end), 0, cp.SHAPE_FILTER_ALL)
	if info.Shape == nil {
		return component.Hit{}, false
	}

	point := origin.Add(end.Sub(origin).Mul(info.Alpha))
	// keep the collapsed axis of the probe so callers see their own origin
	point[1] = origin[1]
	normal := mgl64.Vec3{info.Normal.X, 0, info.Normal.Y}
	return component.Hit{
		Point:    point,
		Normal:   normal,
		Distance: maxLength * info.Alpha,
	}, true
}

// Step advances the physics simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.Step(dt)
}

func toSpace(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v[0], Y: v[2]}
}
