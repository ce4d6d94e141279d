package ecs

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPhysicsWorldProbe(t *testing.T) {
	pw := NewPhysicsWorld(
		Segment{A: mgl64.Vec3{-100, 0, 0}, B: mgl64.Vec3{100, 0, 0}},
		Segment{A: mgl64.Vec3{100, 0, 0}, B: mgl64.Vec3{200, 0, 100}},
	)
	down := mgl64.Vec3{0, 0, -1}

	cases := []struct {
		name       string
		origin     mgl64.Vec3
		length     float64
		wantHit    bool
		wantDist   float64
		wantNormal mgl64.Vec3
	}{
		{"flat_hit", mgl64.Vec3{0, 5, 50}, 100, true, 50, mgl64.Vec3{0, 0, 1}},
		{"flat_too_short", mgl64.Vec3{0, 0, 50}, 10, false, 0, mgl64.Vec3{}},
		{"slope_hit", mgl64.Vec3{150, 0, 100}, 100, true, 50, mgl64.Vec3{-math.Sqrt2 / 2, 0, math.Sqrt2 / 2}},
		{"past_course", mgl64.Vec3{500, 0, 50}, 100, false, 0, mgl64.Vec3{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hit, ok := pw.Probe(tc.origin, down, tc.length)
			if ok != tc.wantHit {
				t.Fatalf("hit=%v, want %v", ok, tc.wantHit)
			}
			if !ok {
				return
			}
			if math.Abs(hit.Distance-tc.wantDist) > 1e-6 {
				t.Fatalf("distance=%v, want %v", hit.Distance, tc.wantDist)
			}
			if !hit.Normal.ApproxEqualThreshold(tc.wantNormal, 1e-6) {
				t.Fatalf("normal=%v, want %v", hit.Normal, tc.wantNormal)
			}
			if hit.Point[1] != tc.origin[1] {
				t.Fatalf("probe should keep the collapsed axis, got %v", hit.Point)
			}
		})
	}
}

func TestPhysicsWorldNil(t *testing.T) {
	var pw *PhysicsWorld
	if _, ok := pw.Probe(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}, 10); ok {
		t.Fatalf("nil world must not report hits")
	}
	pw.Step(1)
	if pw.Segments() != nil {
		t.Fatalf("nil world has no segments")
	}
}
