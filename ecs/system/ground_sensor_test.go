package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/ecs/component"
)

func TestGroundSensorSlopeAngle(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}
	cases := []struct {
		name       string
		normals    [groundProbeCount]mgl64.Vec3
		wantAngle  float64
		wantNormal mgl64.Vec3
	}{
		{
			name:       "majority_flat_overrides_slope",
			normals:    [8]mgl64.Vec3{up, up, up, up, up, slopeNormal(20), slopeNormal(20), slopeNormal(20)},
			wantAngle:  0,
			wantNormal: up,
		},
		{
			name:       "majority_slope",
			normals:    [8]mgl64.Vec3{up, up, up, slopeNormal(20), slopeNormal(20), slopeNormal(20), slopeNormal(20), slopeNormal(20)},
			wantAngle:  20,
			wantNormal: slopeNormal(20),
		},
		{
			name:       "tie_keeps_slope",
			normals:    [8]mgl64.Vec3{up, up, up, up, slopeNormal(20), slopeNormal(20), slopeNormal(20), slopeNormal(20)},
			wantAngle:  20,
			wantNormal: slopeNormal(20),
		},
		{
			name:       "steepest_wins",
			normals:    [8]mgl64.Vec3{slopeNormal(10), slopeNormal(10), slopeNormal(30), slopeNormal(10), slopeNormal(10), slopeNormal(30), slopeNormal(10), slopeNormal(10)},
			wantAngle:  30,
			wantNormal: slopeNormal(30),
		},
		{
			name:       "misses_are_ignored",
			normals:    [8]mgl64.Vec3{{}, {}, {}, {}, {}, slopeNormal(25), slopeNormal(25), up},
			wantAngle:  25,
			wantNormal: slopeNormal(25),
		},
		{
			name:       "nothing_hit",
			wantAngle:  0,
			wantNormal: up,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &fakeWorld{normals: tc.normals, ground: 50}
			g := NewGroundSensor(q)
			ground := &component.Ground{}

			angle, normal := g.SlopeAngle(mgl64.Vec3{}, 20, 100, 1, ground)
			if !mgl64.FloatEqualThreshold(angle, tc.wantAngle, 1e-9) {
				t.Fatalf("angle = %v, want %v", angle, tc.wantAngle)
			}
			if !normal.ApproxEqualThreshold(tc.wantNormal, 1e-9) {
				t.Fatalf("normal = %v, want %v", normal, tc.wantNormal)
			}
			if q.calls != groundProbeCount {
				t.Fatalf("expected %d probes, got %d", groundProbeCount, q.calls)
			}
			for i, p := range ground.Probes {
				if p.OK != (tc.normals[i] != mgl64.Vec3{}) {
					t.Fatalf("probe %d recorded ok=%v", i, p.OK)
				}
			}
		})
	}
}

func TestGroundSensorProbeRing(t *testing.T) {
	offsets := probeOffsets(10)
	for i, off := range offsets {
		if ringSlot(off) != i {
			t.Fatalf("offset %d maps to slot %d", i, ringSlot(off))
		}
		if !mgl64.FloatEqualThreshold(off.Len(), 10, 1e-9) || off.Z() != 0 {
			t.Fatalf("offset %d = %v, want horizontal radius 10", i, off)
		}
	}
}

func TestGroundSensorAscending(t *testing.T) {
	cases := []struct {
		name     string
		velocity mgl64.Vec3
		want     bool
	}{
		{"uphill", mgl64.Vec3{100, 0, 0}, true},
		{"downhill", mgl64.Vec3{-100, 0, 0}, false},
		{"below_tolerance", mgl64.Vec3{0.05, 0, 0}, false},
		{"still", mgl64.Vec3{}, false},
	}

	g := NewGroundSensor(newFakeWorld(slopeNormal(20)))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Ascending(mgl64.Vec3{}, 20, 100, tc.velocity, 0.1); got != tc.want {
				t.Fatalf("Ascending = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGroundSensorProbeUnder(t *testing.T) {
	q := newFakeWorld(mgl64.Vec3{0, 0, 1})
	q.ground = 300
	g := NewGroundSensor(q)

	if _, ok := g.ProbeUnder(mgl64.Vec3{}, mgl64.Vec3{}, 200); ok {
		t.Fatalf("probe shorter than the ground distance should miss")
	}
	hit, ok := g.ProbeUnder(mgl64.Vec3{}, mgl64.Vec3{}, 400)
	if !ok || hit.Distance != 300 {
		t.Fatalf("expected hit at 300, got %+v ok=%v", hit, ok)
	}

	var nilSensor *GroundSensor
	if _, ok := nilSensor.ProbeUnder(mgl64.Vec3{}, mgl64.Vec3{}, 400); ok {
		t.Fatalf("nil sensor should never hit")
	}
}

func TestGroundSensorOnFlat(t *testing.T) {
	if !NewGroundSensor(newFakeWorld(mgl64.Vec3{0, 0, 1})).OnFlat(mgl64.Vec3{}, 20, 100, 1, 0.1) {
		t.Fatalf("flat ground should be flat")
	}
	if NewGroundSensor(newFakeWorld(slopeNormal(15))).OnFlat(mgl64.Vec3{}, 20, 100, 1, 0.1) {
		t.Fatalf("15 degree slope should not be flat")
	}
}
