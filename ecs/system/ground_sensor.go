package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/common"
	"github.com/milk9111/droplet/ecs/component"
)

const groundProbeCount = 8

// GroundSensor measures the ground under a capsule with a ring of downward
// probes.
type GroundSensor struct {
	Query WorldQuery
}

func NewGroundSensor(query WorldQuery) *GroundSensor {
	return &GroundSensor{Query: query}
}

// probeOffsets returns the horizontal offsets of the probe ring.
func probeOffsets(radius float64) [groundProbeCount]mgl64.Vec3 {
	var out [groundProbeCount]mgl64.Vec3
	for i := range out {
		a := float64(i) * math.Pi / 4
		out[i] = mgl64.Vec3{math.Cos(a) * radius, math.Sin(a) * radius, 0}
	}
	return out
}

// ProbeUnder casts a single downward probe from pos+offset.
func (g *GroundSensor) ProbeUnder(pos, offset mgl64.Vec3, length float64) (component.Hit, bool) {
	if g == nil || g.Query == nil {
		return component.Hit{}, false
	}
	return g.Query.Probe(pos.Add(offset), common.Down, length)
}

// ring casts the probe ring and records every result in ground.
func (g *GroundSensor) ring(pos mgl64.Vec3, radius, length float64, ground *component.Ground) [groundProbeCount]component.GroundProbe {
	var probes [groundProbeCount]component.GroundProbe
	for i, off := range probeOffsets(radius) {
		hit, ok := g.ProbeUnder(pos, off, length)
		probes[i] = component.GroundProbe{Origin: pos.Add(off), Hit: hit, OK: ok}
	}
	if ground != nil {
		ground.Probes = probes
	}
	return probes
}

// SlopeAngle returns the slope under the capsule in degrees and its normal.
// Each hit counts as slope when its angle to up exceeds threshold and as
// flat otherwise. When flat probes outnumber slope probes the ground is
// flat, whatever the steepest probe saw; otherwise the steepest angle and
// its normal are returned. Missed probes are ignored.
func (g *GroundSensor) SlopeAngle(pos mgl64.Vec3, radius, length, threshold float64, ground *component.Ground) (float64, mgl64.Vec3) {
	angle := 0.0
	normal := common.Up
	flat, slope := 0, 0

	for _, p := range g.ring(pos, radius, length, ground) {
		if !p.OK {
			continue
		}
		a := common.AngleDeg(p.Hit.Normal, common.Up)
		if a > threshold {
			slope++
		} else {
			flat++
		}
		if a > angle {
			angle = a
			normal = p.Hit.Normal
		}
	}

	if flat > slope {
		return 0, common.Up
	}
	return angle, normal
}

// Ascending reports whether the velocity runs into the ground: any probe
// whose normal points against the direction of travel by more than 90
// degrees. A droplet slower than tolerance never ascends.
func (g *GroundSensor) Ascending(pos mgl64.Vec3, radius, length float64, velocity mgl64.Vec3, tolerance float64) bool {
	if velocity.Len() <= tolerance {
		return false
	}
	dir := common.SafeNormal(velocity)
	for _, p := range g.ring(pos, radius, length, nil) {
		if p.OK && common.AngleDeg(p.Hit.Normal, dir) > 90 {
			return true
		}
	}
	return false
}

// OnFlat reports whether the slope is within tolerance.
func (g *GroundSensor) OnFlat(pos mgl64.Vec3, radius, length, threshold, tolerance float64) bool {
	angle, _ := g.SlopeAngle(pos, radius, length, threshold, nil)
	return angle <= tolerance
}
