package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/common"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// SpeedSystem adapts the droplet's walking speed to the ground under it and
// drives the transition overlays. It runs after material state requests and
// marker timers.
type SpeedSystem struct {
	Sensor *GroundSensor
}

func NewSpeedSystem(sensor *GroundSensor) *SpeedSystem {
	return &SpeedSystem{Sensor: sensor}
}

// speedContext gathers what one modulation step needs.
type speedContext struct {
	d       *component.Droplet
	m       *component.Movement
	ctrl    *component.StateController
	profile *component.SpeedProfile
	stamina *component.Stamina
	ground  *component.Ground

	pos    mgl64.Vec3
	radius float64
	dt     float64
}

func (s *SpeedSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.DropletComponent.Kind(), component.MovementComponent.Kind(), component.StateControllerComponent.Kind(), func(e ecs.Entity, d *component.Droplet, m *component.Movement, ctrl *component.StateController) {
		profile, ok := ecs.Get(w, e, component.SpeedProfileComponent.Kind())
		if !ok {
			log.Printf("droplet: speed profile of %v: %v", e, ErrMissingDependency)
			return
		}

		ctx := speedContext{d: d, m: m, ctrl: ctrl, profile: profile, dt: w.DeltaSeconds()}
		ctx.stamina, _ = ecs.Get(w, e, component.StaminaComponent.Kind())
		ctx.ground, _ = ecs.Get(w, e, component.GroundComponent.Kind())
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			ctx.pos = t.Position
		}
		if c, ok := ecs.Get(w, e, component.CapsuleComponent.Kind()); ok {
			ctx.radius = c.Radius
		}

		s.Modulate(&ctx)
	})
}

// Modulate runs one tick. An active overlay drives velocity and ends the
// tick early; otherwise grounded droplets get their walk speed adapted to
// the slope and falling droplets get their fall speed capped.
func (s *SpeedSystem) Modulate(ctx *speedContext) {
	d, m := ctx.d, ctx.m

	if driveSplash(d, m, ctx.profile, ctx.dt) {
		return
	}

	switch {
	case m.OnGround():
		d.CanSplash = false
		if driveSlideDash(d, m, ctx.profile, ctx.dt) {
			return
		}
		s.modulateWalking(ctx)
	case m.Falling():
		s.capFall(ctx)
	}

	if d.UnderOil {
		m.MaxWalkSpeed *= ctx.profile.OilFactor
	}
	if d.DebugSpeed {
		log.Printf("droplet: max walk speed %.2f", m.MaxWalkSpeed)
	}
	d.JustChangedState = false
}

func (s *SpeedSystem) modulateWalking(ctx *speedContext) {
	d, m := ctx.d, ctx.m
	tuning := d.Tuning

	speeds, ok := ctx.profile.Walking(ctx.ctrl.Current)
	if !ok {
		if ctx.ctrl.Current == component.MaterialNone {
			log.Printf("droplet: walking with material state none")
		}
		speeds = component.StateSpeeds{DescendingMax: m.MaxWalkSpeed, FlatMax: m.MaxWalkSpeed}
	}

	slope, normal := s.Sensor.SlopeAngle(ctx.pos, ctx.radius, tuning.LineTraceLength, tuning.SlopeDetectionThreshold, ctx.ground)
	if ctx.ground != nil {
		ctx.ground.SlopeAngle = slope
		ctx.ground.SlopeNormal = normal
		ctx.ground.Ascending = false
	}

	if slope < tuning.FlatSurfaceTolerance {
		m.MaxWalkSpeed = speeds.FlatMax
		return
	}

	if s.Sensor.Ascending(ctx.pos, ctx.radius, tuning.LineTraceLength, m.Velocity, tuning.VelocityMovingTolerance) {
		if ctx.ground != nil {
			ctx.ground.Ascending = true
		}
		s.ascend(ctx, speeds, slope)
		return
	}
	if m.Velocity.Len() > tuning.VelocityMovingTolerance {
		s.descend(ctx, speeds)
	}
}

// ascend converges MaxWalkSpeed toward the ascending target. A liquid
// droplet out of stamina keeps climbing gentle slopes at the minimum speed.
func (s *SpeedSystem) ascend(ctx *speedContext, speeds component.StateSpeeds, slope float64) {
	d, m := ctx.d, ctx.m
	empty := false

	if ctx.ctrl.Current == component.MaterialLiquid {
		if ctx.stamina != nil {
			if slope < d.Tuning.MaxSlopeAngle && ctx.stamina.Current() <= 0 {
				d.TargetMaxSpeed = speeds.AscendingMin
				empty = true
			} else {
				d.TargetMaxSpeed = max(speeds.AscendingMax, speeds.AscendingMin)
			}
		}
	} else {
		d.TargetMaxSpeed = speeds.AscendingMax
	}

	below := m.MaxWalkSpeed < d.TargetMaxSpeed
	if below {
		// never snap below the current speed, AscendingMin may exceed AscendingMax
		if empty {
			m.MaxWalkSpeed = max(m.MaxWalkSpeed, speeds.AscendingMin)
		} else {
			m.MaxWalkSpeed = max(m.MaxWalkSpeed, speeds.AscendingMax)
		}
	}

	// The empty-stamina factor applies while stamina remains and the regular
	// factor once it is gone.
	factor := speeds.AscendingFactorEmptyStamina
	if empty {
		factor = speeds.AscendingFactor
	}
	m.MaxWalkSpeed = stepToward(m.MaxWalkSpeed, d.TargetMaxSpeed, factor, below)
}

// descend converges MaxWalkSpeed toward the descending maximum. A droplet
// already faster than the maximum drops to it at once.
func (s *SpeedSystem) descend(ctx *speedContext, speeds component.StateSpeeds) {
	d, m := ctx.d, ctx.m
	d.TargetMaxSpeed = speeds.DescendingMax

	below := m.MaxWalkSpeed < d.TargetMaxSpeed
	if !below {
		m.MaxWalkSpeed = speeds.DescendingMax
	}
	m.MaxWalkSpeed = stepToward(m.MaxWalkSpeed, d.TargetMaxSpeed, speeds.DescendingFactor, below)
}

// stepToward moves current by factor in the direction of target. The result
// never passes target: climbing toward a higher target is clamped to
// [current, target], falling toward a lower one to [target, stepped].
func stepToward(current, target, factor float64, below bool) float64 {
	next := current + factor*common.Sign(target-current)
	if below {
		return common.Clamp(next, min(current, target), target)
	}
	return common.Clamp(next, target, next)
}

// capFall limits the fall speed and decides whether the coming landing may
// splash: once the droplet has been higher than the splash ground distance
// the landing of this fall splashes. The tick after a transition restores
// the fall speed the droplet had, unless it was a gas.
func (s *SpeedSystem) capFall(ctx *speedContext) {
	d, m := ctx.d, ctx.m

	if d.JustChangedState && ctx.ctrl.Previous != component.MaterialGazeous {
		m.Velocity[2] = d.CurrentFallingSpeed
	}

	if _, near := s.Sensor.ProbeUnder(ctx.pos, mgl64.Vec3{}, ctx.profile.Splash.GroundDistance); !near {
		d.CanSplash = true
	}

	if m.Velocity.Z() < -ctx.profile.FallMax {
		m.Velocity[2] = -ctx.profile.FallMax
	}
	d.CurrentFallingSpeed = m.Velocity.Z()
}
