package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/common"
	"github.com/milk9111/droplet/curve"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
)

// slideDashBoost is the share of the current speed a slide dash adds.
const slideDashBoost = 0.5

// gazeousDashFallingFactor multiplies the gazeous dash impulse when the
// droplet is already falling.
const gazeousDashFallingFactor = 3

// SplashOutcome classifies a landing.
type SplashOutcome int

const (
	SplashNeutral SplashOutcome = iota
	SplashFailure
	SplashSuccess
)

func (o SplashOutcome) String() string {
	switch o {
	case SplashFailure:
		return "failure"
	case SplashSuccess:
		return "success"
	}
	return "neutral"
}

// splashAscendEpsilon is how far above horizontal a splash direction must
// point to count as ascending.
const splashAscendEpsilon = 1e-6

// ClassifySplash returns the band of an impact angle (degrees between the
// surface normal and the reversed velocity). The failure band is closed at
// 90-failure; an ascending splash always fails.
func ClassifySplash(angle float64, ascending bool, tuning component.SplashTuning) SplashOutcome {
	if angle <= 90-tuning.FailureThreshold || ascending {
		return SplashFailure
	}
	if angle >= 90-tuning.SuccessThreshold {
		return SplashSuccess
	}
	return SplashNeutral
}

// splashDirection bends the horizontal part of velocity along the surface
// with the given normal.
func splashDirection(velocity, normal mgl64.Vec3) mgl64.Vec3 {
	horizontal := common.Horizontal(velocity)
	angle := common.AngleDeg(normal, common.SafeNormal(horizontal))
	axis := common.Up.Cross(horizontal)
	return common.SafeNormal(common.RotateAngleAxis(horizontal, 90-angle, axis))
}

// StartSplash evaluates a landing on hit and arms the splash overlay unless
// the impact is neutral. It cancels a running slide dash.
func StartSplash(d *component.Droplet, m *component.Movement, profile *component.SpeedProfile, hit component.Hit) SplashOutcome {
	if d == nil || m == nil || profile == nil {
		return SplashNeutral
	}

	tuning := profile.Splash
	speed := m.Velocity.Len()
	angle := common.AngleDeg(hit.Normal, common.SafeNormal(m.Velocity).Mul(-1))
	dir := splashDirection(m.Velocity, hit.Normal)

	outcome := ClassifySplash(angle, dir.Z() > splashAscendEpsilon, tuning)
	switch outcome {
	case SplashFailure:
		d.Splash.TargetSpeed = speed - speed*tuning.BoostFactor
	case SplashSuccess:
		d.Splash.StartSpeed = speed
		d.Splash.TargetSpeed = speed + speed*tuning.BoostFactor
	default:
		if d.DebugSpeed {
			log.Printf("droplet: splash angle %.2f neutral", 90-angle)
		}
		return outcome
	}

	d.Splash.Active = true
	d.Splash.Duration = tuning.Duration
	d.Splash.Direction = dir
	d.SlideDash.Stop()

	if d.DebugSpeed {
		log.Printf("droplet: splash angle %.2f %s target %.2f", 90-angle, outcome, d.Splash.TargetSpeed)
	}
	return outcome
}

// StartSlideDash arms the slide dash and its break window. It is refused
// while splashing or airborne.
func StartSlideDash(d *component.Droplet, m *component.Movement, profile *component.SpeedProfile) bool {
	if d == nil || m == nil || profile == nil {
		return false
	}
	if d.Splash.Active || !m.OnGround() {
		d.SlideDash.Stop()
		return false
	}

	speed := m.Velocity.Len()
	start := m.Velocity
	if speed <= d.Tuning.VelocityMovingTolerance {
		start = common.SafeNormal(m.Forward).Mul(profile.SlideDash.NoMovementImpulse)
	}

	d.SlideDash = component.Overlay{
		Active:        true,
		Duration:      profile.SlideDash.Duration,
		StartVelocity: start,
		TargetSpeed:   speed + speed*slideDashBoost,
	}
	d.SlideDashBreak.Arm(d.Tuning.SlideDashBreakDuration)
	d.Markers.Add(component.MarkerBreaker)
	return true
}

// GazeousDash applies the upward impulse of entering the gazeous state and
// returns its magnitude.
func GazeousDash(m *component.Movement, profile *component.SpeedProfile) float64 {
	if m == nil || profile == nil {
		return 0
	}
	impulse := profile.GazeousDashImpulse
	if !m.OnGround() && m.Velocity.Z() < 0 {
		impulse *= gazeousDashFallingFactor
	}
	m.AddImpulse(common.Up.Mul(impulse))
	return impulse
}

// driveSplash writes the splash velocity for this tick. It reports whether
// the splash drove velocity; a finished splash is stopped and reports false.
func driveSplash(d *component.Droplet, m *component.Movement, profile *component.SpeedProfile, dt float64) bool {
	if !d.Splash.Active {
		return false
	}
	if d.Splash.Elapsed >= profile.Splash.Duration {
		d.Splash.Stop()
		return false
	}
	d.Splash.Duration = profile.Splash.Duration
	v := curve.Eval(profile.Splash.Curve, d.Splash.Progress())
	m.Velocity = d.Splash.Direction.Mul(v * d.Splash.TargetSpeed)
	d.Splash.Elapsed += dt
	return true
}

// driveSlideDash writes the slide dash velocity for this tick.
func driveSlideDash(d *component.Droplet, m *component.Movement, profile *component.SpeedProfile, dt float64) bool {
	if !d.SlideDash.Active {
		return false
	}
	if d.SlideDash.Elapsed >= profile.SlideDash.Duration {
		d.SlideDash.Stop()
		return false
	}
	d.SlideDash.Duration = profile.SlideDash.Duration
	v := curve.Eval(profile.SlideDash.Curve, d.SlideDash.Progress())
	m.Velocity = d.SlideDash.StartVelocity.Add(common.SafeNormal(m.Velocity).Mul(v * d.SlideDash.TargetSpeed))
	d.SlideDash.Elapsed += dt
	return true
}

// TransitionEffectsSystem resolves landings into splashes.
type TransitionEffectsSystem struct{}

func NewTransitionEffectsSystem() *TransitionEffectsSystem {
	return &TransitionEffectsSystem{}
}

func (s *TransitionEffectsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.LandingRequestComponent.Kind(), func(e ecs.Entity, req *component.LandingRequest) {
		hit := req.Hit
		ecs.Remove(w, e, component.LandingRequestComponent.Kind())
		if err := s.Landed(w, e, hit); err != nil {
			log.Printf("droplet: landed %v: %v", e, err)
		}
	})
}

// Landed handles the droplet touching ground. A liquid droplet that fell
// far enough splashes.
func (s *TransitionEffectsSystem) Landed(w *ecs.World, e ecs.Entity, hit component.Hit) error {
	ctrl, ok := ecs.Get(w, e, component.StateControllerComponent.Kind())
	if !ok {
		return ErrMissingDependency
	}
	d, ok := ecs.Get(w, e, component.DropletComponent.Kind())
	if !ok {
		return ErrMissingDependency
	}

	switch ctrl.Current {
	case component.MaterialLiquid:
		if !d.Splash.Active && d.CanSplash {
			m, okm := ecs.Get(w, e, component.MovementComponent.Kind())
			profile, okp := ecs.Get(w, e, component.SpeedProfileComponent.Kind())
			if !okm || !okp {
				return ErrMissingDependency
			}
			StartSplash(d, m, profile, hit)
		}
		d.CanSplash = false
		w.Events().Push(ecs.Event{Type: ecs.EventLanded, Entity: e, Data: ctrl.Current})
	case component.MaterialSolid:
		w.Events().Push(ecs.Event{Type: ecs.EventLanded, Entity: e, Data: ctrl.Current})
	}
	return nil
}
