package component

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type MovementMode int

const (
	MovementNone MovementMode = iota
	MovementWalking
	MovementFalling
	MovementFlying
)

func (m MovementMode) String() string {
	switch m {
	case MovementWalking:
		return "walking"
	case MovementFalling:
		return "falling"
	case MovementFlying:
		return "flying"
	}
	return "none"
}

func ParseMovementMode(s string) (MovementMode, error) {
	for m := MovementNone; m <= MovementFlying; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return MovementNone, fmt.Errorf("unknown movement mode %q", s)
}

// Movement is the character movement state shared with the host physics.
// The host integrates Velocity and reports ground contact through Mode.
type Movement struct {
	Mode            MovementMode
	DefaultLandMode MovementMode

	Velocity        mgl64.Vec3
	MaxWalkSpeed    float64
	MaxFlySpeed     float64
	MaxAcceleration float64
	GravityScale    float64
	AirControl      float64

	// Forward is the facing direction of the capsule.
	Forward mgl64.Vec3
	// Input is the desired movement direction written by the bound
	// movement strategy this tick.
	Input mgl64.Vec3

	JumpRequested bool
	JumpHoldTime  float64
}

var MovementComponent = NewComponent[Movement]()

func (m *Movement) OnGround() bool {
	return m != nil && m.Mode == MovementWalking
}

func (m *Movement) Falling() bool {
	return m != nil && m.Mode == MovementFalling
}

// AddImpulse applies an instantaneous velocity change.
func (m *Movement) AddImpulse(v mgl64.Vec3) {
	if m == nil {
		return
	}
	m.Velocity = m.Velocity.Add(v)
}

// Capsule is the collision shape of the character.
type Capsule struct {
	Radius     float64
	HalfHeight float64
}

var CapsuleComponent = NewComponent[Capsule]()

// Hit is the result of a world probe.
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Ground caches what the slope sensor measured this tick.
type Ground struct {
	SlopeAngle  float64
	SlopeNormal mgl64.Vec3
	Ascending   bool
	Probes      [8]GroundProbe
}

type GroundProbe struct {
	Origin mgl64.Vec3
	Hit    Hit
	OK     bool
}

var GroundComponent = NewComponent[Ground]()
