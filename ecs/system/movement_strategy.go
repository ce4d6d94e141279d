package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/common"
	"github.com/milk9111/droplet/ecs/component"
)

// MovementStrategy is the locomotion behaviour of one material state.
type MovementStrategy interface {
	// Mode is the movement mode the state moves in.
	Mode() component.MovementMode
	// Direction maps raw input to a world direction given the facing of the
	// camera.
	Direction(input component.MoveInput, facing mgl64.Vec3) mgl64.Vec3
	// ApplySpecificities sets the movement fields that differ per state.
	ApplySpecificities(m *component.Movement, profile *component.SpeedProfile)
}

// Strategy singletons (stateless, shared by every droplet).
var (
	movementLiquid  MovementStrategy = liquidMovement{}
	movementSolid   MovementStrategy = solidMovement{}
	movementGazeous MovementStrategy = gazeousMovement{}
)

var movementStrategies = map[component.MaterialState]MovementStrategy{
	component.MaterialLiquid:  movementLiquid,
	component.MaterialSolid:   movementSolid,
	component.MaterialGazeous: movementGazeous,
}

func strategyFor(s component.MaterialState) (MovementStrategy, bool) {
	st, ok := movementStrategies[s]
	return st, ok
}

type liquidMovement struct{}

type solidMovement struct{}

type gazeousMovement struct{}

// groundAxes returns the horizontal forward and right axes of facing.
func groundAxes(facing mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	forward := common.SafeNormal(common.Horizontal(facing))
	if forward == (mgl64.Vec3{}) {
		forward = mgl64.Vec3{0, 1, 0}
	}
	return forward, forward.Cross(common.Up)
}

func groundDirection(input component.MoveInput, facing mgl64.Vec3) mgl64.Vec3 {
	forward, right := groundAxes(facing)
	return forward.Mul(input.Y).Add(right.Mul(input.X))
}

func (liquidMovement) Mode() component.MovementMode { return component.MovementWalking }
func (liquidMovement) Direction(input component.MoveInput, facing mgl64.Vec3) mgl64.Vec3 {
	return groundDirection(input, facing)
}
func (liquidMovement) ApplySpecificities(m *component.Movement, profile *component.SpeedProfile) {
	if m == nil {
		return
	}
	m.GravityScale = 1
	m.AirControl = 0.35
	m.DefaultLandMode = component.MovementWalking
}

func (solidMovement) Mode() component.MovementMode { return component.MovementWalking }
func (solidMovement) Direction(input component.MoveInput, facing mgl64.Vec3) mgl64.Vec3 {
	return groundDirection(input, facing)
}
func (solidMovement) ApplySpecificities(m *component.Movement, profile *component.SpeedProfile) {
	if m == nil {
		return
	}
	m.GravityScale = 1.5
	m.AirControl = 0.1
	m.DefaultLandMode = component.MovementWalking
}

func (gazeousMovement) Mode() component.MovementMode { return component.MovementFlying }

// Direction for a gas drifts sideways on X and rises or sinks on Y.
func (gazeousMovement) Direction(input component.MoveInput, facing mgl64.Vec3) mgl64.Vec3 {
	_, right := groundAxes(facing)
	return right.Mul(input.X).Add(common.Up.Mul(input.Y))
}
func (gazeousMovement) ApplySpecificities(m *component.Movement, profile *component.SpeedProfile) {
	if m == nil {
		return
	}
	m.GravityScale = 0
	m.AirControl = 1
	m.DefaultLandMode = component.MovementFlying
	if profile != nil {
		m.MaxFlySpeed = profile.Gazeous.FlyMax
	}
}
