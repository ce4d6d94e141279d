package component

import "github.com/go-gl/mathgl/mgl64"

// MoveInput is the raw two axis movement value of the current input context.
type MoveInput struct {
	X float64
	Y float64
}

func (m MoveInput) Zero() bool {
	return m.X == 0 && m.Y == 0
}

// Input stores per-tick input state for an entity.
type Input struct {
	Move     MoveInput
	Jump     bool
	Interact bool

	// ChangeState is -1 or 1 when the player cycles material states.
	ChangeState int
	// Facing is the camera direction movement input is relative to.
	Facing mgl64.Vec3
}

var InputComponent = NewComponent[Input]()
