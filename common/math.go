package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up   = mgl64.Vec3{0, 0, 1}
	Down = mgl64.Vec3{0, 0, -1}
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi]. When lo > hi, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// SafeNormal returns v normalized, or the zero vector when v is too short to
// have a direction.
func SafeNormal(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-8 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// AngleDeg returns the angle in degrees between two unit vectors.
func AngleDeg(a, b mgl64.Vec3) float64 {
	return mgl64.RadToDeg(math.Acos(Clamp(a.Dot(b), -1, 1)))
}

// RotateAngleAxis rotates v by deg degrees around axis.
func RotateAngleAxis(v mgl64.Vec3, deg float64, axis mgl64.Vec3) mgl64.Vec3 {
	axis = SafeNormal(axis)
	if axis == (mgl64.Vec3{}) {
		return v
	}
	return mgl64.QuatRotate(mgl64.DegToRad(deg), axis).Rotate(v)
}

// Horizontal drops the vertical component.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], 0}
}
