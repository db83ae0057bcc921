package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AngleEpsilon keeps pitch strictly inside (-π/2, π/2) so the view never flips.
const AngleEpsilon float32 = 0.001953125

// Intent is one tick of player intent, consumed once by the movement solver.
// Movement is in local space before yaw rotation: x strafes right, z walks
// forward.
type Intent struct {
	Movement mgl32.Vec3
	Crouch   bool
	Jump     bool
	Pitch    float32
	Yaw      float32
}

// Keys is the held-key state the sampler reads each tick.
type Keys struct {
	Forward bool `yaml:"forward,omitempty"`
	Back    bool `yaml:"back,omitempty"`
	Left    bool `yaml:"left,omitempty"`
	Right   bool `yaml:"right,omitempty"`
	Jump    bool `yaml:"jump,omitempty"`
	Crouch  bool `yaml:"crouch,omitempty"`
}

func (k Keys) axes() mgl32.Vec3 {
	return mgl32.Vec3{axis(k.Right, k.Left), 0, axis(k.Forward, k.Back)}
}

func axis(positive, negative bool) float32 {
	var v float32
	if positive {
		v++
	}
	if negative {
		v--
	}
	return v
}

// ClampPitch limits pitch to (-π/2+ε, π/2-ε).
func ClampPitch(pitch float32) float32 {
	limit := float32(math.Pi/2) - AngleEpsilon
	return mgl32.Clamp(pitch, -limit, limit)
}

// WrapYaw folds yaw into [0, 2π) once it leaves [-π, π]. Values already in
// range are returned untouched, so a wrapped yaw is not re-centered.
func WrapYaw(yaw float32) float32 {
	if mgl32.Abs(yaw) <= math.Pi {
		return yaw
	}
	return remEuclid(yaw, 2*math.Pi)
}

func remEuclid(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}
