package movement

import (
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Accelerate returns the velocity change that moves v toward wishSpeed along
// wishDir. It never removes speed: a velocity already at or above wishSpeed
// in that direction gets nothing.
func Accelerate(wishDir mgl32.Vec3, wishSpeed, accel float32, v mgl32.Vec3, dt float32) mgl32.Vec3 {
	proj := v.Dot(wishDir)
	add := wishSpeed - proj
	if add <= 0 {
		return mgl32.Vec3{}
	}
	accelSpeed := min(accel*wishSpeed*dt, add)
	return wishDir.Mul(accelSpeed)
}

// wish rotates the local movement axes by yaw. Forward is -Z in world space.
func (c *Controller) wish(intent input.Intent, yaw float32) (dir mgl32.Vec3, speed float32) {
	local := mgl32.Vec3{
		intent.Movement.X() * c.cfg.SideSpeed,
		0,
		-intent.Movement.Z() * c.cfg.ForwardSpeed,
	}
	world := mgl32.Rotate3DY(yaw).Mul3x1(local)
	speed = world.Len()
	if speed > physics.Epsilon {
		dir = world.Mul(1 / speed)
	} else {
		speed = 0
	}

	limit := c.cfg.WalkSpeed
	if intent.Crouch {
		limit = c.cfg.CrouchedSpeed
	}
	return dir, min(speed, limit)
}

func lateral(v mgl32.Vec3) float32 {
	return mgl32.Vec2{v.X(), v.Z()}.Len()
}
