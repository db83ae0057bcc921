package movement

import "github.com/go-gl/mathgl/mgl32"

// applyFriction slows the lateral velocity. Below the cutoff it stops
// outright instead of creeping toward zero.
func (c *Controller) applyFriction(v mgl32.Vec3, dt float32) mgl32.Vec3 {
	speed := lateral(v)
	if speed <= c.cfg.FrictionSpeedCutoff {
		return mgl32.Vec3{0, v.Y(), 0}
	}
	control := max(speed, c.cfg.StopSpeed)
	drop := control * c.cfg.Friction * dt
	scale := max((speed-drop)/speed, 0)
	return mgl32.Vec3{v.X() * scale, v.Y(), v.Z() * scale}
}
