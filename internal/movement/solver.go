package movement

import (
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Solve advances s by one tick of length dt. The order is fixed: ground
// probe, ground or air acceleration, crouch, step climbing, then ledge
// holding. It updates velocity, height and collider, and the vertical
// position when stepping up; integrating the velocity into position is left
// to the caller's collision world.
//
// s.Yaw and s.Pitch must already hold this tick's view, see UpdateOrientation.
func (c *Controller) Solve(s *State, intent input.Intent, q physics.Query, dt float32) Phase {
	if !finite(dt) || dt < 0 {
		return s.Phase
	}

	wishDir, wishSpeed := c.wish(intent, s.Yaw)

	if ground, ok := c.probeGround(s, q); ok {
		s.Phase = c.groundMove(s, ground, intent, wishDir, wishSpeed, dt)
	} else {
		s.Phase = c.airMove(s, wishDir, wishSpeed, dt)
	}

	c.updateHeight(s, intent.Crouch, dt)
	c.stepUp(s, q, dt)

	if s.GroundTick >= 1 && intent.Crouch && !intent.Jump {
		c.holdLedge(s, q, dt)
	}

	if !finiteVec(s.Velocity) {
		s.Velocity = mgl32.Vec3{}
	}
	return s.Phase
}

func (c *Controller) groundMove(s *State, ground groundHit, intent input.Intent, wishDir mgl32.Vec3, wishSpeed, dt float32) Phase {
	v := s.Velocity
	if s.GroundTick >= 1 && ground.traction {
		v = c.applyFriction(v, dt)
		if s.GroundTick == 1 {
			// Landing tick: drop the residual fall speed so slopes do not bounce.
			v[1] = -ground.toi
		}
	}

	add := Accelerate(wishDir, wishSpeed, c.cfg.Acceleration, v, dt)
	if !ground.traction {
		add[1] -= c.cfg.Gravity * dt
	}
	v = v.Add(add)

	phase := PhaseSliding
	if ground.traction {
		phase = PhaseGrounded
		v = v.Sub(ground.normal.Mul(v.Dot(ground.normal)))
		if intent.Jump {
			v[1] = c.cfg.JumpSpeed
		}
	}

	if s.GroundTick < 255 {
		s.GroundTick++
	}
	s.Velocity = v
	return phase
}

func (c *Controller) airMove(s *State, wishDir mgl32.Vec3, wishSpeed, dt float32) Phase {
	s.GroundTick = 0
	wishSpeed = min(wishSpeed, c.cfg.AirSpeedCap)

	add := Accelerate(wishDir, wishSpeed, c.cfg.AirAcceleration, s.Velocity, dt)
	add[1] = -c.cfg.Gravity * dt
	v := s.Velocity.Add(add)

	speed := lateral(v)
	if speed > c.cfg.MaxAirSpeed && speed > physics.Epsilon {
		ratio := c.cfg.MaxAirSpeed / speed
		v[0] *= ratio
		v[2] *= ratio
	}
	s.Velocity = v
	return PhaseAirborne
}

func finiteVec(v mgl32.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
