package movement

import "github.com/go-gl/mathgl/mgl32"

// updateHeight moves the height toward crouched or upright at the configured
// rate and resizes the collider to match.
func (c *Controller) updateHeight(s *State, crouch bool, dt float32) {
	rate := c.cfg.UncrouchSpeed
	if crouch {
		rate = -c.cfg.CrouchSpeed
	}
	s.Height = mgl32.Clamp(s.Height+rate*dt, c.cfg.CrouchHeight, c.cfg.UprightHeight)
	s.Collider.SetHeight(s.Height)
}
