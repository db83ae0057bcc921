package movement

import (
	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// stepUp lifts a grounded cylinder onto a ledge no taller than StepOffset.
// The full collider is cast down from the predicted position raised by the
// step offset; a walkable hit raises the body by what is left of the offset.
func (c *Controller) stepUp(s *State, q physics.Query, dt float32) {
	if s.Collider.Kind() != physics.ColliderCylinder {
		return
	}
	if c.cfg.StepOffset <= physics.Epsilon || s.GroundTick < 1 {
		return
	}

	origin := s.Position.Add(s.Velocity.Mul(dt)).Add(up.Mul(c.cfg.StepOffset))
	hit, ok := q.ShapeCast(origin, down, s.Collider, c.cfg.StepOffset*probeShrink, c.filter())
	if !ok || hit.Details == nil || !c.traction(hit.Details.Normal) {
		return
	}
	s.Position = s.Position.Add(mgl32.Vec3{0, c.cfg.StepOffset - hit.TimeOfImpact, 0})
}
