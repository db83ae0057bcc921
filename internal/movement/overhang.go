package movement

import (
	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	overhangPasses      = 2
	overhangProbeRadius = 0.01
	overhangProbeHalf   = 0.25
	overhangCastLength  = 0.5
	overhangRayLift     = 0.125
	overhangRayLength   = 0.375
)

// holdLedge keeps a crouching body from walking off an edge. Two passes
// remove the overhanging part of the velocity; if the body would still
// overhang afterwards it stops.
func (c *Controller) holdLedge(s *State, q physics.Query, dt float32) {
	for i := 0; i < overhangPasses; i++ {
		if over, ok := c.overhang(s, q, dt); ok {
			s.Velocity = s.Velocity.Sub(over)
		}
	}
	if _, ok := c.overhang(s, q, dt); ok {
		s.Velocity = mgl32.Vec3{}
	}
}

// overhang sweeps a thin vertical probe hanging below the predicted base back
// toward the body. Hitting the ledge face with no floor under the predicted
// base means the velocity carries the body over the edge; the returned
// component is the part of the velocity pointing out of that face.
func (c *Controller) overhang(s *State, q physics.Query, dt float32) (mgl32.Vec3, bool) {
	if s.Velocity.Len() < physics.Epsilon {
		return mgl32.Vec3{}, false
	}

	future := s.Position.Add(s.Velocity.Mul(dt))
	base := future.Sub(up.Mul(s.Collider.HalfExtent()))
	probe := physics.NewCapsule(overhangProbeHalf, overhangProbeRadius)
	center := base.Sub(up.Mul(overhangProbeHalf))

	hit, ok := q.ShapeCast(center, s.Velocity.Mul(-1), probe, overhangCastLength, c.filter())
	if !ok || hit.Details == nil {
		return mgl32.Vec3{}, false
	}

	if _, floor := q.RayCast(base.Add(up.Mul(overhangRayLift)), down, overhangRayLength, false, c.filter()); floor {
		return mgl32.Vec3{}, false
	}

	normal := hit.Details.Normal
	alignment := s.Velocity.Dot(normal)
	return normal.Mul(alignment), true
}
