package movement

import (
	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// probeShrink narrows the ground probe so wall contact is not read as floor.
	probeShrink float32 = 0.9375
)

var (
	up   = mgl32.Vec3{0, 1, 0}
	down = mgl32.Vec3{0, -1, 0}
)

type groundHit struct {
	toi      float32
	normal   mgl32.Vec3
	traction bool
}

// probeGround sweeps a laterally shrunk collider down by GroundedDistance.
// A hit without surface details counts as no ground.
func (c *Controller) probeGround(s *State, q physics.Query) (groundHit, bool) {
	shape := s.Collider.ScaledLaterally(probeShrink)
	hit, ok := q.ShapeCast(s.Position, down, shape, c.cfg.GroundedDistance, c.filter())
	if !ok || hit.Details == nil {
		return groundHit{}, false
	}
	return groundHit{
		toi:      hit.TimeOfImpact,
		normal:   hit.Details.Normal,
		traction: c.traction(hit.Details.Normal),
	}, true
}

func (c *Controller) traction(normal mgl32.Vec3) bool {
	return normal.Dot(up) > c.cfg.TractionNormalCutoff
}
