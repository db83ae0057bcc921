package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VoxelQuery answers shape and ray casts against the cells of a BlockStore,
// each CellSize world units wide. The block world has no dynamic bodies, so
// Filter.Exclude never matches anything.
type VoxelQuery struct {
	Store    BlockStore
	CellSize float32
}

func NewVoxelQuery(store BlockStore, cellSize float32) *VoxelQuery {
	return &VoxelQuery{Store: store, CellSize: cellSize}
}

var _ Query = (*VoxelQuery)(nil)

func (q *VoxelQuery) cellSize() float32 {
	if q.CellSize <= 0 {
		return 1
	}
	return q.CellSize
}

// Move integrates a displacement for a collider through the grid, see ResolveMovement.
func (q *VoxelQuery) Move(center, delta mgl32.Vec3, shape Collider) (mgl32.Vec3, Blocked) {
	if q == nil || q.Store == nil {
		return center.Add(delta), Blocked{}
	}
	s := q.cellSize()
	pos, blocked := ResolveMovement(center.Mul(1/s), delta.Mul(1/s), shape.scaled(1/s), q.Store)
	return pos.Mul(s), blocked
}

func (q *VoxelQuery) ShapeCast(origin, dir mgl32.Vec3, shape Collider, maxDist float32, _ Filter) (Hit, bool) {
	if q == nil || q.Store == nil || !shape.Valid() || maxDist < 0 {
		return Hit{}, false
	}
	length := dir.Len()
	if length < Epsilon {
		return Hit{}, false
	}
	dir = dir.Mul(1 / length)

	s := q.cellSize()
	hit, ok := q.sweep(origin.Mul(1/s), dir, shape.scaled(1/s), maxDist/s)
	if !ok {
		return Hit{}, false
	}
	hit.TimeOfImpact *= s
	return hit, true
}

// sweep runs in grid units.
func (q *VoxelQuery) sweep(origin, dir mgl32.Vec3, shape Collider, maxDist float32) (Hit, bool) {
	if q.overlaps(origin, shape) {
		return Hit{TimeOfImpact: 0, Details: q.contactDetails(origin, dir, shape)}, true
	}

	lo := float32(0)
	for lo < maxDist {
		hi := lo + sweepStep
		if hi > maxDist {
			hi = maxDist
		}
		if q.overlaps(origin.Add(dir.Mul(hi)), shape) {
			for i := 0; i < sweepRefineIter; i++ {
				mid := (lo + hi) / 2
				if q.overlaps(origin.Add(dir.Mul(mid)), shape) {
					hi = mid
				} else {
					lo = mid
				}
			}
			contact := origin.Add(dir.Mul(lo))
			// lo may sit up to CollisionTolerance inside the surface; report
			// the touching distance.
			toi := max(lo-CollisionTolerance, 0)
			return Hit{TimeOfImpact: toi, Details: q.contactDetails(contact, dir, shape)}, true
		}
		lo = hi
	}
	return Hit{}, false
}

func (q *VoxelQuery) overlaps(center mgl32.Vec3, shape Collider) bool {
	hit := false
	forEachSolid(shape.Bounds(center), q.Store, func(x, y, z int) bool {
		if separation(center, shape, BlockAABB(x, y, z)) < -CollisionTolerance {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// contactDetails resolves the outward normal of the block nearest to the
// shape at center. It returns nil when no usable normal exists.
func (q *VoxelQuery) contactDetails(center mgl32.Vec3, dir mgl32.Vec3, shape Collider) *HitDetails {
	var (
		best     *HitDetails
		bestSep  float32
		bestFace float32
	)
	forEachSolid(shape.Bounds(center).Expand(sweepStep), q.Store, func(x, y, z int) bool {
		block := BlockAABB(x, y, z)
		sep := separation(center, shape, block)
		if sep < -maxPenetrationLift {
			return true
		}
		normal, ok := contactNormal(center, shape, block)
		if !ok {
			return true
		}
		face := normal.Dot(dir)
		if best == nil || sep < bestSep-CollisionTolerance || (nearlyEqual(sep, bestSep) && face < bestFace) {
			best = &HitDetails{Normal: normal}
			bestSep = sep
			bestFace = face
		}
		return true
	})
	return best
}

// separation is the signed gap between shape and box: positive when apart,
// negative when overlapping.
func separation(center mgl32.Vec3, shape Collider, box AABB) float32 {
	dxz := rectDistance(center, box)
	switch shape.Kind() {
	case ColliderCapsule:
		capsule, _ := shape.AsCapsule()
		segBottom := center.Y() - capsule.HalfSegment
		segTop := center.Y() + capsule.HalfSegment
		dy := max(box.Min.Y()-segTop, segBottom-box.Max.Y(), 0)
		d := float32(math.Sqrt(float64(dxz*dxz + dy*dy)))
		return d - capsule.Radius
	default:
		h := shape.HalfExtent()
		gapY := max(box.Min.Y()-(center.Y()+h), (center.Y()-h)-box.Max.Y())
		gapXZ := dxz - shape.Radius()
		return max(gapY, gapXZ)
	}
}

func contactNormal(center mgl32.Vec3, shape Collider, box AABB) (mgl32.Vec3, bool) {
	qx := mgl32.Clamp(center.X(), box.Min.X(), box.Max.X())
	qz := mgl32.Clamp(center.Z(), box.Min.Z(), box.Max.Z())

	if shape.Kind() == ColliderCapsule {
		capsule, _ := shape.AsCapsule()
		segBottom := center.Y() - capsule.HalfSegment
		segTop := center.Y() + capsule.HalfSegment
		var py, qy float32
		switch {
		case segTop < box.Min.Y():
			py, qy = segTop, box.Min.Y()
		case segBottom > box.Max.Y():
			py, qy = segBottom, box.Max.Y()
		default:
			py = (max(segBottom, box.Min.Y()) + min(segTop, box.Max.Y())) / 2
			qy = py
		}
		n := mgl32.Vec3{center.X() - qx, py - qy, center.Z() - qz}
		if n.Len() < minimumNormalLength {
			return mgl32.Vec3{}, false
		}
		return n.Normalize(), true
	}

	h := shape.HalfExtent()
	below := (center.Y() - h) - box.Max.Y()
	above := box.Min.Y() - (center.Y() + h)
	gapY := max(below, above)
	gapXZ := rectDistance(center, box) - shape.Radius()
	if gapY >= gapXZ {
		if below >= above {
			return mgl32.Vec3{0, 1, 0}, true
		}
		return mgl32.Vec3{0, -1, 0}, true
	}
	n := mgl32.Vec3{center.X() - qx, 0, center.Z() - qz}
	if n.Len() < minimumNormalLength {
		return mgl32.Vec3{}, false
	}
	return n.Normalize(), true
}

// rectDistance is the distance in the XZ plane from center to the footprint of box.
func rectDistance(center mgl32.Vec3, box AABB) float32 {
	dx := max(box.Min.X()-center.X(), 0, center.X()-box.Max.X())
	dz := max(box.Min.Z()-center.Z(), 0, center.Z()-box.Max.Z())
	return float32(math.Sqrt(float64(dx*dx + dz*dz)))
}

// RayCast walks the grid cells along the ray (Amanatides-Woo DDA). When solid
// is false the starting cell is ignored so rays can leave geometry.
func (q *VoxelQuery) RayCast(origin, dir mgl32.Vec3, maxDist float32, solid bool, _ Filter) (Hit, bool) {
	if q == nil || q.Store == nil || maxDist < 0 {
		return Hit{}, false
	}
	length := dir.Len()
	if length < Epsilon {
		return Hit{}, false
	}
	dir = dir.Mul(1 / length)

	s := q.cellSize()
	hit, ok := q.walk(origin.Mul(1/s), dir, maxDist/s, solid)
	if !ok {
		return Hit{}, false
	}
	hit.TimeOfImpact *= s
	return hit, true
}

// walk runs in grid units.
func (q *VoxelQuery) walk(origin, dir mgl32.Vec3, maxDist float32, solid bool) (Hit, bool) {
	x := int(math.Floor(float64(origin.X())))
	y := int(math.Floor(float64(origin.Y())))
	z := int(math.Floor(float64(origin.Z())))

	if q.Store.IsSolid(x, y, z) && solid {
		return Hit{TimeOfImpact: 0}, true
	}

	stepX, tMaxX, tDeltaX := ddaAxis(origin.X(), dir.X(), x)
	stepY, tMaxY, tDeltaY := ddaAxis(origin.Y(), dir.Y(), y)
	stepZ, tMaxZ, tDeltaZ := ddaAxis(origin.Z(), dir.Z(), z)

	for i := 0; i < rayCastMaxIterations; i++ {
		var distance float32
		var normal mgl32.Vec3
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			x += stepX
			distance = tMaxX
			tMaxX += tDeltaX
			normal = mgl32.Vec3{float32(-stepX), 0, 0}
		case tMaxY <= tMaxX && tMaxY <= tMaxZ:
			y += stepY
			distance = tMaxY
			tMaxY += tDeltaY
			normal = mgl32.Vec3{0, float32(-stepY), 0}
		default:
			z += stepZ
			distance = tMaxZ
			tMaxZ += tDeltaZ
			normal = mgl32.Vec3{0, 0, float32(-stepZ)}
		}
		if distance > maxDist {
			return Hit{}, false
		}
		if q.Store.IsSolid(x, y, z) {
			return Hit{TimeOfImpact: distance, Details: &HitDetails{Normal: normal}}, true
		}
	}
	return Hit{}, false
}

func ddaAxis(origin, dir float32, cell int) (step int, tMax float32, tDelta float32) {
	if mgl32.Abs(dir) < Epsilon {
		inf := float32(math.Inf(1))
		return 0, inf, inf
	}
	if dir > 0 {
		step = 1
		tMax = (float32(cell+1) - origin) / dir
		tDelta = 1.0 / dir
		return
	}
	step = -1
	inv := -dir
	tMax = (origin - float32(cell)) / inv
	tDelta = 1.0 / inv
	return
}
