package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type BlockStore interface {
	IsSolid(x, y, z int) bool
}

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func BlockAABB(x, y, z int) AABB {
	return AABB{
		Min: mgl32.Vec3{float32(x), float32(y), float32(z)},
		Max: mgl32.Vec3{float32(x + 1), float32(y + 1), float32(z + 1)},
	}
}

func (a AABB) Offset(d mgl32.Vec3) AABB {
	return AABB{Min: a.Min.Add(d), Max: a.Max.Add(d)}
}

func (a AABB) Expand(margin float32) AABB {
	m := mgl32.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// Intersects reports overlap deeper than CollisionTolerance on every axis.
func (a AABB) Intersects(b AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Min[i] >= b.Max[i]-CollisionTolerance || a.Max[i] <= b.Min[i]+CollisionTolerance {
			return false
		}
	}
	return true
}

// forEachSolid visits every solid cell overlapping box until visit returns false.
func forEachSolid(box AABB, store BlockStore, visit func(x, y, z int) bool) {
	minX, maxX := floorForMin(box.Min.X()), floorForMax(box.Max.X())
	minY, maxY := floorForMin(box.Min.Y()), floorForMax(box.Max.Y())
	minZ, maxZ := floorForMin(box.Min.Z()), floorForMax(box.Max.Z())

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				if !store.IsSolid(x, y, z) {
					continue
				}
				if !visit(x, y, z) {
					return
				}
			}
		}
	}
}

func CollidesWithBlock(aabb AABB, blockStore BlockStore) bool {
	if blockStore == nil {
		return false
	}
	hit := false
	forEachSolid(aabb, blockStore, func(x, y, z int) bool {
		if aabb.Intersects(BlockAABB(x, y, z)) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// Blocked records which axes of a displacement were cut short by geometry.
type Blocked struct {
	X bool
	Y bool
	Z bool
}

func (b Blocked) Any() bool { return b.X || b.Y || b.Z }

// ResolveMovement moves a collider centered at center by delta, one axis at
// a time (Y, then X, then Z), stopping each axis at the first solid block.
// A collider that starts slightly embedded in the floor is lifted out first.
func ResolveMovement(center, delta mgl32.Vec3, shape Collider, blockStore BlockStore) (mgl32.Vec3, Blocked) {
	if blockStore == nil {
		return center.Add(delta), Blocked{}
	}

	pos := resolvePenetration(center, shape, blockStore)
	var blocked Blocked
	for _, axis := range [3]int{1, 0, 2} {
		allowed := resolveAxis(shape.Bounds(pos), axis, delta[axis], blockStore)
		pos[axis] += allowed
		if nearlyEqual(allowed, delta[axis]) {
			continue
		}
		switch axis {
		case 0:
			blocked.X = true
		case 1:
			blocked.Y = true
		case 2:
			blocked.Z = true
		}
	}
	return pos, blocked
}

func resolveAxis(box AABB, axis int, delta float32, blockStore BlockStore) float32 {
	if nearlyZero(delta) {
		return delta
	}

	a1, a2 := (axis+1)%3, (axis+2)%3
	min1, max1 := floorForMin(box.Min[a1]), floorForMax(box.Max[a1])
	min2, max2 := floorForMin(box.Min[a2]), floorForMax(box.Max[a2])
	allowed := delta

	cell := func(along, c1, c2 int) (int, int, int) {
		var out [3]int
		out[axis], out[a1], out[a2] = along, c1, c2
		return out[0], out[1], out[2]
	}

	if delta > 0 {
		start := int(math.Ceil(float64(box.Max[axis] - CollisionTolerance)))
		end := int(math.Floor(float64(box.Max[axis] + delta)))
		for i := start; i <= end; i++ {
			for c1 := min1; c1 <= max1; c1++ {
				for c2 := min2; c2 <= max2; c2++ {
					if !blockStore.IsSolid(cell(i, c1, c2)) {
						continue
					}
					candidate := float32(i) - box.Max[axis]
					if candidate < allowed {
						allowed = candidate
					}
				}
			}
		}
	} else {
		start := int(math.Floor(float64(box.Min[axis]+CollisionTolerance))) - 1
		end := int(math.Floor(float64(box.Min[axis] + delta)))
		for i := start; i >= end; i-- {
			for c1 := min1; c1 <= max1; c1++ {
				for c2 := min2; c2 <= max2; c2++ {
					if !blockStore.IsSolid(cell(i, c1, c2)) {
						continue
					}
					candidate := float32(i+1) - box.Min[axis]
					if candidate > allowed {
						allowed = candidate
					}
				}
			}
		}
	}
	return allowed
}

// resolvePenetration lifts a collider whose base is embedded in the floor
// by at most maxPenetrationLift, e.g. after it grew while standing.
func resolvePenetration(center mgl32.Vec3, shape Collider, blockStore BlockStore) mgl32.Vec3 {
	box := shape.Bounds(center)
	var top float32
	found := false
	forEachSolid(box, blockStore, func(x, y, z int) bool {
		block := BlockAABB(x, y, z)
		if !box.Intersects(block) {
			return true
		}
		if !found || block.Max.Y() > top {
			top = block.Max.Y()
			found = true
		}
		return true
	})
	if !found {
		return center
	}

	lift := top - box.Min.Y()
	if lift <= 0 || lift > maxPenetrationLift {
		return center
	}
	lifted := center.Add(mgl32.Vec3{0, lift, 0})
	if CollidesWithBlock(shape.Bounds(lifted), blockStore) {
		return center
	}
	return lifted
}

func floorForMin(v float32) int {
	return int(math.Floor(float64(v + CollisionTolerance)))
}

func floorForMax(v float32) int {
	return int(math.Floor(float64(v - CollisionTolerance)))
}

func nearlyZero(v float32) bool {
	return mgl32.Abs(v) <= CollisionTolerance
}

func nearlyEqual(a, b float32) bool {
	return mgl32.Abs(a-b) <= CollisionTolerance
}
