package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type mockBlockStore struct {
	solid map[[3]int]bool
}

func newMockBlockStore() *mockBlockStore {
	return &mockBlockStore{solid: make(map[[3]int]bool)}
}

func (m *mockBlockStore) IsSolid(x, y, z int) bool {
	return m.solid[[3]int{x, y, z}]
}

func (m *mockBlockStore) setSolid(x, y, z int) {
	m.solid[[3]int{x, y, z}] = true
}

func addFloor(store *mockBlockStore, minX, maxX, minZ, maxZ, y int) {
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			store.setSolid(x, y, z)
		}
	}
}

func approxEqual(t *testing.T, got, want, tol float32, field string) {
	t.Helper()
	if math.Abs(float64(got-want)) > float64(tol) {
		t.Fatalf("%s = %.6f, want %.6f (tol=%.6f)", field, got, want, tol)
	}
}

func approxVec(t *testing.T, got, want mgl32.Vec3, tol float32, field string) {
	t.Helper()
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > float64(tol) {
			t.Fatalf("%s = %v, want %v (tol=%.6f)", field, got, want, tol)
		}
	}
}

func TestResolveMovement_FallStopsOnFloor(t *testing.T) {
	store := newMockBlockStore()
	addFloor(store, -2, 2, -2, 2, -1)
	shape := NewCylinder(1, 0.3)

	pos, blocked := ResolveMovement(mgl32.Vec3{0.5, 3, 0.5}, mgl32.Vec3{0, -5, 0}, shape, store)

	approxEqual(t, pos.Y(), 1, 1e-5, "position.y")
	if !blocked.Y || blocked.X || blocked.Z {
		t.Fatalf("blocked = %+v, want only Y", blocked)
	}
}

func TestResolveMovement_WallStopsHorizontalMovement(t *testing.T) {
	store := newMockBlockStore()
	addFloor(store, -2, 2, -2, 2, -1)
	store.setSolid(1, 0, 0)
	store.setSolid(1, 1, 0)

	pos, blocked := ResolveMovement(mgl32.Vec3{0.5, 1, 0.5}, mgl32.Vec3{0.5, 0, 0.2}, NewCylinder(1, 0.3), store)

	approxEqual(t, pos.X(), 0.7, 1e-5, "position.x")
	approxEqual(t, pos.Y(), 1, 1e-5, "position.y")
	approxEqual(t, pos.Z(), 0.7, 1e-5, "position.z")
	if !blocked.X || blocked.Y || blocked.Z {
		t.Fatalf("blocked = %+v, want only X", blocked)
	}
	if !blocked.Any() {
		t.Fatalf("blocked.Any() = false, want true")
	}
}

func TestResolveMovement_OneCellLedgeBlocksWithoutLift(t *testing.T) {
	store := newMockBlockStore()
	addFloor(store, -2, 4, -2, 2, -1)
	store.setSolid(1, 0, 0)

	pos := mgl32.Vec3{0.5, 1, 0.5}
	for i := 0; i < 10; i++ {
		pos, _ = ResolveMovement(pos, mgl32.Vec3{0.1, 0, 0}, NewCylinder(1, 0.3), store)
	}

	approxEqual(t, pos.Y(), 1, 1e-5, "position.y")
	if pos.X() > 0.7+1e-5 {
		t.Fatalf("position.x = %.6f, should be blocked by the ledge", pos.X())
	}
}

func TestResolveMovement_LiftsShallowPenetration(t *testing.T) {
	store := newMockBlockStore()
	addFloor(store, -2, 2, -2, 2, -1)

	pos, _ := ResolveMovement(mgl32.Vec3{0.5, 0.8, 0.5}, mgl32.Vec3{}, NewCylinder(1, 0.3), store)
	approxEqual(t, pos.Y(), 1, 1e-5, "lifted position.y")

	deep, _ := ResolveMovement(mgl32.Vec3{0.5, 0.3, 0.5}, mgl32.Vec3{}, NewCylinder(1, 0.3), store)
	approxEqual(t, deep.Y(), 0.3, 1e-5, "deep position.y")
}

func TestResolveMovement_NilStorePassesThrough(t *testing.T) {
	pos, blocked := ResolveMovement(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1}, NewCapsule(0.5, 0.3), nil)
	if pos != (mgl32.Vec3{2, 3, 4}) || blocked.Any() {
		t.Fatalf("ResolveMovement(nil) = (%v, %+v)", pos, blocked)
	}
}

func TestAABBIntersectsIgnoresTouching(t *testing.T) {
	a := BlockAABB(0, 0, 0)
	if a.Intersects(BlockAABB(1, 0, 0)) {
		t.Fatalf("touching blocks should not intersect")
	}
	if !a.Intersects(a.Offset(mgl32.Vec3{0.5, 0, 0})) {
		t.Fatalf("overlapping boxes should intersect")
	}
	grown := a.Expand(0.5)
	if grown.Min != (mgl32.Vec3{-0.5, -0.5, -0.5}) || grown.Max != (mgl32.Vec3{1.5, 1.5, 1.5}) {
		t.Fatalf("Expand = %+v", grown)
	}
}

func TestCollidesWithBlock(t *testing.T) {
	store := newMockBlockStore()
	store.setSolid(0, 0, 0)

	if !CollidesWithBlock(AABB{Min: mgl32.Vec3{0.2, 0.2, 0.2}, Max: mgl32.Vec3{0.8, 0.8, 0.8}}, store) {
		t.Fatalf("box inside a solid cell should collide")
	}
	if CollidesWithBlock(AABB{Min: mgl32.Vec3{1, 0, 0}, Max: mgl32.Vec3{2, 1, 1}}, store) {
		t.Fatalf("box touching a solid cell should not collide")
	}
	if CollidesWithBlock(BlockAABB(0, 0, 0), nil) {
		t.Fatalf("nil store should never collide")
	}
}
