package physics

import "github.com/go-gl/mathgl/mgl32"

// BodyID identifies a body registered with a collision world. Zero means none.
type BodyID uint32

// Filter narrows a query. Exclude skips the given body, usually the caller's own.
type Filter struct {
	Exclude BodyID
}

// HitDetails carries the outward surface normal of the geometry that was hit.
type HitDetails struct {
	Normal mgl32.Vec3
}

// Hit is the first contact along a cast. Details is nil when the world
// could not resolve a surface normal, e.g. when the cast starts deeply
// embedded in geometry.
type Hit struct {
	TimeOfImpact float32
	Details      *HitDetails
}

// Query is the read-only view of the collision world consumed by the
// movement solver. Implementations must be free of side effects.
type Query interface {
	// ShapeCast sweeps shape from origin along dir (normalized internally)
	// up to maxDist and reports the first contact.
	ShapeCast(origin, dir mgl32.Vec3, shape Collider, maxDist float32, filter Filter) (Hit, bool)
	// RayCast reports the first solid cell along the ray. With solid set,
	// a ray starting inside geometry hits at distance zero.
	RayCast(origin, dir mgl32.Vec3, maxDist float32, solid bool, filter Filter) (Hit, bool)
}
