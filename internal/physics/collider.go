package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ColliderKind is the closed set of collider shapes a controller may own.
type ColliderKind uint8

const (
	ColliderCapsule ColliderKind = iota + 1
	ColliderCylinder
)

func (k ColliderKind) String() string {
	switch k {
	case ColliderCapsule:
		return "capsule"
	case ColliderCylinder:
		return "cylinder"
	default:
		return fmt.Sprintf("collider(%d)", uint8(k))
	}
}

// ParseColliderKind maps a config name to a collider kind.
func ParseColliderKind(name string) (ColliderKind, bool) {
	switch name {
	case "capsule":
		return ColliderCapsule, true
	case "cylinder":
		return ColliderCylinder, true
	default:
		return 0, false
	}
}

// Capsule is a vertical segment of half length HalfSegment swept by Radius.
type Capsule struct {
	HalfSegment float32
	Radius      float32
}

// Cylinder is an upright cylinder.
type Cylinder struct {
	HalfHeight float32
	Radius     float32
}

// Collider is an upright, rotation locked shape centered on its owner's
// position. The zero value is not a valid collider.
type Collider struct {
	kind   ColliderKind
	radius float32
	// half is the half segment of a capsule or the half height of a cylinder.
	half float32
}

func NewCapsule(halfSegment, radius float32) Collider {
	return Collider{kind: ColliderCapsule, radius: radius, half: halfSegment}
}

func NewCylinder(halfHeight, radius float32) Collider {
	return Collider{kind: ColliderCylinder, radius: radius, half: halfHeight}
}

// NewCollider builds a collider of the given kind whose total height is height.
func NewCollider(kind ColliderKind, height, radius float32) (Collider, error) {
	switch kind {
	case ColliderCapsule, ColliderCylinder:
	default:
		return Collider{}, fmt.Errorf("unsupported collider kind %s", kind)
	}
	c := Collider{kind: kind, radius: radius}
	c.SetHeight(height)
	return c, nil
}

func (c Collider) Kind() ColliderKind { return c.kind }

func (c Collider) Radius() float32 { return c.radius }

func (c Collider) Valid() bool {
	return (c.kind == ColliderCapsule || c.kind == ColliderCylinder) && c.radius > 0 && c.half >= 0
}

func (c Collider) AsCapsule() (Capsule, bool) {
	if c.kind != ColliderCapsule {
		return Capsule{}, false
	}
	return Capsule{HalfSegment: c.half, Radius: c.radius}, true
}

func (c Collider) AsCylinder() (Cylinder, bool) {
	if c.kind != ColliderCylinder {
		return Cylinder{}, false
	}
	return Cylinder{HalfHeight: c.half, Radius: c.radius}, true
}

// HalfExtent is the vertical distance from the center to the top or bottom.
func (c Collider) HalfExtent() float32 {
	if c.kind == ColliderCapsule {
		return c.half + c.radius
	}
	return c.half
}

func (c Collider) Height() float32 {
	return 2 * c.HalfExtent()
}

// SetHeight resizes the collider so its total height matches height.
// Resizing a collider that was never constructed is a programming error.
func (c *Collider) SetHeight(height float32) {
	switch c.kind {
	case ColliderCapsule:
		c.half = mgl32.Clamp(height/2-c.radius, 0, height/2)
	case ColliderCylinder:
		c.half = height / 2
	default:
		panic(fmt.Sprintf("physics: SetHeight on unsupported %s", c.kind))
	}
}

// ScaledLaterally returns a copy with the radius scaled by factor and the
// vertical extent unchanged.
func (c Collider) ScaledLaterally(factor float32) Collider {
	out := c
	out.radius = c.radius * factor
	if c.kind == ColliderCapsule {
		out.half = c.half + (c.radius - out.radius)
	}
	return out
}

// scaled is a uniform scale, used to move shapes into grid units.
func (c Collider) scaled(factor float32) Collider {
	out := c
	out.radius *= factor
	out.half *= factor
	return out
}

// Bounds returns the axis aligned box enclosing the collider at center.
func (c Collider) Bounds(center mgl32.Vec3) AABB {
	h := c.HalfExtent()
	return AABB{
		Min: mgl32.Vec3{center.X() - c.radius, center.Y() - h, center.Z() - c.radius},
		Max: mgl32.Vec3{center.X() + c.radius, center.Y() + h, center.Z() + c.radius},
	}
}

func (c Collider) String() string {
	return fmt.Sprintf("%s(r=%.3f h=%.3f)", c.kind, c.radius, c.Height())
}
