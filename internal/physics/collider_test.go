package physics

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewColliderHeights(t *testing.T) {
	tests := []struct {
		name     string
		kind     ColliderKind
		height   float32
		radius   float32
		wantHalf float32
	}{
		{"capsule upright", ColliderCapsule, 3, 0.5, 1},
		{"capsule crouched", ColliderCapsule, 1.5, 0.5, 0.25},
		{"capsule shorter than its sphere", ColliderCapsule, 0.6, 0.5, 0},
		{"cylinder upright", ColliderCylinder, 3, 0.5, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCollider(tt.kind, tt.height, tt.radius)
			if err != nil {
				t.Fatalf("NewCollider failed: %v", err)
			}
			if c.Kind() != tt.kind || !c.Valid() {
				t.Fatalf("collider = %s, want valid %s", c, tt.kind)
			}
			var half float32
			if capsule, ok := c.AsCapsule(); ok {
				half = capsule.HalfSegment
			} else if cyl, ok := c.AsCylinder(); ok {
				half = cyl.HalfHeight
			}
			approxEqual(t, half, tt.wantHalf, 1e-6, "half")
		})
	}
}

func TestNewColliderRejectsUnknownKind(t *testing.T) {
	if _, err := NewCollider(ColliderKind(0), 2, 0.5); err == nil {
		t.Fatalf("NewCollider with zero kind succeeded")
	}
	var zero Collider
	if zero.Valid() {
		t.Fatalf("zero collider should not be valid")
	}
}

func TestSetHeightPanicsOnZeroCollider(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("SetHeight on zero collider did not panic")
		}
	}()
	var c Collider
	c.SetHeight(2)
}

func TestScaledLaterallyKeepsHeight(t *testing.T) {
	for _, c := range []Collider{NewCapsule(1, 0.5), NewCylinder(1.5, 0.5)} {
		shrunk := c.ScaledLaterally(0.9375)
		approxEqual(t, shrunk.Radius(), 0.46875, 1e-6, c.Kind().String()+" radius")
		approxEqual(t, shrunk.Height(), 3, 1e-6, c.Kind().String()+" height")
		approxEqual(t, c.Radius(), 0.5, 1e-6, "unscaled radius")
	}
}

func TestColliderBounds(t *testing.T) {
	box := NewCapsule(1, 0.5).Bounds(mgl32.Vec3{0, 2, 0})
	if box.Min != (mgl32.Vec3{-0.5, 0.5, -0.5}) || box.Max != (mgl32.Vec3{0.5, 3.5, 0.5}) {
		t.Fatalf("Bounds = %+v", box)
	}
}

func TestParseColliderKind(t *testing.T) {
	for _, kind := range []ColliderKind{ColliderCapsule, ColliderCylinder} {
		got, ok := ParseColliderKind(kind.String())
		if !ok || got != kind {
			t.Fatalf("ParseColliderKind(%q) = (%v, %t)", kind.String(), got, ok)
		}
	}
	if _, ok := ParseColliderKind("cuboid"); ok {
		t.Fatalf("ParseColliderKind(cuboid) should fail")
	}
	if !strings.Contains(ColliderKind(7).String(), "7") {
		t.Fatalf("unknown kind string = %q", ColliderKind(7).String())
	}
}
