package pose

import (
	"fmt"

	"github.com/Versifine/stride/internal/movement"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the fixed render offset applied on top of the collider top.
type Camera struct {
	HeightOffset float32 `yaml:"height_offset"`
}

func DefaultCamera() Camera {
	return Camera{HeightOffset: -0.5}
}

// Pose is the render transform of the first person camera.
type Pose struct {
	Eye      mgl32.Vec3
	Rotation mgl32.Quat
}

// Project places the eye at the top of the collider plus the camera offset
// and composes yaw then pitch.
func Project(s movement.State, cam Camera) Pose {
	return Pose{
		Eye:      s.Position.Add(mgl32.Vec3{0, s.Height/2 + cam.HeightOffset, 0}),
		Rotation: mgl32.AnglesToQuat(s.Yaw, s.Pitch, 0, mgl32.YXZ),
	}
}

// Forward is the view direction.
func (p Pose) Forward() mgl32.Vec3 {
	return p.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (p Pose) String() string {
	f := p.Forward()
	return fmt.Sprintf("eye:(%.2f, %.2f, %.2f) look:(%.2f, %.2f, %.2f)",
		p.Eye.X(), p.Eye.Y(), p.Eye.Z(), f.X(), f.Y(), f.Z())
}
