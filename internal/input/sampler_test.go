package input

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleMovementAxes(t *testing.T) {
	tests := []struct {
		name string
		keys Keys
		want mgl32.Vec3
	}{
		{"idle", Keys{}, mgl32.Vec3{}},
		{"forward", Keys{Forward: true}, mgl32.Vec3{0, 0, 1}},
		{"back", Keys{Back: true}, mgl32.Vec3{0, 0, -1}},
		{"strafe right", Keys{Right: true}, mgl32.Vec3{1, 0, 0}},
		{"strafe left", Keys{Left: true}, mgl32.Vec3{-1, 0, 0}},
		{"opposed cancel", Keys{Forward: true, Back: true, Left: true, Right: true}, mgl32.Vec3{}},
		{"diagonal", Keys{Forward: true, Left: true}, mgl32.Vec3{-1, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(0.001, 0, 0)
			s.SetKeys(tt.keys)
			assert.Equal(t, tt.want, s.Sample().Movement)
		})
	}
}

func TestSampleFlags(t *testing.T) {
	s := NewSampler(0.001, 0, 0)
	s.SetKeys(Keys{Jump: true, Crouch: true})
	got := s.Sample()
	assert.True(t, got.Jump)
	assert.True(t, got.Crouch)
}

func TestSampleAccumulatesLookOnce(t *testing.T) {
	s := NewSampler(0.01, 0, 0)
	s.Look(10, 5)
	s.Look(10, 5)

	first := s.Sample()
	assert.InDelta(t, -0.2, first.Yaw, 1e-6)
	assert.InDelta(t, -0.1, first.Pitch, 1e-6)

	second := s.Sample()
	assert.Equal(t, first.Yaw, second.Yaw, "look delta must be consumed by the first sample")
	assert.Equal(t, first.Pitch, second.Pitch)
}

func TestSamplePitchClamped(t *testing.T) {
	s := NewSampler(1, 0, 0)
	s.Look(0, -100)
	got := s.Sample()
	assert.InDelta(t, math.Pi/2-float64(AngleEpsilon), got.Pitch, 1e-6)

	s.Look(0, 1000)
	got = s.Sample()
	assert.InDelta(t, -(math.Pi/2 - float64(AngleEpsilon)), got.Pitch, 1e-6)
}

func TestSampleDisabledDropsMovementKeepsLook(t *testing.T) {
	s := NewSampler(0.01, 0.2, 1)
	s.SetKeys(Keys{Forward: true, Jump: true, Crouch: true})
	s.Look(50, 50)
	s.SetEnabled(false)
	s.Look(50, 50)

	got := s.Sample()
	require.False(t, s.Enabled())
	assert.Equal(t, mgl32.Vec3{}, got.Movement)
	assert.False(t, got.Jump)
	assert.False(t, got.Crouch)
	assert.InDelta(t, 0.2, got.Pitch, 1e-6)
	assert.InDelta(t, 1, got.Yaw, 1e-6)

	s.SetEnabled(true)
	got = s.Sample()
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, got.Movement)
	assert.InDelta(t, 1, got.Yaw, 1e-6, "deltas received while disabled are discarded")
}

func TestReset(t *testing.T) {
	s := NewSampler(0.01, 0, 0)
	s.Look(100, 0)
	s.Reset(0.5, -0.5)
	got := s.Sample()
	assert.InDelta(t, 0.5, got.Pitch, 1e-6)
	assert.InDelta(t, -0.5, got.Yaw, 1e-6)
}

func TestNilSampler(t *testing.T) {
	var s *Sampler
	s.Look(1, 1)
	s.SetKeys(Keys{Forward: true})
	assert.Equal(t, Intent{}, s.Sample())
	assert.False(t, s.Enabled())
}

func TestWrapYaw(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"in range untouched", 1, 1},
		{"negative in range untouched", -3, -3},
		{"pi untouched", math.Pi, math.Pi},
		{"just past pi stays above pi", 3.2, 3.2},
		{"past two pi", 7, 7 - 2*math.Pi},
		{"just past minus pi", -3.2, -3.2 + 2*math.Pi},
		{"far negative", -7, -7 + 4*math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WrapYaw(tt.in), 1e-5)
		})
	}
}

func TestWrapYawResultIsNonNegativeOnceWrapped(t *testing.T) {
	for _, yaw := range []float32{-100, -4, 4, 100} {
		got := WrapYaw(yaw)
		assert.GreaterOrEqual(t, got, float32(0))
		assert.Less(t, got, float32(2*math.Pi))
	}
}

func TestClampPitch(t *testing.T) {
	limit := float32(math.Pi/2) - AngleEpsilon
	assert.Equal(t, float32(0.3), ClampPitch(0.3))
	assert.Equal(t, limit, ClampPitch(2))
	assert.Equal(t, -limit, ClampPitch(-2))
}
