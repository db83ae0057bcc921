package movement

import (
	"errors"
	"fmt"
	"math"

	"github.com/Versifine/stride/internal/physics"
)

var (
	// ErrInvalidConfig reports tuning values a controller cannot run with.
	ErrInvalidConfig = errors.New("invalid controller config")
	// ErrUnsupportedCollider reports a collider that is neither a capsule nor a cylinder.
	ErrUnsupportedCollider = errors.New("unsupported collider")
)

// Config is the per-player tuning, fixed at construction.
type Config struct {
	Gravity              float32 `yaml:"gravity"`
	WalkSpeed            float32 `yaml:"walk_speed"`
	CrouchedSpeed        float32 `yaml:"crouched_speed"`
	ForwardSpeed         float32 `yaml:"forward_speed"`
	SideSpeed            float32 `yaml:"side_speed"`
	Acceleration         float32 `yaml:"acceleration"`
	AirAcceleration      float32 `yaml:"air_acceleration"`
	AirSpeedCap          float32 `yaml:"air_speed_cap"`
	MaxAirSpeed          float32 `yaml:"max_air_speed"`
	Friction             float32 `yaml:"friction"`
	StopSpeed            float32 `yaml:"stop_speed"`
	FrictionSpeedCutoff  float32 `yaml:"friction_speed_cutoff"`
	TractionNormalCutoff float32 `yaml:"traction_normal_cutoff"`
	JumpSpeed            float32 `yaml:"jump_speed"`
	CrouchSpeed          float32 `yaml:"crouch_speed"`
	UncrouchSpeed        float32 `yaml:"uncrouch_speed"`
	CrouchHeight         float32 `yaml:"crouch_height"`
	UprightHeight        float32 `yaml:"upright_height"`
	StepOffset           float32 `yaml:"step_offset"`
	Sensitivity          float32 `yaml:"sensitivity"`
	GroundedDistance     float32 `yaml:"grounded_distance"`
	Radius               float32 `yaml:"radius"`

	// Initial facing and height. A zero height starts upright.
	Pitch  float32 `yaml:"pitch"`
	Yaw    float32 `yaml:"yaw"`
	Height float32 `yaml:"height"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:              23,
		WalkSpeed:            9,
		CrouchedSpeed:        5,
		ForwardSpeed:         30,
		SideSpeed:            30,
		Acceleration:         10,
		AirAcceleration:      20,
		AirSpeedCap:          2,
		MaxAirSpeed:          15,
		Friction:             10,
		StopSpeed:            1,
		FrictionSpeedCutoff:  0.1,
		TractionNormalCutoff: 0.7,
		JumpSpeed:            8.5,
		CrouchSpeed:          6,
		UncrouchSpeed:        8,
		CrouchHeight:         1.5,
		UprightHeight:        3,
		StepOffset:           0.25,
		Sensitivity:          0.001,
		GroundedDistance:     0.125,
		Radius:               0.5,
		Height:               3,
	}
}

// Validate checks that every field is finite and the height range is usable.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float32
	}{
		{"gravity", c.Gravity},
		{"walk_speed", c.WalkSpeed},
		{"crouched_speed", c.CrouchedSpeed},
		{"forward_speed", c.ForwardSpeed},
		{"side_speed", c.SideSpeed},
		{"acceleration", c.Acceleration},
		{"air_acceleration", c.AirAcceleration},
		{"air_speed_cap", c.AirSpeedCap},
		{"max_air_speed", c.MaxAirSpeed},
		{"friction", c.Friction},
		{"stop_speed", c.StopSpeed},
		{"friction_speed_cutoff", c.FrictionSpeedCutoff},
		{"jump_speed", c.JumpSpeed},
		{"crouch_speed", c.CrouchSpeed},
		{"uncrouch_speed", c.UncrouchSpeed},
		{"step_offset", c.StepOffset},
		{"sensitivity", c.Sensitivity},
	}
	for _, f := range fields {
		if !finite(f.value) || f.value < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidConfig, f.name, f.value)
		}
	}

	if !finite(c.TractionNormalCutoff) || c.TractionNormalCutoff < -1 || c.TractionNormalCutoff > 1 {
		return fmt.Errorf("%w: traction_normal_cutoff %v is not a cosine", ErrInvalidConfig, c.TractionNormalCutoff)
	}
	if !finite(c.Radius) || c.Radius <= 0 {
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidConfig, c.Radius)
	}
	if !finite(c.GroundedDistance) || c.GroundedDistance <= 0 {
		return fmt.Errorf("%w: grounded_distance must be positive, got %v", ErrInvalidConfig, c.GroundedDistance)
	}
	if !finite(c.CrouchHeight) || c.CrouchHeight <= 0 {
		return fmt.Errorf("%w: crouch_height must be positive, got %v", ErrInvalidConfig, c.CrouchHeight)
	}
	if !finite(c.UprightHeight) || c.UprightHeight < c.CrouchHeight {
		return fmt.Errorf("%w: upright_height %v is below crouch_height %v", ErrInvalidConfig, c.UprightHeight, c.CrouchHeight)
	}
	if c.Height != 0 && (c.Height < c.CrouchHeight || c.Height > c.UprightHeight) {
		return fmt.Errorf("%w: height %v outside [%v, %v]", ErrInvalidConfig, c.Height, c.CrouchHeight, c.UprightHeight)
	}
	if !finite(c.Pitch) || !finite(c.Yaw) {
		return fmt.Errorf("%w: initial pitch/yaw must be finite", ErrInvalidConfig)
	}
	return nil
}

// ValidateFor checks cfg against the collider it will drive. A capsule
// cannot be shorter than its two end caps.
func (c Config) ValidateFor(kind physics.ColliderKind) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if kind == physics.ColliderCapsule && c.CrouchHeight < 2*c.Radius {
		return fmt.Errorf("%w: capsule crouch_height %v is below its diameter %v", ErrInvalidConfig, c.CrouchHeight, 2*c.Radius)
	}
	return nil
}

func (c Config) initialHeight() float32 {
	if c.Height == 0 {
		return c.UprightHeight
	}
	return c.Height
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
