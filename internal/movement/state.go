package movement

import (
	"fmt"

	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Phase classifies the ground contact found by the last solve.
type Phase uint8

const (
	PhaseAirborne Phase = iota
	PhaseGrounded
	// PhaseSliding is ground contact too steep for traction.
	PhaseSliding
)

func (p Phase) String() string {
	switch p {
	case PhaseAirborne:
		return "airborne"
	case PhaseGrounded:
		return "grounded"
	case PhaseSliding:
		return "sliding"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// State is the mutable per-player controller state. Position is the center
// of the collider.
type State struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Height   float32
	// GroundTick counts consecutive grounded ticks, saturating at 255. It is
	// zero exactly when the last ground probe missed.
	GroundTick uint8
	Collider   physics.Collider
	Phase      Phase
}

// Grounded reports whether the last ground probe found a surface.
func (s State) Grounded() bool {
	return s.GroundTick > 0
}

// Controller runs the movement solver for one player.
type Controller struct {
	cfg  Config
	self physics.BodyID
}

// New validates cfg and returns a controller with its spawn state. The
// collider kind is fixed for the life of the state.
func New(cfg Config, kind physics.ColliderKind, spawn mgl32.Vec3) (*Controller, State, error) {
	if err := cfg.ValidateFor(kind); err != nil {
		return nil, State{}, err
	}
	height := cfg.initialHeight()
	collider, err := physics.NewCollider(kind, height, cfg.Radius)
	if err != nil {
		return nil, State{}, fmt.Errorf("%w: %s", ErrUnsupportedCollider, kind)
	}

	state := State{
		Position: spawn,
		Pitch:    input.ClampPitch(cfg.Pitch),
		Yaw:      input.WrapYaw(cfg.Yaw),
		Height:   height,
		Collider: collider,
		Phase:    PhaseAirborne,
	}
	return &Controller{cfg: cfg}, state, nil
}

func (c *Controller) Config() Config {
	return c.cfg
}

// SetBody records the collision body owned by this player so probes skip it.
func (c *Controller) SetBody(id physics.BodyID) {
	c.self = id
}

func (c *Controller) filter() physics.Filter {
	return physics.Filter{Exclude: c.self}
}
