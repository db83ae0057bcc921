package body

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/movement"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/pose"
	"github.com/Versifine/stride/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

// World is the collision world a body lives in: the solver queries it and
// the body integrates through it.
type World interface {
	physics.Query
	Move(center, delta mgl32.Vec3, shape physics.Collider) (mgl32.Vec3, physics.Blocked)
}

type StateUpdater interface {
	UpdatePlayer(p world.Player)
}

type Publisher interface {
	Publish(eventName string, evt any)
}

// restProbeShrink matches the solver's ground probe footprint.
const restProbeShrink = 0.9375

var down = mgl32.Vec3{0, -1, 0}

// Body owns one player's controller state and runs the per-tick pipeline:
// sample input, update orientation, solve, integrate, project.
type Body struct {
	mu           sync.Mutex
	name         string
	controller   *movement.Controller
	state        movement.State
	sampler      *input.Sampler
	world        World
	camera       pose.Camera
	stateUpdater StateUpdater
	publisher    Publisher
	pose         pose.Pose
}

func New(
	name string,
	controller *movement.Controller,
	initial movement.State,
	sampler *input.Sampler,
	w World,
	camera pose.Camera,
	stateUpdater StateUpdater,
) *Body {
	b := &Body{
		name:         name,
		controller:   controller,
		state:        initial,
		sampler:      sampler,
		world:        w,
		camera:       camera,
		stateUpdater: stateUpdater,
	}
	b.pose = pose.Project(initial, camera)
	return b
}

func (b *Body) Tick(dt float32) error {
	if b == nil {
		return fmt.Errorf("body is nil")
	}
	if b.controller == nil {
		return fmt.Errorf("body %q has no controller", b.name)
	}
	if b.world == nil {
		return fmt.Errorf("body %q has no world", b.name)
	}
	if math.IsNaN(float64(dt)) || math.IsInf(float64(dt), 0) || dt <= 0 {
		return fmt.Errorf("invalid tick length %v", dt)
	}

	intent := b.sampler.Sample()

	b.mu.Lock()
	prev := b.state.Phase
	entry := b.state.Velocity
	movement.UpdateOrientation(&b.state, intent)
	phase := b.controller.Solve(&b.state, intent, b.world, dt)
	b.integrate(phase, dt)
	b.pose = pose.Project(b.state, b.camera)
	player := b.playerLocked()
	publisher := b.publisher
	b.mu.Unlock()

	if phase != prev {
		slog.Debug("Phase changed", "player", b.name, "from", prev, "to", phase, "pos", player.Position)
		if publisher != nil {
			publisher.Publish(event.EventPhaseChanged, event.PhaseChangedEvent{
				Player:   b.name,
				From:     prev.String(),
				To:       phase.String(),
				Position: player.Position,
				Velocity: entry,
			})
		}
	}
	if b.stateUpdater != nil {
		b.stateUpdater.UpdatePlayer(player)
	}
	return nil
}

// integrate moves the collider by the solved velocity. A body resting on
// walkable ground also closes the gap left inside the probe distance, since
// the solver keeps no vertical speed on flat ground. Axes cut short by
// geometry lose their velocity.
func (b *Body) integrate(phase movement.Phase, dt float32) {
	s := &b.state
	delta := s.Velocity.Mul(dt)
	if phase == movement.PhaseGrounded && s.Velocity.Y() <= 0 {
		cfg := b.controller.Config()
		shape := s.Collider.ScaledLaterally(restProbeShrink)
		if hit, ok := b.world.ShapeCast(s.Position, down, shape, cfg.GroundedDistance, physics.Filter{}); ok && hit.Details != nil {
			delta[1] -= hit.TimeOfImpact
		}
	}

	pos, blocked := b.world.Move(s.Position, delta, s.Collider)
	s.Position = pos
	if blocked.X {
		s.Velocity[0] = 0
	}
	if blocked.Y {
		s.Velocity[1] = 0
	}
	if blocked.Z {
		s.Velocity[2] = 0
	}
}

// Teleport resets the body to pos at rest, as a respawn does.
func (b *Body) Teleport(pos mgl32.Vec3) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.state.Position = pos
	b.state.Velocity = mgl32.Vec3{}
	b.state.GroundTick = 0
	b.state.Phase = movement.PhaseAirborne
	b.pose = pose.Project(b.state, b.camera)
	player := b.playerLocked()
	b.mu.Unlock()

	slog.Info("Body teleported", "player", b.name, "pos", pos)
	if b.stateUpdater != nil {
		b.stateUpdater.UpdatePlayer(player)
	}
}

// SetPublisher routes phase change events to p.
func (b *Body) SetPublisher(p Publisher) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.publisher = p
	b.mu.Unlock()
}

func (b *Body) State() movement.State {
	if b == nil {
		return movement.State{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Body) Pose() pose.Pose {
	if b == nil {
		return pose.Pose{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pose
}

func (b *Body) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

func (b *Body) Sampler() *input.Sampler {
	if b == nil {
		return nil
	}
	return b.sampler
}

func (b *Body) playerLocked() world.Player {
	return world.Player{
		Name:     b.name,
		Position: b.state.Position,
		Velocity: b.state.Velocity,
		Eye:      b.pose.Eye,
		Yaw:      b.state.Yaw,
		Pitch:    b.state.Pitch,
		Height:   b.state.Height,
		Phase:    b.state.Phase.String(),
	}
}
