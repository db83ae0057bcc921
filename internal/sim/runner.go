package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

// Runner ticks a set of independent bodies in lockstep. Bodies never touch
// each other's state, so one tick fans out across goroutines.
type Runner struct {
	state     *world.WorldState
	spawn     mgl32.Vec3
	killY     float32
	publisher body.Publisher
	mu        sync.Mutex
	bodies    []*body.Body
}

func NewRunner(state *world.WorldState, spawn mgl32.Vec3, killY float32) *Runner {
	if state == nil {
		state = world.NewWorldState()
	}
	return &Runner{state: state, spawn: spawn, killY: killY}
}

func (r *Runner) Add(b *body.Body) error {
	if b == nil {
		return fmt.Errorf("body is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bodies {
		if existing.Name() == b.Name() {
			return fmt.Errorf("body %q already added", b.Name())
		}
	}
	r.bodies = append(r.bodies, b)
	return nil
}

func (r *Runner) Bodies() []*body.Body {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*body.Body(nil), r.bodies...)
}

// SetPublisher routes respawn events to p. Call it before stepping.
func (r *Runner) SetPublisher(p body.Publisher) {
	r.publisher = p
}

func (r *Runner) State() *world.WorldState {
	return r.state
}

// Step advances every body by dt, returns anything that fell below the kill
// plane to the spawn point and closes the world tick.
func (r *Runner) Step(dt float32) error {
	bodies := r.Bodies()
	errs := make([]error, len(bodies))

	var wg sync.WaitGroup
	for i, b := range bodies {
		wg.Add(1)
		go func(i int, b *body.Body) {
			defer wg.Done()
			if err := b.Tick(dt); err != nil {
				errs[i] = fmt.Errorf("tick %s: %w", b.Name(), err)
				return
			}
			if pos := b.State().Position; pos.Y() < r.killY {
				slog.Warn("Body below kill plane", "player", b.Name(), "kill_y", r.killY)
				b.Teleport(r.spawn)
				if r.publisher != nil {
					r.publisher.Publish(event.EventRespawned, event.RespawnedEvent{Player: b.Name(), From: pos, To: r.spawn})
				}
			}
		}(i, b)
	}
	wg.Wait()

	r.state.AdvanceTick()
	return errors.Join(errs...)
}

// Play drives every body's sampler from script for duration seconds at
// tickRate, without waiting on the wall clock. A zero duration plays the
// script once. One sample per player is logged every simulated second.
func (r *Runner) Play(ctx context.Context, script Script, tickRate int, duration float32) error {
	if tickRate <= 0 {
		return fmt.Errorf("invalid tick rate %d", tickRate)
	}
	if err := script.Validate(); err != nil {
		return err
	}
	if duration <= 0 {
		duration = script.Duration()
	}
	dt := 1 / float32(tickRate)
	ticks := int(math.Round(float64(duration) * float64(tickRate)))

	slog.Info("Playing script", "steps", len(script), "ticks", ticks, "players", len(r.Bodies()))
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		step, _ := script.At(float32(i) * dt)
		r.drive(step)
		if err := r.Step(dt); err != nil {
			return err
		}
		if (i+1)%tickRate == 0 {
			r.logSample()
		}
	}
	r.drive(Step{})
	slog.Info("Script finished", "tick", r.state.GetState().Tick)
	return nil
}

// Loop steps the bodies in real time until ctx is done. onTick runs after
// each step on the loop goroutine.
func (r *Runner) Loop(ctx context.Context, tickRate int, onTick func()) error {
	if tickRate <= 0 {
		return fmt.Errorf("invalid tick rate %d", tickRate)
	}
	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			if err := r.Step(dt); err != nil {
				slog.Debug("Tick failed", "error", err)
			}
			if onTick != nil {
				onTick()
			}
		}
	}
}

func (r *Runner) drive(step Step) {
	for _, b := range r.Bodies() {
		sampler := b.Sampler()
		sampler.SetKeys(step.Keys)
		if step.Look != ([2]float32{}) {
			sampler.Look(step.Look[0], step.Look[1])
		}
	}
}

func (r *Runner) logSample() {
	snap := r.state.GetState()
	for _, p := range snap.Players {
		slog.Info("Sample",
			"tick", snap.Tick,
			"player", p.Name,
			"phase", p.Phase,
			"pos", p.Position,
			"speed", mgl32.Vec2{p.Velocity.X(), p.Velocity.Z()}.Len(),
			"vy", p.Velocity.Y(),
			"height", p.Height,
		)
	}
}

