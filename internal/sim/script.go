package sim

import (
	"fmt"
	"math"

	"github.com/Versifine/stride/internal/input"
)

// Step holds a key state for Duration seconds. Look is a raw pointer delta
// fed to the sampler every tick of the step.
type Step struct {
	Duration float32    `yaml:"duration"`
	Keys     input.Keys `yaml:"keys,omitempty"`
	Look     [2]float32 `yaml:"look,omitempty"`
}

// Script is a sequence of steps played back to back.
type Script []Step

// DefaultScript walks onto the curb of the default level, hops, crouches
// and turns around.
func DefaultScript() Script {
	return Script{
		{Duration: 0.5},
		{Duration: 1, Keys: input.Keys{Right: true}},
		{Duration: 0.25, Keys: input.Keys{Right: true, Jump: true}},
		{Duration: 1, Keys: input.Keys{Forward: true}},
		{Duration: 1.5, Keys: input.Keys{Forward: true, Crouch: true}},
		{Duration: 0.5, Look: [2]float32{40, 0}},
		{Duration: 1, Keys: input.Keys{Forward: true, Left: true}},
		{Duration: 0.5},
	}
}

func (s Script) Duration() float32 {
	var total float32
	for _, step := range s {
		total += step.Duration
	}
	return total
}

// At returns the step active t seconds into the script.
func (s Script) At(t float32) (Step, bool) {
	if t < 0 {
		return Step{}, false
	}
	var end float32
	for _, step := range s {
		end += step.Duration
		if t < end {
			return step, true
		}
	}
	return Step{}, false
}

func (s Script) Validate() error {
	for i, step := range s {
		d := float64(step.Duration)
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			return fmt.Errorf("script step %d: duration must be positive, got %v", i, step.Duration)
		}
		for _, v := range step.Look {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return fmt.Errorf("script step %d: look delta must be finite", i)
			}
		}
	}
	return nil
}
