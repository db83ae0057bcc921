package movement

import "github.com/Versifine/stride/internal/input"

// UpdateOrientation copies the sampled view angles into s. Pitch is clamped
// again so a hand-built intent cannot flip the view.
func UpdateOrientation(s *State, intent input.Intent) {
	s.Pitch = input.ClampPitch(intent.Pitch)
	s.Yaw = intent.Yaw
}
