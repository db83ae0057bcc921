package event

import "github.com/go-gl/mathgl/mgl32"

const (
	EventPhaseChanged = "movement.phase"
	EventRespawned    = "movement.respawn"
)

// PhaseChangedEvent is published when a solve moves a player between
// airborne, grounded and sliding. Velocity is the velocity entering the tick,
// so a landing reports its impact speed.
type PhaseChangedEvent struct {
	Player   string
	From     string
	To       string
	Position mgl32.Vec3
	Velocity mgl32.Vec3
}

type RespawnedEvent struct {
	Player string
	From   mgl32.Vec3
	To     mgl32.Vec3
}
