package world

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldState is the render-side view of every player: the last pose each
// body published after its tick. Readers never see a half-finished tick.
type WorldState struct {
	tick    uint64
	players map[string]Player
	mu      sync.RWMutex
}

// Player is the published pose of one controller.
type Player struct {
	Name     string
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Eye      mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Height   float32
	Phase    string
}

type Snapshot struct {
	Tick    uint64
	Players []Player
}

func NewWorldState() *WorldState {
	return &WorldState{players: make(map[string]Player)}
}

func (s Snapshot) Player(name string) (Player, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

func (s Snapshot) String() string {
	infos := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		speed := mgl32.Vec2{p.Velocity.X(), p.Velocity.Z()}.Len()
		infos = append(infos, fmt.Sprintf(
			"%s %s pos:(%.2f, %.2f, %.2f) speed:%.2f vy:%.2f height:%.2f yaw:%.2f pitch:%.2f",
			p.Name, p.Phase,
			p.Position.X(), p.Position.Y(), p.Position.Z(),
			speed, p.Velocity.Y(), p.Height, p.Yaw, p.Pitch,
		))
	}
	return fmt.Sprintf("Snapshot [Tick: %d] | [Players(%d): %s]", s.Tick, len(infos), strings.Join(infos, ", "))
}

func (ws *WorldState) GetState() Snapshot {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	players := make([]Player, 0, len(ws.players))
	for _, p := range ws.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return Snapshot{Tick: ws.tick, Players: players}
}

func (ws *WorldState) UpdatePlayer(p Player) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.players == nil {
		ws.players = make(map[string]Player)
	}
	ws.players[p.Name] = p
}

// AdvanceTick marks the end of a simulation tick.
func (ws *WorldState) AdvanceTick() uint64 {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.tick++
	return ws.tick
}
