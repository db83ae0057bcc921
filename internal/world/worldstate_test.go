package world

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSnapshotString_IncludesPlayerPose(t *testing.T) {
	ws := NewWorldState()
	ws.UpdatePlayer(Player{
		Name:     "p1",
		Position: mgl32.Vec3{1, 2, 3},
		Velocity: mgl32.Vec3{3, -1, 4},
		Height:   3,
		Phase:    "grounded",
	})
	ws.AdvanceTick()

	got := ws.GetState().String()
	for _, want := range []string{"Tick: 1", "p1 grounded", "pos:(1.00, 2.00, 3.00)", "speed:5.00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("Snapshot.String() = %q, want contains %q", got, want)
		}
	}
}

func TestWorldState_PlayersSortedAndReplaced(t *testing.T) {
	ws := &WorldState{}
	ws.UpdatePlayer(Player{Name: "zed"})
	ws.UpdatePlayer(Player{Name: "amy", Height: 1})
	ws.UpdatePlayer(Player{Name: "amy", Height: 2})

	snap := ws.GetState()
	if len(snap.Players) != 2 {
		t.Fatalf("len(Players) = %d, want 2", len(snap.Players))
	}
	if snap.Players[0].Name != "amy" || snap.Players[1].Name != "zed" {
		t.Fatalf("players not sorted: %+v", snap.Players)
	}
	amy, ok := snap.Player("amy")
	if !ok || amy.Height != 2 {
		t.Fatalf("Player(amy) = (%+v, %t), want latest height 2", amy, ok)
	}
}
