package world

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	data := []byte(`name: test
cell_size: 0.5
spawn: [1, 2, 3]
kill_y: -20
palette:
  - name: air
  - name: stone
    solid: true
boxes:
  - block: stone
    min: [-1, -1, -1]
    max: [1, -1, 1]
`)
	level, err := ParseLevel(data)
	if err != nil {
		t.Fatalf("ParseLevel failed: %v", err)
	}
	if level.Name != "test" || level.CellSize != 0.5 || level.KillY != -20 {
		t.Fatalf("level header = %+v", level)
	}
	if level.Spawn.Y() != 2 {
		t.Fatalf("Spawn = %v, want y=2", level.Spawn)
	}

	store, err := level.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !store.IsSolid(0, -1, 0) || !store.IsSolid(1, -1, -1) {
		t.Fatalf("floor cells should be solid")
	}
	if store.IsSolid(0, 0, 0) {
		t.Fatalf("cell above floor should be empty")
	}
}

func TestParseLevelDefaultsCellSize(t *testing.T) {
	level, err := ParseLevel([]byte("name: bare\npalette: [{name: air}]\n"))
	if err != nil {
		t.Fatalf("ParseLevel failed: %v", err)
	}
	if level.CellSize != 1 {
		t.Fatalf("CellSize = %v, want 1", level.CellSize)
	}
}

func TestLevelBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		level   *Level
		wantErr string
	}{
		{"nil level", nil, "level is nil"},
		{
			"unknown block",
			&Level{Name: "x", Palette: []Material{{Name: "air"}}, Boxes: []Box{{Block: "lava"}}},
			"unknown block",
		},
		{
			"inverted box",
			&Level{
				Name:    "x",
				Palette: []Material{{Name: "air"}, {Name: "stone", Solid: true}},
				Boxes:   []Box{{Block: "stone", Min: [3]int{2, 0, 0}, Max: [3]int{1, 0, 0}}},
			},
			"exceeds max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.level.Build()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Build error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadLevelMissingFile(t *testing.T) {
	_, err := LoadLevel(filepath.Join(t.TempDir(), "missing.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("LoadLevel error = %v, want not-exist", err)
	}
}

func TestDefaultLevelBuilds(t *testing.T) {
	level := DefaultLevel()
	store, err := level.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !store.IsSolid(0, -1, 0) {
		t.Fatalf("default level should have a floor under the spawn")
	}
	if store.IsSolid(0, 0, 0) {
		t.Fatalf("spawn column should be clear")
	}
}
