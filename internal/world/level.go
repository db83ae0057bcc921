package world

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Material is one palette entry. Its index in Level.Palette is its block state.
type Material struct {
	Name  string `yaml:"name"`
	Solid bool   `yaml:"solid"`
}

// Box fills the inclusive cell range [Min, Max] with Block.
type Box struct {
	Block string `yaml:"block"`
	Min   [3]int `yaml:"min"`
	Max   [3]int `yaml:"max"`
}

// Level describes a static voxel scene. Cell coordinates are multiplied by
// CellSize to get world units.
type Level struct {
	Name     string     `yaml:"name"`
	CellSize float32    `yaml:"cell_size"`
	Spawn    mgl32.Vec3 `yaml:"spawn"`
	KillY    float32    `yaml:"kill_y"`
	Palette  []Material `yaml:"palette"`
	Boxes    []Box      `yaml:"boxes"`
}

// DefaultLevel is a small test ground: a floor, a one-cell curb, a raised
// ledge to crouch-walk along and a wall.
func DefaultLevel() *Level {
	return &Level{
		Name:     "playground",
		CellSize: 0.25,
		Spawn:    mgl32.Vec3{0, 1.625, 0},
		KillY:    -50,
		Palette: []Material{
			{Name: "air", Solid: false},
			{Name: "stone", Solid: true},
			{Name: "brick", Solid: true},
		},
		Boxes: []Box{
			{Block: "stone", Min: [3]int{-96, -1, -96}, Max: [3]int{96, -1, 96}},
			{Block: "brick", Min: [3]int{8, 0, -16}, Max: [3]int{23, 0, 16}},
			{Block: "stone", Min: [3]int{-48, 0, -24}, Max: [3]int{-24, 7, 24}},
			{Block: "brick", Min: [3]int{-16, 0, 40}, Max: [3]int{16, 15, 43}},
		},
	}
}

func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLevel(data)
}

func ParseLevel(data []byte) (*Level, error) {
	level := &Level{}
	if err := yaml.Unmarshal(data, level); err != nil {
		return nil, fmt.Errorf("parse level yaml: %w", err)
	}
	if level.CellSize <= 0 {
		level.CellSize = 1
	}
	return level, nil
}

// Build rasterizes the level boxes into a fresh block store.
func (l *Level) Build() (*BlockStore, error) {
	if l == nil {
		return nil, fmt.Errorf("level is nil")
	}
	store, err := NewBlockStore(l.Palette)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	for i, box := range l.Boxes {
		stateID, ok := store.StateIDByName(box.Block)
		if !ok {
			return nil, fmt.Errorf("level %q box %d: unknown block %q", l.Name, i, box.Block)
		}
		for axis := 0; axis < 3; axis++ {
			if box.Min[axis] > box.Max[axis] {
				return nil, fmt.Errorf("level %q box %d: min %v exceeds max %v", l.Name, i, box.Min, box.Max)
			}
		}
		store.FillBox(box.Min, box.Max, stateID)
	}
	return store, nil
}
