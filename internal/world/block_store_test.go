package world

import "testing"

func testPalette() []Material {
	return []Material{
		{Name: "air"},
		{Name: "stone", Solid: true},
		{Name: "glass", Solid: false},
	}
}

func TestNewBlockStoreRejectsBadPalettes(t *testing.T) {
	tests := []struct {
		name    string
		palette []Material
	}{
		{"empty", nil},
		{"solid air slot", []Material{{Name: "stone", Solid: true}}},
		{"unnamed", []Material{{Name: "air"}, {Solid: true}}},
		{"duplicate", []Material{{Name: "air"}, {Name: "stone", Solid: true}, {Name: "stone"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBlockStore(tt.palette); err == nil {
				t.Fatalf("NewBlockStore(%v) succeeded, want error", tt.palette)
			}
		})
	}
}

func TestBlockStoreSetGetAndUnloadChunk(t *testing.T) {
	bs, err := NewBlockStore(testPalette())
	if err != nil {
		t.Fatalf("NewBlockStore failed: %v", err)
	}

	if _, ok := bs.GetBlockState(2, 70, 3); ok {
		t.Fatalf("GetBlockState should report unloaded before any write")
	}
	if !bs.SetBlockState(2, 70, 3, 1) {
		t.Fatalf("SetBlockState(2,70,3) failed")
	}
	if !bs.IsLoaded(0, 0) {
		t.Fatalf("chunk (0,0) should be loaded after write")
	}
	if bs.LoadedChunkCount() != 1 {
		t.Fatalf("LoadedChunkCount = %d, want 1", bs.LoadedChunkCount())
	}

	state, ok := bs.GetBlockState(2, 70, 3)
	if !ok || state != 1 {
		t.Fatalf("GetBlockState = (%d, %t), want (1, true)", state, ok)
	}
	if !bs.IsSolid(2, 70, 3) {
		t.Fatalf("IsSolid should be true for stone")
	}
	if bs.IsSolid(2, 71, 3) {
		t.Fatalf("IsSolid should be false for untouched cell")
	}

	bs.UnloadChunk(0, 0)
	if bs.IsLoaded(0, 0) {
		t.Fatalf("chunk (0,0) should be unloaded")
	}
	if bs.IsSolid(2, 70, 3) {
		t.Fatalf("IsSolid should be false after unload")
	}
}

func TestBlockStoreNegativeCoordinates(t *testing.T) {
	bs, err := NewBlockStore(testPalette())
	if err != nil {
		t.Fatalf("NewBlockStore failed: %v", err)
	}

	if !bs.SetBlockState(-1, -1, -17, 1) {
		t.Fatalf("SetBlockState(-1,-1,-17) failed")
	}
	if !bs.IsLoaded(-1, -2) {
		t.Fatalf("chunk (-1,-2) should be loaded")
	}
	if !bs.IsSolid(-1, -1, -17) {
		t.Fatalf("IsSolid(-1,-1,-17) = false, want true")
	}
	if bs.IsSolid(15, -1, -17) {
		t.Fatalf("IsSolid(15,-1,-17) = true, want false")
	}
}

func TestBlockStoreRejectsOutOfRangeWrites(t *testing.T) {
	bs, err := NewBlockStore(testPalette())
	if err != nil {
		t.Fatalf("NewBlockStore failed: %v", err)
	}

	if bs.SetBlockState(0, ChunkMaxY+1, 0, 1) {
		t.Fatalf("SetBlockState above ChunkMaxY succeeded")
	}
	if bs.SetBlockState(0, ChunkMinY-1, 0, 1) {
		t.Fatalf("SetBlockState below ChunkMinY succeeded")
	}
	if bs.SetBlockState(0, 0, 0, 9) {
		t.Fatalf("SetBlockState with unknown state succeeded")
	}
	if bs.LoadedChunkCount() != 0 {
		t.Fatalf("LoadedChunkCount = %d, want 0", bs.LoadedChunkCount())
	}
}

func TestBlockStoreFillBoxAndNames(t *testing.T) {
	bs, err := NewBlockStore(testPalette())
	if err != nil {
		t.Fatalf("NewBlockStore failed: %v", err)
	}

	written := bs.FillBox([3]int{-2, 0, -2}, [3]int{1, 1, 1}, 2)
	if written != 4*2*4 {
		t.Fatalf("FillBox wrote %d cells, want %d", written, 4*2*4)
	}
	state, ok := bs.GetBlockState(-2, 1, 1)
	if !ok || state != 2 {
		t.Fatalf("GetBlockState(-2,1,1) = (%d, %t), want (2, true)", state, ok)
	}
	if bs.IsSolid(-2, 1, 1) {
		t.Fatalf("glass should not be solid")
	}

	name, ok := bs.GetBlockNameByStateID(2)
	if !ok || name != "glass" {
		t.Fatalf("GetBlockNameByStateID(2) = (%q, %t), want (glass, true)", name, ok)
	}
	if _, ok := bs.GetBlockNameByStateID(-1); ok {
		t.Fatalf("GetBlockNameByStateID(-1) should fail")
	}
	id, ok := bs.StateIDByName("stone")
	if !ok || id != 1 {
		t.Fatalf("StateIDByName(stone) = (%d, %t), want (1, true)", id, ok)
	}
}

func TestFloorDiv16AndMod16(t *testing.T) {
	tests := []struct {
		v       int
		wantDiv int
		wantMod int
	}{
		{0, 0, 0},
		{15, 0, 15},
		{16, 1, 0},
		{-1, -1, 15},
		{-16, -1, 0},
		{-17, -2, 15},
	}
	for _, tt := range tests {
		if got := floorDiv16(tt.v); got != tt.wantDiv {
			t.Fatalf("floorDiv16(%d) = %d, want %d", tt.v, got, tt.wantDiv)
		}
		if got := floorMod16(tt.v); got != tt.wantMod {
			t.Fatalf("floorMod16(%d) = %d, want %d", tt.v, got, tt.wantMod)
		}
	}
}
