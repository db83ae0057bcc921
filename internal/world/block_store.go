package world

import (
	"fmt"
	"sync"
)

const (
	ChunkMinY          = -64
	ChunkMaxY          = 319
	ChunkSectionCount  = 24
	ChunkSectionHeight = 16
	BlocksPerSection   = 16 * 16 * 16
)

// StateAir is the block state every palette reserves for empty space.
const StateAir int32 = 0

type ChunkPos struct {
	X int32
	Z int32
}

type ChunkSection struct {
	BlockStates []int32
}

type Chunk struct {
	Sections []ChunkSection
}

// BlockStore is a sparse, chunked voxel grid. Chunks are allocated on the
// first write that touches them; unwritten space reads as unloaded.
type BlockStore struct {
	mu                 sync.RWMutex
	chunks             map[ChunkPos]*Chunk
	solidByStateID     []bool
	blockNameByStateID []string
}

// NewBlockStore builds an empty store whose block states are the palette indices.
func NewBlockStore(palette []Material) (*BlockStore, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("palette has no materials")
	}
	if palette[StateAir].Solid {
		return nil, fmt.Errorf("palette entry %d (%s) must be non-solid", StateAir, palette[StateAir].Name)
	}

	solid := make([]bool, len(palette))
	names := make([]string, len(palette))
	seen := make(map[string]struct{}, len(palette))
	for i, m := range palette {
		if m.Name == "" {
			return nil, fmt.Errorf("palette entry %d has no name", i)
		}
		if _, dup := seen[m.Name]; dup {
			return nil, fmt.Errorf("duplicate palette material %q", m.Name)
		}
		seen[m.Name] = struct{}{}
		solid[i] = m.Solid
		names[i] = m.Name
	}

	return &BlockStore{
		chunks:             make(map[ChunkPos]*Chunk),
		solidByStateID:     solid,
		blockNameByStateID: names,
	}, nil
}

func (bs *BlockStore) UnloadChunk(chunkX, chunkZ int32) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	delete(bs.chunks, ChunkPos{X: chunkX, Z: chunkZ})
}

func (bs *BlockStore) SetBlockState(x, y, z int, stateID int32) bool {
	if y < ChunkMinY || y > ChunkMaxY {
		return false
	}
	if stateID < 0 || int(stateID) >= len(bs.solidByStateID) {
		return false
	}

	pos, sectionIndex, blockIndex := locate(x, y, z)

	bs.mu.Lock()
	defer bs.mu.Unlock()

	if bs.chunks == nil {
		bs.chunks = make(map[ChunkPos]*Chunk)
	}
	chunk, ok := bs.chunks[pos]
	if !ok {
		chunk = newEmptyChunk()
		bs.chunks[pos] = chunk
	}
	chunk.Sections[sectionIndex].BlockStates[blockIndex] = stateID
	return true
}

// FillBox sets every cell in the inclusive box [min, max] to stateID and
// returns the number of cells written.
func (bs *BlockStore) FillBox(min, max [3]int, stateID int32) int {
	written := 0
	for y := min[1]; y <= max[1]; y++ {
		for x := min[0]; x <= max[0]; x++ {
			for z := min[2]; z <= max[2]; z++ {
				if bs.SetBlockState(x, y, z, stateID) {
					written++
				}
			}
		}
	}
	return written
}

func (bs *BlockStore) IsLoaded(chunkX, chunkZ int32) bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	_, ok := bs.chunks[ChunkPos{X: chunkX, Z: chunkZ}]
	return ok
}

func (bs *BlockStore) LoadedChunkCount() int {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return len(bs.chunks)
}

func (bs *BlockStore) GetBlockState(x, y, z int) (int32, bool) {
	if y < ChunkMinY || y > ChunkMaxY {
		return 0, false
	}

	pos, sectionIndex, blockIndex := locate(x, y, z)

	bs.mu.RLock()
	defer bs.mu.RUnlock()

	chunk, ok := bs.chunks[pos]
	if !ok {
		return 0, false
	}
	return chunk.Sections[sectionIndex].BlockStates[blockIndex], true
}

func (bs *BlockStore) IsSolid(x, y, z int) bool {
	stateID, ok := bs.GetBlockState(x, y, z)
	if !ok || stateID < 0 {
		return false
	}
	if int(stateID) >= len(bs.solidByStateID) {
		return false
	}
	return bs.solidByStateID[stateID]
}

func (bs *BlockStore) GetBlockNameByStateID(stateID int32) (string, bool) {
	if stateID < 0 {
		return "", false
	}

	bs.mu.RLock()
	defer bs.mu.RUnlock()

	if int(stateID) >= len(bs.blockNameByStateID) {
		return "", false
	}
	name := bs.blockNameByStateID[stateID]
	if name == "" {
		return "", false
	}
	return name, true
}

// StateIDByName looks up the palette index of a material.
func (bs *BlockStore) StateIDByName(name string) (int32, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	for i, n := range bs.blockNameByStateID {
		if n == name {
			return int32(i), true
		}
	}
	return 0, false
}

func newEmptyChunk() *Chunk {
	chunk := &Chunk{Sections: make([]ChunkSection, ChunkSectionCount)}
	for i := range chunk.Sections {
		chunk.Sections[i] = ChunkSection{BlockStates: make([]int32, BlocksPerSection)}
	}
	return chunk
}

func locate(x, y, z int) (ChunkPos, int, int) {
	chunkX := floorDiv16(x)
	chunkZ := floorDiv16(z)
	localX := floorMod16(x)
	localZ := floorMod16(z)
	sectionIndex := (y - ChunkMinY) / ChunkSectionHeight
	localY := (y - ChunkMinY) % ChunkSectionHeight
	blockIndex := localY*16*16 + localZ*16 + localX
	return ChunkPos{X: int32(chunkX), Z: int32(chunkZ)}, sectionIndex, blockIndex
}

func floorDiv16(v int) int {
	q := v / 16
	if v < 0 && v%16 != 0 {
		q--
	}
	return q
}

func floorMod16(v int) int {
	m := v % 16
	if m < 0 {
		m += 16
	}
	return m
}
