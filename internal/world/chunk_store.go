package world

import (
	"sync"

	"terramesh/internal/profiling"

	"golang.org/x/exp/slices"
)

// ChunkStore owns the loaded chunks and keeps their adjacency links current.
type ChunkStore struct {
	// Map of chunks indexed by their coordinates
	chunks   map[ChunkPosition]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove

	// Per-column index for XZ radius queries: (chunkX,chunkZ) -> chunks by chunkY
	colIndex map[[2]int]map[int]*Chunk
}

// NewChunkStore creates an empty store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks:   make(map[ChunkPosition]*Chunk),
		colIndex: make(map[[2]int]map[int]*Chunk),
	}
}

// Lookup returns the chunk at pos, if loaded.
func (cs *ChunkStore) Lookup(pos ChunkPosition) (*Chunk, bool) {
	cs.mu.RLock()
	c, ok := cs.chunks[pos]
	cs.mu.RUnlock()
	return c, ok
}

// HasChunk checks if a chunk exists.
func (cs *ChunkStore) HasChunk(pos ChunkPosition) bool {
	_, ok := cs.Lookup(pos)
	return ok
}

// Len returns the number of loaded chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// AddChunk installs a generated chunk and links it with its loaded neighbours.
// Both sides of every new link are marked dirty. Returns false when a chunk is
// already stored at that position.
func (cs *ChunkStore) AddChunk(chunk *Chunk) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[chunk.Pos]; ok {
		return false
	}
	cs.chunks[chunk.Pos] = chunk
	cs.modCount++

	key := [2]int{chunk.Pos.X, chunk.Pos.Z}
	col := cs.colIndex[key]
	if col == nil {
		col = make(map[int]*Chunk)
		cs.colIndex[key] = col
	}
	col[chunk.Pos.Y] = chunk

	for _, f := range Faces {
		nb, ok := cs.chunks[chunk.Pos.Neighbor(f)]
		if !ok {
			continue
		}
		chunk.setAdjacent(f, true)
		nb.setAdjacent(f.Opposite(), true)
	}
	chunk.MarkDirty()
	return true
}

// removeLocked drops a chunk and unlinks its neighbours. cs.mu must be held.
func (cs *ChunkStore) removeLocked(pos ChunkPosition) {
	chunk, ok := cs.chunks[pos]
	if !ok {
		return
	}
	delete(cs.chunks, pos)
	cs.modCount++

	key := [2]int{pos.X, pos.Z}
	if col, ok := cs.colIndex[key]; ok {
		delete(col, pos.Y)
		if len(col) == 0 {
			delete(cs.colIndex, key)
		}
	}

	for _, f := range Faces {
		if nb, ok := cs.chunks[pos.Neighbor(f)]; ok {
			nb.setAdjacent(f.Opposite(), false)
		}
		chunk.setAdjacent(f, false)
	}
}

// RemoveChunk unloads the chunk at pos.
func (cs *ChunkStore) RemoveChunk(pos ChunkPosition) {
	cs.mu.Lock()
	cs.removeLocked(pos)
	cs.mu.Unlock()
}

// Chunks returns every loaded chunk ordered by position.
func (cs *ChunkStore) Chunks() []*Chunk {
	cs.mu.RLock()
	out := make([]*Chunk, 0, len(cs.chunks))
	for _, c := range cs.chunks {
		out = append(out, c)
	}
	cs.mu.RUnlock()
	SortChunks(out)
	return out
}

// SortChunks orders chunks by position.
func SortChunks(chunks []*Chunk) {
	slices.SortFunc(chunks, func(a, b *Chunk) int {
		return a.Pos.Compare(b.Pos)
	})
}

// AppendChunksInRadiusXZ appends all loaded chunks within a radius (in chunks)
// around a center column (cx, cz) into dst and returns the resulting slice.
func (cs *ChunkStore) AppendChunksInRadiusXZ(cx, cz, radius int, dst []*Chunk) []*Chunk {
	defer profiling.Track("world.AppendChunksInRadiusXZ")()
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			for _, ch := range cs.colIndex[[2]int{cx + dx, cz + dz}] {
				dst = append(dst, ch)
			}
		}
	}
	return dst
}

// ChunksInRadius returns the loaded chunks around (cx, cz) ordered by position.
func (cs *ChunkStore) ChunksInRadius(cx, cz, radius int) []*Chunk {
	out := cs.AppendChunksInRadiusXZ(cx, cz, radius, nil)
	SortChunks(out)
	return out
}

// ModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// EvictFarChunks removes chunks whose column lies outside radius of (cx, cz).
// Returns number of removed chunks.
func (cs *ChunkStore) EvictFarChunks(cx, cz, radius int) int {
	defer profiling.Track("world.EvictFarChunks")()
	removed := 0
	cs.mu.Lock()
	for pos := range cs.chunks {
		dx := pos.X - cx
		dz := pos.Z - cz
		if dx*dx+dz*dz > radius*radius {
			cs.removeLocked(pos)
			removed++
		}
	}
	cs.mu.Unlock()
	return removed
}
