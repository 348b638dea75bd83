package meshing

import (
	"sync"

	"terramesh/internal/world"
)

// MeshSource resolves the current mesh of a chunk.
type MeshSource interface {
	Mesh(pos world.ChunkPosition) (*ChunkMesh, bool)
}

// Cache keeps the latest mesh per chunk position. Staleness is tracked by the
// chunk's dirty flag, not here.
type Cache struct {
	mu     sync.RWMutex
	meshes map[world.ChunkPosition]*ChunkMesh
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{meshes: make(map[world.ChunkPosition]*ChunkMesh)}
}

// Mesh returns the cached mesh for pos.
func (c *Cache) Mesh(pos world.ChunkPosition) (*ChunkMesh, bool) {
	c.mu.RLock()
	m, ok := c.meshes[pos]
	c.mu.RUnlock()
	return m, ok
}

// Put stores m under its position, replacing any previous mesh.
func (c *Cache) Put(m *ChunkMesh) {
	c.mu.Lock()
	c.meshes[m.Pos] = m
	c.mu.Unlock()
}

// Delete drops the mesh for pos.
func (c *Cache) Delete(pos world.ChunkPosition) {
	c.mu.Lock()
	delete(c.meshes, pos)
	c.mu.Unlock()
}

// Prune drops meshes whose position fails keep and returns how many went.
func (c *Cache) Prune(keep func(world.ChunkPosition) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for pos := range c.meshes {
		if !keep(pos) {
			delete(c.meshes, pos)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.meshes)
}
