package world

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultChunkSize is the side length of a cubic chunk in cells.
const DefaultChunkSize = 16

// CellKind is the occlusion classification of a cell.
type CellKind uint8

const (
	// CellEmpty contributes no geometry.
	CellEmpty CellKind = iota
	// CellBorderVisible takes part in face occlusion tests.
	CellBorderVisible
	// CellBorderVisibleFluid takes part in the fluid occlusion tests.
	CellBorderVisibleFluid
	// CellAlwaysVisible skips occlusion (cross sprites).
	CellAlwaysVisible
	// CellObscured is an interior solid cell with every neighbour solid. It emits
	// nothing but still occludes its neighbours.
	CellObscured
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellBorderVisible:
		return "border-visible"
	case CellBorderVisibleFluid:
		return "border-visible-fluid"
	case CellAlwaysVisible:
		return "always-visible"
	case CellObscured:
		return "obscured"
	}
	return fmt.Sprintf("cell(%d)", uint8(k))
}

// Cell is one classified grid position. Block is meaningless for CellEmpty.
type Cell struct {
	Kind  CellKind
	Block Block
}

// EmptyCell is the zero cell.
var EmptyCell = Cell{}

// IsEmpty reports whether the cell holds no block.
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// Obscures reports whether c hides a neighbouring cube face: any non-empty,
// non-fluid cell does.
func (c Cell) Obscures() bool {
	switch c.Kind {
	case CellBorderVisible, CellObscured, CellAlwaysVisible:
		return true
	}
	return false
}

// ObscuresFluid reports whether c hides a neighbouring fluid face: only another
// fluid or a solid cell does.
func (c Cell) ObscuresFluid() bool {
	switch c.Kind {
	case CellBorderVisibleFluid, CellBorderVisible, CellObscured:
		return true
	}
	return false
}

// ChunkPosition is a chunk's lattice coordinate in chunk-size units.
type ChunkPosition struct {
	X, Y, Z int
}

// Compare orders positions lexicographically by x, then y, then z.
func (p ChunkPosition) Compare(o ChunkPosition) int {
	switch {
	case p.X != o.X:
		return cmpInt(p.X, o.X)
	case p.Y != o.Y:
		return cmpInt(p.Y, o.Y)
	default:
		return cmpInt(p.Z, o.Z)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Neighbor returns the position across face f.
func (p ChunkPosition) Neighbor(f FaceDir) ChunkPosition {
	dx, dy, dz := f.Offset()
	return ChunkPosition{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Origin returns the world-space block coordinate of the chunk's (0,0,0) cell.
func (p ChunkPosition) Origin(size int) (x, y, z int) {
	return p.X * size, p.Y * size, p.Z * size
}

// OriginVec is Origin as a float vector.
func (p ChunkPosition) OriginVec(size int) mgl32.Vec3 {
	x, y, z := p.Origin(size)
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

func (p ChunkPosition) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// ChunkPositionFromBlock returns the chunk containing the world block coordinate.
func ChunkPositionFromBlock(x, y, z, size int) ChunkPosition {
	return ChunkPosition{X: floorDiv(x, size), Y: floorDiv(y, size), Z: floorDiv(z, size)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Adjacency holds lookup keys to the loaded face neighbours. They are keys into the
// chunk store, never owning pointers.
type Adjacency struct {
	present [NumFaces]bool
	tracked bool
}

// Tracked reports whether a chunk store ever recorded links for this chunk.
// Chunks built outside a store are untracked.
func (a Adjacency) Tracked() bool { return a.tracked }

// Has reports whether the neighbour across f was linked.
func (a Adjacency) Has(f FaceDir) bool {
	return f < NumFaces && a.present[f]
}

// Count returns the number of linked neighbours.
func (a Adjacency) Count() int {
	n := 0
	for _, ok := range a.present {
		if ok {
			n++
		}
	}
	return n
}

// Chunk is a cubic block of cells. The voxel grid is fixed at construction and
// safe to read concurrently; the remaining state is guarded by mu.
type Chunk struct {
	Pos    ChunkPosition
	size   int
	voxels []Cell
	empty  bool

	mu        sync.RWMutex
	adjacency Adjacency
	visible   bool
	dirty     bool
}

// NewChunk wraps cells (length size³, indexed by Index) as the chunk at pos.
func NewChunk(pos ChunkPosition, size int, cells []Cell) *Chunk {
	if size <= 0 || len(cells) != size*size*size {
		panic(fmt.Sprintf("world: chunk %v given %d cells for size %d", pos, len(cells), size))
	}
	empty := true
	for _, c := range cells {
		if !c.IsEmpty() {
			empty = false
			break
		}
	}
	return &Chunk{
		Pos:    pos,
		size:   size,
		voxels: cells,
		empty:  empty,
		dirty:  true,
	}
}

// Size returns the side length.
func (c *Chunk) Size() int { return c.size }

// Index converts local coordinates into the flat voxel index. Coordinates outside
// the chunk mean a broken coordinate transform and panic.
func (c *Chunk) Index(x, y, z int) int {
	return cellIndex(c.size, x, y, z)
}

func cellIndex(size, x, y, z int) int {
	if x < 0 || x >= size || y < 0 || y >= size || z < 0 || z >= size {
		panic(fmt.Sprintf("world: cell (%d,%d,%d) outside chunk of size %d", x, y, z, size))
	}
	return x*size*size + y*size + z
}

// Contains reports whether local coordinates are inside the chunk.
func (c *Chunk) Contains(x, y, z int) bool {
	return x >= 0 && x < c.size && y >= 0 && y < c.size && z >= 0 && z < c.size
}

// Cell returns the cell at local coordinates.
func (c *Chunk) Cell(x, y, z int) Cell {
	return c.voxels[c.Index(x, y, z)]
}

// Voxels exposes the flat grid. Callers must not modify it.
func (c *Chunk) Voxels() []Cell { return c.voxels }

// IsEmpty reports whether every cell is empty.
func (c *Chunk) IsEmpty() bool { return c.empty }

// Adjacency returns a copy of the neighbour links.
func (c *Chunk) Adjacency() Adjacency {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adjacency
}

func (c *Chunk) setAdjacent(f FaceDir, present bool) {
	c.mu.Lock()
	c.adjacency.present[f] = present
	c.adjacency.tracked = true
	c.dirty = true
	c.mu.Unlock()
}

// Visible reports the result of the last visibility pass.
func (c *Chunk) Visible() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible
}

// SetVisible records the result of a visibility test.
func (c *Chunk) SetVisible(v bool) {
	c.mu.Lock()
	c.visible = v
	c.mu.Unlock()
}

// IsDirty returns whether the cached mesh is stale.
func (c *Chunk) IsDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// MarkDirty invalidates the cached mesh.
func (c *Chunk) MarkDirty() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}

// SetClean marks the mesh as current.
func (c *Chunk) SetClean() {
	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
}

// Bounds returns the world-space AABB of the chunk.
func (c *Chunk) Bounds() (min, max mgl32.Vec3) {
	min = c.Pos.OriginVec(c.size)
	s := float32(c.size)
	return min, min.Add(mgl32.Vec3{s, s, s})
}

// ChunkLookup resolves a position to a loaded chunk. Absence is a normal answer.
type ChunkLookup interface {
	Lookup(pos ChunkPosition) (*Chunk, bool)
}

// LookupFunc adapts a function to ChunkLookup.
type LookupFunc func(pos ChunkPosition) (*Chunk, bool)

// Lookup calls f.
func (f LookupFunc) Lookup(pos ChunkPosition) (*Chunk, bool) { return f(pos) }

// NoNeighbors is a lookup that never finds a chunk.
var NoNeighbors ChunkLookup = LookupFunc(func(ChunkPosition) (*Chunk, bool) { return nil, false })
