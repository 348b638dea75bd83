package world

import (
	"terramesh/internal/profiling"
)

// Generator turns chunk positions into classified voxel grids.
type Generator struct {
	sampler *Sampler
	table   *BlockTable
	size    int
}

// NewGenerator creates a generator producing chunks of side size.
func NewGenerator(sampler *Sampler, table *BlockTable, size int) *Generator {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Generator{sampler: sampler, table: table, size: size}
}

// ChunkSize returns the side length of generated chunks.
func (g *Generator) ChunkSize() int { return g.size }

// Sampler returns the terrain sampler.
func (g *Generator) Sampler() *Sampler { return g.sampler }

// Populate generates the chunk at pos.
func (g *Generator) Populate(pos ChunkPosition) *Chunk {
	return NewChunk(pos, g.size, g.GenerateChunk(pos))
}

// GenerateChunk classifies every cell of the chunk at pos.
func (g *Generator) GenerateChunk(pos ChunkPosition) []Cell {
	defer profiling.Track("world.GenerateChunk")()

	n := g.size
	cells := make([]Cell, n*n*n)
	ox, oy, oz := pos.Origin(n)

	// The chunk is all air when it starts above every column's ceiling.
	if _, hi := g.sampler.ceilingRange(ox, oz, n); float64(oy) >= hi {
		return cells
	}

	cols := make([]ColumnSample, n*n)
	for lx := 0; lx < n; lx++ {
		for lz := 0; lz < n; lz++ {
			cols[lx*n+lz] = g.sampler.Column(float64(ox+lx), float64(oz+lz))
		}
	}

	for lx := 0; lx < n; lx++ {
		for lz := 0; lz < n; lz++ {
			col := cols[lx*n+lz]
			for ly := 0; ly < n; ly++ {
				b, ok := g.sampler.Classify(float64(oy+ly), col)
				if !ok {
					continue
				}
				cells[cellIndex(n, lx, ly, lz)] = g.tag(b)
			}
		}
	}

	g.cullInterior(cells)
	return cells
}

// tag assigns the occlusion class implied by the block's mesh type.
func (g *Generator) tag(b Block) Cell {
	switch g.table.Properties(b).Mesh {
	case MeshFluid:
		return Cell{Kind: CellBorderVisibleFluid, Block: b}
	case MeshCross:
		return Cell{Kind: CellAlwaysVisible, Block: b}
	default:
		return Cell{Kind: CellBorderVisible, Block: b}
	}
}

// cullInterior downgrades interior solid cells whose six neighbours all obscure
// them. Cells on the chunk boundary keep CellBorderVisible so the mesher can
// resolve them against neighbouring chunks.
func (g *Generator) cullInterior(cells []Cell) {
	cullInterior(cells, g.size)
}

func cullInterior(cells []Cell, n int) {
	for x := 1; x < n-1; x++ {
		for y := 1; y < n-1; y++ {
			for z := 1; z < n-1; z++ {
				i := cellIndex(n, x, y, z)
				if cells[i].Kind != CellBorderVisible {
					continue
				}
				enclosed := true
				for _, f := range Faces {
					dx, dy, dz := f.Offset()
					if !cells[cellIndex(n, x+dx, y+dy, z+dz)].Obscures() {
						enclosed = false
						break
					}
				}
				if enclosed {
					cells[i].Kind = CellObscured
				}
			}
		}
	}
}
