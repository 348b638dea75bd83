package world

import (
	"crypto/sha256"
	"testing"
)

// testTable mirrors the default terrain registry, indexed by the Block constants.
func testTable() *BlockTable {
	return NewBlockTable([]BlockProperties{
		BlockGrass:      {TextureID: 0, Mesh: MeshCube, Transparency: Opaque},
		BlockDirt:       {TextureID: 1, Mesh: MeshCube, Transparency: Opaque},
		BlockStone:      {TextureID: 2, Mesh: MeshCube, Transparency: Opaque},
		BlockSand:       {TextureID: 3, Mesh: MeshCube, Transparency: Opaque},
		BlockFlower:     {TextureID: 4, Mesh: MeshCross, Transparency: Transparent},
		BlockRareFlower: {TextureID: 5, Mesh: MeshCross, Transparency: Transparent},
		BlockWater:      {TextureID: 6, Mesh: MeshFluid, Transparency: Translucent},
	})
}

func testGenerator() *Generator {
	return NewGenerator(NewSampler(DefaultTerrainConfig()), testTable(), DefaultChunkSize)
}

// hashCells computes a SHA-256 hash of a classified grid
func hashCells(cells []Cell) [32]byte {
	h := sha256.New()
	for _, c := range cells {
		h.Write([]byte{byte(c.Kind), byte(c.Block), byte(c.Block >> 8)})
	}
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}

// TestGenerateDeterminism verifies repeated generation yields identical grids
func TestGenerateDeterminism(t *testing.T) {
	positions := []ChunkPosition{{0, 0, 0}, {1, 0, 0}, {0, 1, 1}, {-1, 0, -1}, {3, -1, -7}}
	for _, pos := range positions {
		first := hashCells(testGenerator().GenerateChunk(pos))
		for i := 0; i < 5; i++ {
			if got := hashCells(testGenerator().GenerateChunk(pos)); got != first {
				t.Errorf("chunk %v not deterministic on run %d", pos, i)
			}
		}
	}
}

// TestGenerateMatchesSampler verifies every non-empty cell holds the sampled block
func TestGenerateMatchesSampler(t *testing.T) {
	g := testGenerator()
	s := g.Sampler()
	n := g.ChunkSize()
	for _, pos := range []ChunkPosition{{0, 0, 0}, {-2, 0, 5}, {4, 1, -3}} {
		cells := g.GenerateChunk(pos)
		ox, oy, oz := pos.Origin(n)
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				for z := 0; z < n; z++ {
					c := cells[cellIndex(n, x, y, z)]
					b, ok := s.Block(float64(ox+x), float64(oy+y), float64(oz+z))
					if ok != !c.IsEmpty() || (ok && b != c.Block) {
						t.Fatalf("chunk %v cell (%d,%d,%d): sampler (%d,%v), grid %+v", pos, x, y, z, b, ok, c)
					}
				}
			}
		}
	}
}

// TestGenerateHighAltitudeEmpty verifies chunks above every surface are empty
func TestGenerateHighAltitudeEmpty(t *testing.T) {
	c := testGenerator().Populate(ChunkPosition{X: 0, Y: 100, Z: 0})
	if !c.IsEmpty() {
		t.Fatalf("expected empty chunk at high altitude")
	}
	for i, cell := range c.Voxels() {
		if cell.Kind != CellEmpty {
			t.Fatalf("cell %d is %v", i, cell.Kind)
		}
	}
}

// TestGenerateDeepChunkCullsInterior verifies a fully solid chunk keeps only its shell
func TestGenerateDeepChunkCullsInterior(t *testing.T) {
	g := testGenerator()
	n := g.ChunkSize()
	cells := g.GenerateChunk(ChunkPosition{X: 0, Y: -100, Z: 0})

	var visible, obscured int
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				c := cells[cellIndex(n, x, y, z)]
				onBoundary := x == 0 || y == 0 || z == 0 || x == n-1 || y == n-1 || z == n-1
				switch {
				case onBoundary && c.Kind != CellBorderVisible:
					t.Fatalf("boundary cell (%d,%d,%d) is %v", x, y, z, c.Kind)
				case !onBoundary && c.Kind != CellObscured:
					t.Fatalf("interior cell (%d,%d,%d) is %v", x, y, z, c.Kind)
				}
				if c.Kind == CellBorderVisible {
					visible++
				} else {
					obscured++
				}
			}
		}
	}
	inner := (n - 2) * (n - 2) * (n - 2)
	if obscured != inner || visible != n*n*n-inner {
		t.Errorf("got %d visible / %d obscured, want %d / %d", visible, obscured, n*n*n-inner, inner)
	}
}

func TestTagByMeshType(t *testing.T) {
	g := testGenerator()
	tests := []struct {
		block Block
		want  CellKind
	}{
		{BlockGrass, CellBorderVisible},
		{BlockStone, CellBorderVisible},
		{BlockSand, CellBorderVisible},
		{BlockFlower, CellAlwaysVisible},
		{BlockRareFlower, CellAlwaysVisible},
		{BlockWater, CellBorderVisibleFluid},
	}
	for _, tt := range tests {
		if got := g.tag(tt.block); got.Kind != tt.want || got.Block != tt.block {
			t.Errorf("tag(%d) = %+v, want kind %v", tt.block, got, tt.want)
		}
	}
}

func solidGrid(n int) []Cell {
	cells := make([]Cell, n*n*n)
	for i := range cells {
		cells[i] = Cell{Kind: CellBorderVisible, Block: BlockStone}
	}
	return cells
}

func TestCullInteriorNeighbours(t *testing.T) {
	const n = 5
	center := cellIndex(n, 2, 2, 2)

	cells := solidGrid(n)
	cullInterior(cells, n)
	if cells[center].Kind != CellObscured {
		t.Fatalf("enclosed centre is %v", cells[center].Kind)
	}

	// A fluid neighbour leaves the face exposed.
	cells = solidGrid(n)
	cells[cellIndex(n, 2, 3, 2)] = Cell{Kind: CellBorderVisibleFluid, Block: BlockWater}
	cullInterior(cells, n)
	if cells[center].Kind != CellBorderVisible {
		t.Errorf("centre under water is %v, want border-visible", cells[center].Kind)
	}

	// An empty neighbour too.
	cells = solidGrid(n)
	cells[cellIndex(n, 1, 2, 2)] = EmptyCell
	cullInterior(cells, n)
	if cells[center].Kind != CellBorderVisible {
		t.Errorf("centre next to air is %v, want border-visible", cells[center].Kind)
	}

	// Cross sprites obscure like solids.
	cells = solidGrid(n)
	cells[cellIndex(n, 2, 2, 3)] = Cell{Kind: CellAlwaysVisible, Block: BlockFlower}
	cullInterior(cells, n)
	if cells[center].Kind != CellObscured {
		t.Errorf("centre next to flower is %v, want obscured", cells[center].Kind)
	}
}

func BenchmarkGenerateChunk(b *testing.B) {
	g := testGenerator()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.GenerateChunk(ChunkPosition{X: i % 8, Y: 0, Z: i / 8 % 8})
	}
}
