package meshing

import (
	"testing"

	"terramesh/internal/registry"
	"terramesh/internal/world"
)

var (
	stone  = world.Cell{Kind: world.CellBorderVisible, Block: world.BlockStone}
	water  = world.Cell{Kind: world.CellBorderVisibleFluid, Block: world.BlockWater}
	flower = world.Cell{Kind: world.CellAlwaysVisible, Block: world.BlockFlower}
)

type cellAt struct {
	x, y, z int
	cell    world.Cell
}

func testBuilder(tb testing.TB) *Builder {
	tb.Helper()
	table, err := registry.Default().Table()
	if err != nil {
		tb.Fatalf("registry table: %v", err)
	}
	return NewBuilder(table, Atlas{Columns: 4, Rows: 2})
}

func makeChunk(pos world.ChunkPosition, n int, cells ...cellAt) *world.Chunk {
	grid := make([]world.Cell, n*n*n)
	for _, c := range cells {
		grid[c.x*n*n+c.y*n+c.z] = c.cell
	}
	return world.NewChunk(pos, n, grid)
}
