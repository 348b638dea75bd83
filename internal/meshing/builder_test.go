package meshing

import (
	"reflect"
	"testing"

	"terramesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSingleCubeFaces(t *testing.T) {
	c := makeChunk(world.ChunkPosition{X: 1, Y: 0, Z: -1}, 4, cellAt{1, 1, 1, stone})
	mesh := testBuilder(t).Build(c, world.NoNeighbors)

	s := mesh.Stream(world.Opaque)
	if s.Faces != 6 || len(s.Vertices) != 24 || len(s.Indices) != 36 {
		t.Fatalf("got %d faces, %d vertices, %d indices; want 6/24/36", s.Faces, len(s.Vertices), len(s.Indices))
	}
	if mesh.Stream(world.Transparent).Faces != 0 || mesh.Stream(world.Translucent).Faces != 0 {
		t.Errorf("stone leaked into other streams: %v", mesh)
	}
	for q := 0; q < 6; q++ {
		for i, want := range quadIndices {
			if got := s.Indices[q*6+i]; got != want+uint32(4*q) {
				t.Fatalf("quad %d index %d = %d, want %d", q, i, got, want+uint32(4*q))
			}
		}
	}
	// World-space: origin (4,0,-4) plus local (1,1,1).
	for _, v := range s.Vertices {
		if v.Pos.X() < 5 || v.Pos.X() > 6 || v.Pos.Y() < 1 || v.Pos.Y() > 2 || v.Pos.Z() < -3 || v.Pos.Z() > -2 {
			t.Fatalf("vertex %v outside the cell", v.Pos)
		}
	}
}

func TestQuadWindingFacesOutward(t *testing.T) {
	c := makeChunk(world.ChunkPosition{}, 4, cellAt{1, 1, 1, stone}, cellAt{2, 2, 2, water})
	mesh := testBuilder(t).Build(c, world.NoNeighbors)

	for _, tr := range []world.Transparency{world.Opaque, world.Translucent} {
		s := mesh.Stream(tr)
		for q := 0; q < s.Faces; q++ {
			v0 := s.Vertices[s.Indices[q*6]]
			v1 := s.Vertices[s.Indices[q*6+1]]
			v2 := s.Vertices[s.Indices[q*6+2]]
			n := v1.Pos.Sub(v0.Pos).Cross(v2.Pos.Sub(v0.Pos)).Normalize()
			if !n.ApproxEqual(v0.Face.Normal()) {
				t.Errorf("%v quad %d (%v) has normal %v", tr, q, v0.Face, n)
			}
		}
	}
}

func TestAdjacentCubesShareNoFaces(t *testing.T) {
	c := makeChunk(world.ChunkPosition{}, 4, cellAt{1, 1, 1, stone}, cellAt{2, 1, 1, stone})
	if got := testBuilder(t).Build(c, world.NoNeighbors).Stream(world.Opaque).Faces; got != 10 {
		t.Errorf("two touching cubes: %d faces, want 10", got)
	}
}

func TestObscuredCellEmitsNothing(t *testing.T) {
	c := makeChunk(world.ChunkPosition{}, 4, cellAt{1, 1, 1, world.Cell{Kind: world.CellObscured, Block: world.BlockStone}})
	if mesh := testBuilder(t).Build(c, world.NoNeighbors); !mesh.IsEmpty() {
		t.Errorf("obscured cell produced %v", mesh)
	}
}

func TestBorderFaceNeedsNeighbour(t *testing.T) {
	b := testBuilder(t)
	pos := world.ChunkPosition{}
	edge := cellAt{3, 1, 1, stone}

	// No neighbour chunk: the +X face is culled.
	alone := makeChunk(pos, 4, edge)
	if got := b.Build(alone, world.NoNeighbors).Stream(world.Opaque).Faces; got != 5 {
		t.Errorf("without neighbour: %d faces, want 5", got)
	}

	// Empty neighbour: the face shows.
	store := world.NewChunkStore()
	a := makeChunk(pos, 4, edge)
	store.AddChunk(a)
	store.AddChunk(makeChunk(pos.Neighbor(world.FaceRight), 4))
	if got := b.Build(a, store).Stream(world.Opaque).Faces; got != 6 {
		t.Errorf("with empty neighbour: %d faces, want 6", got)
	}

	// Linked but the lookup fails: treated as absent.
	if got := b.Build(a, world.NoNeighbors).Stream(world.Opaque).Faces; got != 5 {
		t.Errorf("with failed lookup: %d faces, want 5", got)
	}

	// Solid neighbour cell across the border hides the face.
	store = world.NewChunkStore()
	a = makeChunk(pos, 4, edge)
	store.AddChunk(a)
	store.AddChunk(makeChunk(pos.Neighbor(world.FaceRight), 4, cellAt{0, 1, 1, stone}))
	if got := b.Build(a, store).Stream(world.Opaque).Faces; got != 5 {
		t.Errorf("with solid neighbour: %d faces, want 5", got)
	}
}

func TestBorderWithCustomLookup(t *testing.T) {
	b := testBuilder(t)
	pos := world.ChunkPosition{}
	a := makeChunk(pos, 4, cellAt{3, 1, 1, stone})
	right := makeChunk(pos.Neighbor(world.FaceRight), 4)
	lookup := world.LookupFunc(func(p world.ChunkPosition) (*world.Chunk, bool) {
		if p == right.Pos {
			return right, true
		}
		return nil, false
	})

	// Unlinked chunks take the lookup's answer as is.
	if got := b.Build(a, lookup).Stream(world.Opaque).Faces; got != 6 {
		t.Errorf("custom lookup with empty neighbour: %d faces, want 6", got)
	}

	solid := makeChunk(pos.Neighbor(world.FaceRight), 4, cellAt{0, 1, 1, stone})
	hide := world.LookupFunc(func(p world.ChunkPosition) (*world.Chunk, bool) {
		return solid, p == solid.Pos
	})
	if got := b.Build(a, hide).Stream(world.Opaque).Faces; got != 5 {
		t.Errorf("custom lookup with solid neighbour: %d faces, want 5", got)
	}

	// Once a store links the chunk, adjacency gates the lookup again.
	store := world.NewChunkStore()
	store.AddChunk(a)
	store.AddChunk(makeChunk(pos.Neighbor(world.FaceTop), 4))
	if got := b.Build(a, lookup).Stream(world.Opaque).Faces; got != 5 {
		t.Errorf("store-linked chunk without +X link: %d faces, want 5", got)
	}
}

func TestBorderBelowOrigin(t *testing.T) {
	b := testBuilder(t)
	store := world.NewChunkStore()
	pos := world.ChunkPosition{X: 0, Y: 0, Z: 0}
	a := makeChunk(pos, 4, cellAt{2, 0, 2, stone})
	store.AddChunk(a)
	store.AddChunk(makeChunk(pos.Neighbor(world.FaceBottom), 4, cellAt{2, 3, 2, water}))

	// Water does not hide cube faces, so the bottom face shows.
	mesh := b.Build(a, store)
	if got := mesh.Stream(world.Opaque).Faces; got != 6 {
		t.Errorf("cube above water: %d faces, want 6", got)
	}
}

func TestFluidFaces(t *testing.T) {
	b := testBuilder(t)

	single := b.Build(makeChunk(world.ChunkPosition{}, 4, cellAt{1, 1, 1, water}), world.NoNeighbors)
	s := single.Stream(world.Translucent)
	if s.Faces != 6 || len(s.Vertices) != 24 || len(s.Indices) != 36 {
		t.Fatalf("single water: %d faces, %d vertices, %d indices", s.Faces, len(s.Vertices), len(s.Indices))
	}
	for _, v := range s.Vertices {
		if v.Face == world.FaceTop && v.Pos.Y() != 2-FluidSurfaceDrop {
			t.Errorf("fluid top at y=%v, want %v", v.Pos.Y(), 2-FluidSurfaceDrop)
		}
	}

	pool := b.Build(makeChunk(world.ChunkPosition{}, 4, cellAt{1, 1, 1, water}, cellAt{2, 1, 1, water}), world.NoNeighbors)
	if got := pool.Stream(world.Translucent).Faces; got != 10 {
		t.Errorf("two water cells: %d faces, want 10", got)
	}

	// Water against stone: the water face is hidden, the stone face is not.
	shore := b.Build(makeChunk(world.ChunkPosition{}, 4, cellAt{1, 1, 1, water}, cellAt{2, 1, 1, stone}), world.NoNeighbors)
	if got := shore.Stream(world.Translucent).Faces; got != 5 {
		t.Errorf("water next to stone: %d water faces, want 5", got)
	}
	if got := shore.Stream(world.Opaque).Faces; got != 6 {
		t.Errorf("stone next to water: %d stone faces, want 6", got)
	}

	// Flowers do not hide water.
	pond := b.Build(makeChunk(world.ChunkPosition{}, 4, cellAt{1, 1, 1, water}, cellAt{1, 2, 1, flower}), world.NoNeighbors)
	if got := pond.Stream(world.Translucent).Faces; got != 6 {
		t.Errorf("water under flower: %d water faces, want 6", got)
	}
}

func TestFluidBorderAlwaysCulled(t *testing.T) {
	b := testBuilder(t)
	store := world.NewChunkStore()
	pos := world.ChunkPosition{}
	a := makeChunk(pos, 4, cellAt{3, 1, 1, water})
	store.AddChunk(a)
	store.AddChunk(makeChunk(pos.Neighbor(world.FaceRight), 4))

	if got := b.Build(a, store).Stream(world.Translucent).Faces; got != 5 {
		t.Errorf("water on border: %d faces, want 5", got)
	}
}

func TestCrossSprite(t *testing.T) {
	b := testBuilder(t)
	// Enclosed in stone on every side: still two quads.
	cells := []cellAt{{2, 2, 2, flower}}
	for _, f := range world.Faces {
		dx, dy, dz := f.Offset()
		cells = append(cells, cellAt{2 + dx, 2 + dy, 2 + dz, stone})
	}
	mesh := b.Build(makeChunk(world.ChunkPosition{}, 5, cells...), world.NoNeighbors)

	s := mesh.Stream(world.Transparent)
	if s.Faces != 2 || len(s.Vertices) != 8 || len(s.Indices) != 12 {
		t.Fatalf("cross: %d faces, %d vertices, %d indices; want 2/8/12", s.Faces, len(s.Vertices), len(s.Indices))
	}
	for _, v := range s.Vertices {
		if v.Face != world.FaceCross {
			t.Errorf("cross vertex tagged %v", v.Face)
		}
	}
	// Every stone face towards the flower is hidden.
	if got := mesh.Stream(world.Opaque).Faces; got != 6*5 {
		t.Errorf("stone ring: %d faces, want 30", got)
	}
}

func TestFaceUVsUseSubRects(t *testing.T) {
	b := testBuilder(t)
	mesh := b.Build(makeChunk(world.ChunkPosition{}, 4, cellAt{1, 1, 1, stone}), world.NoNeighbors)
	s := mesh.Stream(world.Opaque)
	tex := b.table.Properties(world.BlockStone).TextureID
	for q := 0; q < s.Faces; q++ {
		v := s.Vertices[q*4]
		r := b.atlas.FaceRect(tex, v.Face)
		if v.UV != (mgl32.Vec2{r.U0, r.V1}) {
			t.Errorf("face %v first UV %v, want %v", v.Face, v.UV, mgl32.Vec2{r.U0, r.V1})
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	table := testBuilder(t).table
	gen := world.NewGenerator(world.NewSampler(world.DefaultTerrainConfig()), table, 16)
	store := world.NewChunkStore()
	for _, pos := range []world.ChunkPosition{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: -1, Z: 0}} {
		store.AddChunk(gen.Populate(pos))
	}
	c, _ := store.Lookup(world.ChunkPosition{})

	first := testBuilder(t).Build(c, store)
	second := testBuilder(t).Build(c, store)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("meshing not deterministic")
	}
}

func BenchmarkBuild(b *testing.B) {
	table := testBuilder(b).table
	gen := world.NewGenerator(world.NewSampler(world.DefaultTerrainConfig()), table, 16)
	store := world.NewChunkStore()
	for _, f := range world.Faces {
		store.AddChunk(gen.Populate(world.ChunkPosition{}.Neighbor(f)))
	}
	c := gen.Populate(world.ChunkPosition{})
	store.AddChunk(c)
	builder := testBuilder(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = builder.Build(c, store)
	}
}
