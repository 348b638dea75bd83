package meshing

import (
	"terramesh/internal/profiling"
	"terramesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Builder converts classified chunks into per-transparency geometry. It holds
// only read-only tables and may be shared between goroutines.
type Builder struct {
	table *world.BlockTable
	atlas Atlas
}

// NewBuilder creates a builder over the block table and atlas layout.
func NewBuilder(table *world.BlockTable, atlas Atlas) *Builder {
	return &Builder{table: table, atlas: atlas}
}

// Build emits the visible faces of c. Neighbour chunks are resolved through the
// chunk's adjacency and lookup; an unresolved neighbour culls the border face.
// Chunks never linked by a ChunkStore resolve every face through lookup alone.
func (b *Builder) Build(c *world.Chunk, lookup world.ChunkLookup) *ChunkMesh {
	defer profiling.Track("meshing.Build")()

	mesh := &ChunkMesh{Pos: c.Pos}
	if c.IsEmpty() {
		return mesh
	}
	if lookup == nil {
		lookup = world.NoNeighbors
	}

	n := c.Size()
	adj := c.Adjacency()
	var neighbours [world.NumFaces]*world.Chunk
	for _, f := range world.Faces {
		if adj.Tracked() && !adj.Has(f) {
			continue
		}
		if nb, ok := lookup.Lookup(c.Pos.Neighbor(f)); ok && nb.Size() == n {
			neighbours[f] = nb
		}
	}

	originX, originY, originZ := c.Pos.Origin(n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				cell := c.Cell(x, y, z)
				switch cell.Kind {
				case world.CellEmpty, world.CellObscured:
					continue
				}

				props := b.table.Properties(cell.Block)
				s := mesh.Stream(props.Transparency)
				origin := mgl32.Vec3{float32(originX + x), float32(originY + y), float32(originZ + z)}

				switch cell.Kind {
				case world.CellAlwaysVisible:
					b.emitCross(s, origin, props.TextureID)
				case world.CellBorderVisible:
					for _, f := range world.Faces {
						if cubeFaceVisible(c, &neighbours, x, y, z, f) {
							s.emitQuad(origin, &faceCorners[f], b.atlas.FaceRect(props.TextureID, f), f)
						}
					}
				case world.CellBorderVisibleFluid:
					for _, f := range world.Faces {
						if !fluidFaceVisible(c, x, y, z, f) {
							continue
						}
						corners := &faceCorners[f]
						if f == world.FaceTop {
							corners = &fluidTop
						}
						s.emitQuad(origin, corners, b.atlas.FaceRect(props.TextureID, f), f)
					}
				}
			}
		}
	}
	return mesh
}

func (b *Builder) emitCross(s *Stream, origin mgl32.Vec3, tex uint32) {
	r := b.atlas.FaceRect(tex, world.FaceCross)
	for i := range crossCorners {
		s.emitQuad(origin, &crossCorners[i], r, world.FaceCross)
	}
}

// cubeFaceVisible applies the solid rule: the face shows unless the neighbour is
// a non-empty, non-fluid cell. Across the border the neighbour chunk decides and
// a missing chunk culls.
func cubeFaceVisible(c *world.Chunk, neighbours *[world.NumFaces]*world.Chunk, x, y, z int, f world.FaceDir) bool {
	dx, dy, dz := f.Offset()
	nx, ny, nz := x+dx, y+dy, z+dz
	if c.Contains(nx, ny, nz) {
		return !c.Cell(nx, ny, nz).Obscures()
	}
	nb := neighbours[f]
	if nb == nil {
		return false
	}
	n := c.Size()
	return !nb.Cell(wrap(nx, n), wrap(ny, n), wrap(nz, n)).Obscures()
}

// fluidFaceVisible applies the fluid rule: only fluid or solid neighbours hide
// the face, and border faces are always culled.
func fluidFaceVisible(c *world.Chunk, x, y, z int, f world.FaceDir) bool {
	dx, dy, dz := f.Offset()
	nx, ny, nz := x+dx, y+dy, z+dz
	if !c.Contains(nx, ny, nz) {
		return false
	}
	return !c.Cell(nx, ny, nz).ObscuresFluid()
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}
