package meshing

import (
	"fmt"

	"terramesh/internal/profiling"
	"terramesh/internal/world"

	"golang.org/x/exp/slices"
)

// Filter selects the chunks that take part in aggregation.
type Filter func(*world.Chunk) bool

// Buffers are the concatenated draw streams. Each stream has its own index space.
type Buffers struct {
	Opaque      Stream
	Transparent Stream
	Translucent Stream
	Chunks      int // meshes that contributed
}

// Stream returns the buffer for transparency class t.
func (b *Buffers) Stream(t world.Transparency) *Stream {
	switch t {
	case world.Transparent:
		return &b.Transparent
	case world.Translucent:
		return &b.Translucent
	default:
		return &b.Opaque
	}
}

func (b *Buffers) String() string {
	return fmt.Sprintf("%d chunks, faces opaque=%d transparent=%d translucent=%d",
		b.Chunks, b.Opaque.Faces, b.Transparent.Faces, b.Translucent.Faces)
}

// Aggregate concatenates the meshes of the chunks accepted by filter, ordered by
// chunk position. A nil filter keeps chunks marked visible. Chunks without a mesh
// are skipped.
func Aggregate(chunks []*world.Chunk, meshes MeshSource, filter Filter) Buffers {
	defer profiling.Track("meshing.Aggregate")()
	if filter == nil {
		filter = (*world.Chunk).Visible
	}

	selected := make([]*world.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if filter(c) {
			selected = append(selected, c)
		}
	}
	slices.SortStableFunc(selected, func(a, b *world.Chunk) int {
		return a.Pos.Compare(b.Pos)
	})

	var out Buffers
	for _, c := range selected {
		m, ok := meshes.Mesh(c.Pos)
		if !ok {
			continue
		}
		for t := world.Transparency(0); t < world.NumTransparency; t++ {
			out.Stream(t).appendStream(m.Stream(t))
		}
		out.Chunks++
	}
	return out
}
