package meshing

import (
	"fmt"

	"terramesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one corner of an emitted quad, in world space.
type Vertex struct {
	Pos  mgl32.Vec3
	UV   mgl32.Vec2
	Face world.FaceDir
}

// Two triangles per quad, counter-clockwise when seen from outside.
var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// Stream is an indexed triangle list. Faces counts emitted quads; every quad owns
// four consecutive vertices.
type Stream struct {
	Vertices []Vertex
	Indices  []uint32
	Faces    int
}

// emitQuad appends a quad whose corners are given relative to origin.
func (s *Stream) emitQuad(origin mgl32.Vec3, corners *[4]mgl32.Vec3, r Rect, face world.FaceDir) {
	base := uint32(s.Faces * 4)
	uvs := r.corners()
	for i, c := range corners {
		s.Vertices = append(s.Vertices, Vertex{Pos: origin.Add(c), UV: uvs[i], Face: face})
	}
	for _, i := range quadIndices {
		s.Indices = append(s.Indices, base+i)
	}
	s.Faces++
}

// appendStream adds src to s, shifting its indices past the faces already in s.
func (s *Stream) appendStream(src *Stream) {
	base := uint32(s.Faces * 4)
	s.Vertices = append(s.Vertices, src.Vertices...)
	for _, i := range src.Indices {
		s.Indices = append(s.Indices, base+i)
	}
	s.Faces += src.Faces
}

// ChunkMesh is the geometry of one chunk split by transparency class.
type ChunkMesh struct {
	Pos     world.ChunkPosition
	Streams [world.NumTransparency]Stream
}

// Stream returns the stream for transparency class t.
func (m *ChunkMesh) Stream(t world.Transparency) *Stream {
	return &m.Streams[t]
}

// Faces returns the number of quads over all streams.
func (m *ChunkMesh) Faces() int {
	n := 0
	for i := range m.Streams {
		n += m.Streams[i].Faces
	}
	return n
}

// IsEmpty reports whether the mesh holds no geometry.
func (m *ChunkMesh) IsEmpty() bool { return m.Faces() == 0 }

func (m *ChunkMesh) String() string {
	return fmt.Sprintf("mesh%v[opaque=%d transparent=%d translucent=%d]",
		m.Pos, m.Streams[world.Opaque].Faces, m.Streams[world.Transparent].Faces, m.Streams[world.Translucent].Faces)
}
