package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Block indexes into a BlockTable.
type Block uint16

// Terrain blocks produced by the sampler.
const (
	BlockGrass Block = iota
	BlockDirt
	BlockStone
	BlockSand
	BlockFlower
	BlockRareFlower
	BlockWater
)

// MeshType selects the geometric template used for a block.
type MeshType uint8

const (
	MeshCube MeshType = iota
	MeshCross
	MeshFluid
)

func (m MeshType) String() string {
	switch m {
	case MeshCube:
		return "cube"
	case MeshCross:
		return "cross"
	case MeshFluid:
		return "fluid"
	default:
		return fmt.Sprintf("mesh(%d)", uint8(m))
	}
}

// Transparency selects the render stream a block's faces go to.
type Transparency uint8

const (
	Opaque Transparency = iota
	Transparent
	Translucent

	NumTransparency = 3
)

// ParseMeshType resolves a mesh type name as produced by String.
func ParseMeshType(s string) (MeshType, error) {
	for _, m := range []MeshType{MeshCube, MeshCross, MeshFluid} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mesh type %q", s)
}

func (t Transparency) String() string {
	switch t {
	case Opaque:
		return "opaque"
	case Transparent:
		return "transparent"
	case Translucent:
		return "translucent"
	default:
		return fmt.Sprintf("transparency(%d)", uint8(t))
	}
}

// ParseTransparency resolves a transparency name as produced by String.
func ParseTransparency(s string) (Transparency, error) {
	for t := Transparency(0); t < NumTransparency; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown transparency %q", s)
}

// BlockProperties is the shared read-only description of a block.
type BlockProperties struct {
	TextureID    uint32
	Mesh         MeshType
	Transparency Transparency
}

// BlockTable maps block ids to their properties. It is never mutated after construction.
type BlockTable struct {
	props []BlockProperties
}

// NewBlockTable copies props into a new table indexed by block id.
func NewBlockTable(props []BlockProperties) *BlockTable {
	cp := make([]BlockProperties, len(props))
	copy(cp, props)
	return &BlockTable{props: cp}
}

// Len returns the number of registered block ids.
func (t *BlockTable) Len() int { return len(t.props) }

// Properties returns the properties for b. Unknown ids are a programmer error.
func (t *BlockTable) Properties(b Block) BlockProperties {
	if int(b) >= len(t.props) {
		panic(fmt.Sprintf("world: block %d not in table of %d entries", b, len(t.props)))
	}
	return t.props[b]
}

// FaceDir identifies one of the six axis-aligned faces of a cell.
type FaceDir uint8

const (
	FaceFront  FaceDir = iota // +Z
	FaceRight                 // +X
	FaceBack                  // -Z
	FaceLeft                  // -X
	FaceTop                   // +Y
	FaceBottom                // -Y

	// FaceCross tags vertices of cross-shaped sprites, which have no axis normal.
	FaceCross
)

// NumFaces is the number of axis-aligned faces.
const NumFaces = 6

// Faces lists the axis-aligned faces in emission order.
var Faces = [NumFaces]FaceDir{FaceFront, FaceRight, FaceBack, FaceLeft, FaceTop, FaceBottom}

var faceOffsets = [NumFaces][3]int{
	FaceFront:  {0, 0, 1},
	FaceRight:  {1, 0, 0},
	FaceBack:   {0, 0, -1},
	FaceLeft:   {-1, 0, 0},
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
}

// Offset returns the unit step towards the neighbour across the face.
func (f FaceDir) Offset() (dx, dy, dz int) {
	o := faceOffsets[f]
	return o[0], o[1], o[2]
}

// Normal returns the outward normal of the face.
func (f FaceDir) Normal() mgl32.Vec3 {
	if f >= NumFaces {
		return mgl32.Vec3{}
	}
	o := faceOffsets[f]
	return mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}
}

// Opposite returns the face pointing the other way.
func (f FaceDir) Opposite() FaceDir {
	switch f {
	case FaceFront:
		return FaceBack
	case FaceBack:
		return FaceFront
	case FaceRight:
		return FaceLeft
	case FaceLeft:
		return FaceRight
	case FaceTop:
		return FaceBottom
	case FaceBottom:
		return FaceTop
	}
	return f
}

func (f FaceDir) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceRight:
		return "right"
	case FaceBack:
		return "back"
	case FaceLeft:
		return "left"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceCross:
		return "cross"
	}
	return fmt.Sprintf("face(%d)", uint8(f))
}
