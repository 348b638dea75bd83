package meshing

import (
	"fmt"

	"terramesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Rect is a UV rectangle. V grows downwards, so V0 is the top edge.
type Rect struct {
	U0, V0, U1, V1 float32
}

// corners returns UVs matching the bottom-left, bottom-right, top-right, top-left
// corner order of the face tables.
func (r Rect) corners() [4]mgl32.Vec2 {
	return [4]mgl32.Vec2{
		{r.U0, r.V1},
		{r.U1, r.V1},
		{r.U1, r.V0},
		{r.U0, r.V0},
	}
}

// Each atlas tile is split into a 3x2 grid, one cell per face direction.
const (
	faceGridCols = 3
	faceGridRows = 2
)

// Atlas maps texture ids to tiles laid out row-major in a Columns x Rows grid.
type Atlas struct {
	Columns int
	Rows    int
}

// NewAtlas validates the grid dimensions.
func NewAtlas(columns, rows int) (Atlas, error) {
	if columns <= 0 || rows <= 0 {
		return Atlas{}, fmt.Errorf("atlas grid %dx%d must be positive", columns, rows)
	}
	return Atlas{Columns: columns, Rows: rows}, nil
}

// Capacity returns the number of tiles.
func (a Atlas) Capacity() int { return a.Columns * a.Rows }

// Tile returns the full UV rectangle of texture id tex.
func (a Atlas) Tile(tex uint32) Rect {
	if int(tex) >= a.Capacity() {
		panic(fmt.Sprintf("meshing: texture %d outside %dx%d atlas", tex, a.Columns, a.Rows))
	}
	w := 1 / float32(a.Columns)
	h := 1 / float32(a.Rows)
	col := float32(int(tex) % a.Columns)
	row := float32(int(tex) / a.Columns)
	return Rect{U0: col * w, V0: row * h, U1: (col + 1) * w, V1: (row + 1) * h}
}

// FaceRect returns the sub-rectangle of tex used for face f. Cross sprites use
// the front cell.
func (a Atlas) FaceRect(tex uint32, f world.FaceDir) Rect {
	tile := a.Tile(tex)
	slot := int(f)
	if f >= world.NumFaces {
		slot = int(world.FaceFront)
	}
	w := (tile.U1 - tile.U0) / faceGridCols
	h := (tile.V1 - tile.V0) / faceGridRows
	u0 := tile.U0 + float32(slot%faceGridCols)*w
	v0 := tile.V0 + float32(slot/faceGridCols)*h
	return Rect{U0: u0, V0: v0, U1: u0 + w, V1: v0 + h}
}
