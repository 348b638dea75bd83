package meshing

import (
	"terramesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// FluidSurfaceDrop lowers the top face of fluid cells below the cell ceiling.
const FluidSurfaceDrop = 0.125

// Unit-cube corners per face, ordered bottom-left, bottom-right, top-right,
// top-left as seen from outside.
var faceCorners = [world.NumFaces][4]mgl32.Vec3{
	world.FaceFront:  {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	world.FaceRight:  {{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	world.FaceBack:   {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	world.FaceLeft:   {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	world.FaceTop:    {{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}},
	world.FaceBottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
}

// fluidTop is the top face lowered by FluidSurfaceDrop.
var fluidTop = func() [4]mgl32.Vec3 {
	c := faceCorners[world.FaceTop]
	for i := range c {
		c[i][1] -= FluidSurfaceDrop
	}
	return c
}()

// The two diagonal planes of a cross sprite.
var crossCorners = [2][4]mgl32.Vec3{
	{{0, 0, 0}, {1, 0, 1}, {1, 1, 1}, {0, 1, 0}},
	{{0, 0, 1}, {1, 0, 0}, {1, 1, 0}, {0, 1, 1}},
}
