package visibility

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMargin inflates AABBs before testing, in blocks.
const DefaultMargin float32 = 1.0

type plane struct {
	a, b, c, d float32
}

// Frustum is a set of six clip planes with normals pointing inwards.
type Frustum struct {
	planes [6]plane
	Margin float32
}

// NewFrustum builds six planes from the combined projection*view matrix.
// Planes are stored in order: left, right, bottom, top, near, far.
func NewFrustum(clip mgl32.Mat4) Frustum {
	// Matrix is in column-major order in mgl32
	m00, m01, m02, m03 := clip[0], clip[4], clip[8], clip[12]
	m10, m11, m12, m13 := clip[1], clip[5], clip[9], clip[13]
	m20, m21, m22, m23 := clip[2], clip[6], clip[10], clip[14]
	m30, m31, m32, m33 := clip[3], clip[7], clip[11], clip[15]

	f := Frustum{Margin: DefaultMargin}
	// Left  = m3 + m0
	f.planes[0] = normalizePlane(plane{m30 + m00, m31 + m01, m32 + m02, m33 + m03})
	// Right = m3 - m0
	f.planes[1] = normalizePlane(plane{m30 - m00, m31 - m01, m32 - m02, m33 - m03})
	// Bottom = m3 + m1
	f.planes[2] = normalizePlane(plane{m30 + m10, m31 + m11, m32 + m12, m33 + m13})
	// Top = m3 - m1
	f.planes[3] = normalizePlane(plane{m30 - m10, m31 - m11, m32 - m12, m33 - m13})
	// Near = m3 + m2
	f.planes[4] = normalizePlane(plane{m30 + m20, m31 + m21, m32 + m22, m33 + m23})
	// Far = m3 - m2
	f.planes[5] = normalizePlane(plane{m30 - m20, m31 - m21, m32 - m22, m33 - m23})
	return f
}

// Camera describes a perspective viewpoint.
type Camera struct {
	Eye, Target mgl32.Vec3
	FovY        float32 // degrees
	Aspect      float32
	Near, Far   float32
}

// Frustum returns the view frustum of the camera.
func (c Camera) Frustum() Frustum {
	proj := mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
	view := mgl32.LookAtV(c.Eye, c.Target, mgl32.Vec3{0, 1, 0})
	return NewFrustum(proj.Mul4(view))
}

func normalizePlane(p plane) plane {
	l := float32(math.Sqrt(float64(p.a*p.a + p.b*p.b + p.c*p.c)))
	if l == 0 {
		return p
	}
	return plane{p.a / l, p.b / l, p.c / l, p.d / l}
}

// IntersectsAABB tests the box, inflated by Margin, against every plane.
func (f Frustum) IntersectsAABB(min, max mgl32.Vec3) bool {
	m := mgl32.Vec3{f.Margin, f.Margin, f.Margin}
	min, max = min.Sub(m), max.Add(m)
	for i := 0; i < 6; i++ {
		p := f.planes[i]
		// Select the positive vertex for this plane normal
		px := max.X()
		if p.a < 0 {
			px = min.X()
		}
		py := max.Y()
		if p.b < 0 {
			py = min.Y()
		}
		pz := max.Z()
		if p.c < 0 {
			pz = min.Z()
		}
		// If positive vertex is outside, AABB is outside
		if p.a*px+p.b*py+p.c*pz+p.d < 0 {
			return false
		}
	}
	return true
}
