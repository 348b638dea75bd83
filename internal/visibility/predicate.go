package visibility

import (
	"terramesh/internal/profiling"
	"terramesh/internal/world"
)

// Predicate decides whether a chunk takes part in rendering.
type Predicate func(*world.Chunk) bool

// NonEmpty accepts chunks holding at least one block.
func NonEmpty(c *world.Chunk) bool { return !c.IsEmpty() }

// InFrustum accepts chunks whose bounds intersect f.
func InFrustum(f Frustum) Predicate {
	return func(c *world.Chunk) bool {
		min, max := c.Bounds()
		return f.IntersectsAABB(min, max)
	}
}

// WithinRadius accepts chunks whose column lies within radius of (cx, cz).
func WithinRadius(cx, cz, radius int) Predicate {
	return func(c *world.Chunk) bool {
		dx, dz := c.Pos.X-cx, c.Pos.Z-cz
		return dx*dx+dz*dz <= radius*radius
	}
}

// All accepts a chunk only when every predicate does. With no predicates it
// accepts everything.
func All(preds ...Predicate) Predicate {
	return func(c *world.Chunk) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

// Apply records pred's verdict on every chunk and returns how many passed.
func Apply(chunks []*world.Chunk, pred Predicate) int {
	defer profiling.Track("visibility.Apply")()
	visible := 0
	for _, c := range chunks {
		v := pred(c)
		c.SetVisible(v)
		if v {
			visible++
		}
	}
	return visible
}
