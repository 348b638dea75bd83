package world

import (
	"math"
	"math/rand"
)

// Seeded 2D gradient noise. Permutations come from math/rand so a seed always
// reproduces the same field.

// fade function is used for smoothing (6t^5 - 15t^4 + 10t^3)
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Eight unit gradients: the axes and the diagonals.
var grad2 = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{math.Sqrt2 / 2, math.Sqrt2 / 2}, {-math.Sqrt2 / 2, math.Sqrt2 / 2},
	{math.Sqrt2 / 2, -math.Sqrt2 / 2}, {-math.Sqrt2 / 2, -math.Sqrt2 / 2},
}

// Perlin is an immutable seeded 2D gradient noise field with values in [-1, 1].
type Perlin struct {
	seed int64
	perm [512]int
}

// NewPerlin shuffles the permutation table for seed.
func NewPerlin(seed int64) *Perlin {
	p := &Perlin{seed: seed}
	rnd := rand.New(rand.NewSource(seed))

	for i := 0; i < 256; i++ {
		p.perm[i] = i
	}
	for i := 0; i < 256; i++ {
		j := rnd.Intn(256-i) + i
		p.perm[i], p.perm[j] = p.perm[j], p.perm[i]
	}
	for i := 0; i < 256; i++ {
		p.perm[i+256] = p.perm[i]
	}
	return p
}

// Seed returns the seed the field was built from.
func (p *Perlin) Seed() int64 { return p.seed }

func (p *Perlin) gradDot(hash int, x, z float64) float64 {
	g := grad2[hash&7]
	return g[0]*x + g[1]*z
}

// Get samples the field at (x, z).
func (p *Perlin) Get(x, z float64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	xi := int(x0) & 255
	zi := int(z0) & 255
	xf := x - x0
	zf := z - z0

	u := fade(xf)
	v := fade(zf)

	aa := p.perm[p.perm[xi]+zi]
	ab := p.perm[p.perm[xi]+zi+1]
	ba := p.perm[p.perm[xi+1]+zi]
	bb := p.perm[p.perm[xi+1]+zi+1]

	n00 := p.gradDot(aa, xf, zf)
	n10 := p.gradDot(ba, xf-1, zf)
	n01 := p.gradDot(ab, xf, zf-1)
	n11 := p.gradDot(bb, xf-1, zf-1)

	// Unit gradients peak at sqrt(2)/2; rescale to [-1, 1].
	r := lerp(lerp(n00, n10, u), lerp(n01, n11, u), v) * math.Sqrt2
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
