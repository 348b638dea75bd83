package world

import (
	"fmt"
	"math"
)

// TerrainVersion identifies the terrain formula. Bump it whenever the profiles,
// seeds or level constants below change, since they define world content.
const TerrainVersion = 1

// Default terrain constants.
const (
	DefaultSeaLevel   = 10.0
	DefaultSandLevel  = 13.0
	DefaultHeightSeed = 50
	DefaultFloralSeed = 23
)

// Floral density band for flowers; the inner band selects the rare variant.
const (
	floralMin     = 0.8
	floralMax     = 0.9
	rareFloralMin = 0.84
	rareFloralMax = 0.86
	floralPeriod  = 40.0
)

// Octave is one layer of the base-height sum. The field is sampled at
// ((SignX*x+OffsetX)/Period, (SignZ*z+OffsetZ)/Period) and weighted by Amplitude.
type Octave struct {
	SignX, OffsetX float64
	SignZ, OffsetZ float64
	Period         float64
	Amplitude      float64
}

// Profile is a named base-height formula.
type Profile struct {
	Name    string
	Base    float64
	Scale   float64 // multiplies the octave sum
	Octaves []Octave
}

var highOctaves = []Octave{
	{SignX: 1, SignZ: 1, Period: 987, Amplitude: 512},
	{SignX: -1, OffsetX: 1567, SignZ: 1, OffsetZ: -987, Period: 577, Amplitude: 256},
	{SignX: -1, OffsetX: 1000, SignZ: 1, OffsetZ: -500, Period: 153, Amplitude: 128},
	{SignX: 1, OffsetX: -500, SignZ: -1, OffsetZ: 250, Period: 73, Amplitude: 64},
	{SignX: -1, OffsetX: 250, SignZ: -1, OffsetZ: -125, Period: 37, Amplitude: 32},
}

var (
	// ProfileHigh composites all five octaves.
	ProfileHigh = Profile{Name: "high", Base: 20, Scale: 1, Octaves: highOctaves}
	// ProfileLow keeps the three coarse octaves at half amplitude.
	ProfileLow = Profile{Name: "low", Base: 20, Scale: 0.5, Octaves: highOctaves[:3]}
)

// ProfileByName resolves a configured profile name.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", ProfileHigh.Name:
		return ProfileHigh, nil
	case ProfileLow.Name:
		return ProfileLow, nil
	}
	return Profile{}, fmt.Errorf("unknown terrain profile %q", name)
}

// TerrainConfig holds the versioned values that determine world content.
type TerrainConfig struct {
	HeightSeed int64
	FloralSeed int64
	SeaLevel   float64
	SandLevel  float64
	Profile    Profile
}

// DefaultTerrainConfig returns the reference world.
func DefaultTerrainConfig() TerrainConfig {
	return TerrainConfig{
		HeightSeed: DefaultHeightSeed,
		FloralSeed: DefaultFloralSeed,
		SeaLevel:   DefaultSeaLevel,
		SandLevel:  DefaultSandLevel,
		Profile:    ProfileHigh,
	}
}

// WithWorldSeed offsets both noise seeds by seed. A zero seed is the reference world.
func (c TerrainConfig) WithWorldSeed(seed int64) TerrainConfig {
	c.HeightSeed += seed
	c.FloralSeed += seed
	return c
}

// ColumnSample is the per-(x,z) noise needed to classify any y in the column.
type ColumnSample struct {
	Base   float64
	Floral float64
}

// Sampler classifies world positions into blocks. It holds only immutable noise
// state and may be shared between goroutines.
type Sampler struct {
	cfg    TerrainConfig
	height *Perlin
	floral *Perlin
}

// NewSampler seeds the noise fields for cfg.
func NewSampler(cfg TerrainConfig) *Sampler {
	if len(cfg.Profile.Octaves) == 0 {
		cfg.Profile = ProfileHigh
	}
	return &Sampler{
		cfg:    cfg,
		height: NewPerlin(cfg.HeightSeed),
		floral: NewPerlin(cfg.FloralSeed),
	}
}

// Config returns the configuration the sampler was built with.
func (s *Sampler) Config() TerrainConfig { return s.cfg }

func (s *Sampler) baseLevel(x, z float64) float64 {
	p := s.cfg.Profile
	sum := 0.0
	for _, o := range p.Octaves {
		sum += s.height.Get((o.SignX*x+o.OffsetX)/o.Period, (o.SignZ*z+o.OffsetZ)/o.Period) * o.Amplitude
	}
	return p.Base + sum*p.Scale
}

func (s *Sampler) floralness(x, z float64) float64 {
	return s.floral.Get(x/floralPeriod, z/floralPeriod)
}

// Column samples the noise for one column.
func (s *Sampler) Column(x, z float64) ColumnSample {
	return ColumnSample{Base: s.baseLevel(x, z), Floral: s.floralness(x, z)}
}

// Block returns the block at (x, y, z); false means air.
func (s *Sampler) Block(x, y, z float64) (Block, bool) {
	return s.Classify(y, s.Column(x, z))
}

// Classify places y within a sampled column. Branch order matters: the sand
// test runs before the soil bands, so low ground is sand however deep it lies.
func (s *Sampler) Classify(y float64, col ColumnSample) (Block, bool) {
	base := col.Base
	switch {
	case y >= base+1:
		if y <= s.cfg.SeaLevel {
			return BlockWater, true
		}
		return 0, false
	case y >= base:
		if y <= s.cfg.SeaLevel {
			return BlockWater, true
		}
		if col.Floral >= floralMin && col.Floral <= floralMax {
			if col.Floral >= rareFloralMin && col.Floral <= rareFloralMax {
				return BlockRareFlower, true
			}
			return BlockFlower, true
		}
		return 0, false
	case y <= s.cfg.SandLevel:
		return BlockSand, true
	case y >= base-1:
		return BlockGrass, true
	case y >= base-3:
		return BlockDirt, true
	default:
		return BlockStone, true
	}
}

// SurfaceHeight is the base height at (x, z), for bound tests without classification.
func (s *Sampler) SurfaceHeight(x, z float64) float64 {
	return s.baseLevel(x, z)
}

// FloralPresence returns the surface height when a floral block would be placed there.
func (s *Sampler) FloralPresence(x, z float64) (float64, bool) {
	base := s.baseLevel(x, z)
	if base <= s.cfg.SeaLevel {
		return 0, false
	}
	f := s.floralness(x, z)
	if f >= floralMin && f <= floralMax {
		return base, true
	}
	return 0, false
}

// FluidSurface returns the sea level when the column is submerged.
func (s *Sampler) FluidSurface(x, z float64) (float64, bool) {
	if s.baseLevel(x, z)+1 <= s.cfg.SeaLevel {
		return s.cfg.SeaLevel, true
	}
	return 0, false
}

// TopBlock returns the highest block of the column and the y it sits at.
func (s *Sampler) TopBlock(x, z float64) (Block, float64, bool) {
	col := s.Column(x, z)
	y := math.Ceil(s.columnCeiling(x, z)) - 1
	for i := 0; i < 4; i++ {
		if b, ok := s.Classify(y, col); ok {
			return b, y, true
		}
		y--
	}
	return 0, 0, false
}

// ceilingRange returns the lowest and highest columnCeiling over the n×n columns
// starting at (x0, z0).
func (s *Sampler) ceilingRange(x0, z0, n int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for x := x0; x < x0+n; x++ {
		for z := z0; z < z0+n; z++ {
			c := s.columnCeiling(float64(x), float64(z))
			lo = math.Min(lo, c)
			hi = math.Max(hi, c)
		}
	}
	return lo, hi
}

// columnCeiling is the lowest y at and above which the column is guaranteed empty.
func (s *Sampler) columnCeiling(x, z float64) float64 {
	ceiling := s.SurfaceHeight(x, z) + 1
	if level, ok := s.FluidSurface(x, z); ok {
		ceiling = math.Max(ceiling, math.Floor(level)+1)
	}
	return ceiling
}
