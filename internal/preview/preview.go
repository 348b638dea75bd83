// Package preview renders top-down maps of generated terrain for eyeballing
// seeds and profiles.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"terramesh/internal/profiling"
	"terramesh/internal/world"

	"golang.org/x/image/draw"
)

// Palette colours each terrain block.
var Palette = map[world.Block]color.RGBA{
	world.BlockGrass:      {95, 159, 53, 255},
	world.BlockDirt:       {134, 96, 67, 255},
	world.BlockStone:      {125, 125, 125, 255},
	world.BlockSand:       {219, 207, 163, 255},
	world.BlockFlower:     {230, 60, 60, 255},
	world.BlockRareFlower: {170, 80, 220, 255},
	world.BlockWater:      {50, 90, 200, 255},
}

// Options describes the previewed area.
type Options struct {
	OriginX, OriginZ int // world coordinates of the top-left pixel
	Width, Height    int // in blocks
	Scale            int // output pixels per block
}

// Render samples the top block of every column in the area.
func Render(s *world.Sampler, opts Options) (*image.RGBA, error) {
	defer profiling.Track("preview.Render")()
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview area %dx%d is empty", opts.Width, opts.Height)
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}

	sea := s.Config().SeaLevel
	src := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	for px := 0; px < opts.Width; px++ {
		for pz := 0; pz < opts.Height; pz++ {
			x := float64(opts.OriginX + px)
			z := float64(opts.OriginZ + pz)
			b, y, ok := s.TopBlock(x, z)
			if !ok {
				continue
			}
			src.SetRGBA(px, pz, shade(Palette[b], y-sea))
		}
	}

	if opts.Scale == 1 {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width*opts.Scale, opts.Height*opts.Scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// shade brightens high ground and darkens low ground.
func shade(c color.RGBA, height float64) color.RGBA {
	f := 1 + height/256
	if f < 0.5 {
		f = 0.5
	}
	if f > 1.5 {
		f = 1.5
	}
	scale := func(v uint8) uint8 {
		s := float64(v) * f
		if s > 255 {
			return 255
		}
		return uint8(s)
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close preview: %w", err)
	}
	return nil
}
