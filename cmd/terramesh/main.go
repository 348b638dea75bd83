package main

import (
	"flag"
	"log"

	"terramesh/internal/config"
	"terramesh/internal/preview"
	"terramesh/internal/visibility"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

func main() {
	var (
		cfgPath     string
		seed        int64
		profile     string
		radius      int
		startX      float64
		startZ      float64
		steps       int
		stride      float64
		useCamera   bool
		previewPath string
		previewSize int
	)
	flag.StringVar(&cfgPath, "config", "", "path to YAML configuration file")
	flag.Int64Var(&seed, "seed", 0, "world seed (overrides config)")
	flag.StringVar(&profile, "profile", "", "terrain profile: high or low (overrides config)")
	flag.IntVar(&radius, "radius", 0, "render distance in chunks (overrides config)")
	flag.Float64Var(&startX, "x", 0, "world x of the first centre")
	flag.Float64Var(&startZ, "z", 0, "world z of the first centre")
	flag.IntVar(&steps, "steps", 1, "number of batches to run")
	flag.Float64Var(&stride, "stride", 16, "distance moved along +x between batches")
	flag.BoolVar(&useCamera, "camera", false, "cull chunks outside a camera looking along -z")
	flag.StringVar(&previewPath, "preview", "", "write a top-down PNG preview to this path")
	flag.IntVar(&previewSize, "preview-size", 256, "preview side length in blocks")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.World.Seed = seed
		case "profile":
			cfg.World.Profile = profile
		case "radius":
			cfg.Render.Distance = radius
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	cfg.Apply()

	p, err := newPipeline(cfg)
	if err != nil {
		log.Fatalf("initialise pipeline: %v", err)
	}
	closer.Bind(p.session.Close)

	for i := 0; i < steps; i++ {
		x := float32(startX + float64(i)*stride)
		z := float32(startZ)
		if useCamera {
			p.session.Camera = &visibility.Camera{
				Eye:    mgl32.Vec3{x, float32(p.sampler.SurfaceHeight(float64(x), float64(z))) + 24, z},
				Target: mgl32.Vec3{x, 0, z - 64},
				FovY:   70,
				Aspect: 16.0 / 9.0,
				Near:   0.1,
				Far:    float32(config.GetRenderDistance()*config.GetChunkSize()) * 2,
			}
		}
		f := p.session.Update(x, z)
		log.Printf("batch %d: %d vertices / %d indices opaque, %d / %d transparent, %d / %d translucent; top: %s",
			i,
			len(f.Buffers.Opaque.Vertices), len(f.Buffers.Opaque.Indices),
			len(f.Buffers.Transparent.Vertices), len(f.Buffers.Transparent.Indices),
			len(f.Buffers.Translucent.Vertices), len(f.Buffers.Translucent.Indices),
			f.Profile)
	}

	if previewPath != "" {
		half := previewSize / 2
		img, err := preview.Render(p.sampler, preview.Options{
			OriginX: int(startX) - half,
			OriginZ: int(startZ) - half,
			Width:   previewSize,
			Height:  previewSize,
			Scale:   2,
		})
		if err != nil {
			log.Fatalf("render preview: %v", err)
		}
		if err := preview.WritePNG(previewPath, img); err != nil {
			log.Fatalf("write preview: %v", err)
		}
		log.Printf("preview written to %s", previewPath)
	}

	// Runs the bound cleanup and exits.
	closer.Close()
}
