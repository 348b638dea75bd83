package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"terramesh/internal/world"

	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration.
type File struct {
	Version int                      `yaml:"version"`
	World   WorldSection             `yaml:"world"`
	Render  RenderSection            `yaml:"render"`
	Workers WorkerSection            `yaml:"workers"`
	Atlas   AtlasSection             `yaml:"atlas"`
	Blocks  map[string]BlockOverride `yaml:"blocks"`
}

type WorldSection struct {
	Seed      int64   `yaml:"seed"`
	Profile   string  `yaml:"profile"`
	ChunkSize int     `yaml:"chunk_size"`
	SeaLevel  float64 `yaml:"sea_level"`
	SandLevel float64 `yaml:"sand_level"`
}

type RenderSection struct {
	Distance       int `yaml:"distance"`
	VerticalChunks int `yaml:"vertical_chunks"`
}

type WorkerSection struct {
	Mesh   int `yaml:"mesh"`
	Stream int `yaml:"stream"`
	Queue  int `yaml:"queue"`
}

type AtlasSection struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// BlockOverride replaces registry properties of a named block. Empty fields keep
// the registered value.
type BlockOverride struct {
	Texture      string `yaml:"texture"`
	Mesh         string `yaml:"mesh"`
	Transparency string `yaml:"transparency"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Version: world.TerrainVersion,
		World: WorldSection{
			Profile:   world.ProfileHigh.Name,
			ChunkSize: world.DefaultChunkSize,
			SeaLevel:  world.DefaultSeaLevel,
			SandLevel: world.DefaultSandLevel,
		},
		Render:  RenderSection{Distance: 4, VerticalChunks: 1},
		Workers: WorkerSection{Queue: 1024},
		Atlas:   AtlasSection{Columns: 4, Rows: 2},
	}
}

// Load reads path over the defaults. An empty path yields Default().
func Load(path string) (File, error) {
	f := Default()
	if path == "" {
		return f, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("config: loaded %s (profile %s, seed %d)", path, f.World.Profile, f.World.Seed)
	return f, nil
}

// Validate checks the values that would otherwise surface as panics later.
func (f File) Validate() error {
	var errs []error
	if f.Version != world.TerrainVersion {
		errs = append(errs, fmt.Errorf("version %d does not match terrain version %d", f.Version, world.TerrainVersion))
	}
	if _, err := world.ProfileByName(f.World.Profile); err != nil {
		errs = append(errs, err)
	}
	if f.World.ChunkSize < 2 {
		errs = append(errs, fmt.Errorf("chunk_size %d below 2", f.World.ChunkSize))
	}
	if f.Render.Distance < 0 {
		errs = append(errs, fmt.Errorf("negative render distance %d", f.Render.Distance))
	}
	if f.Atlas.Columns <= 0 || f.Atlas.Rows <= 0 {
		errs = append(errs, fmt.Errorf("atlas must have positive columns and rows, got %dx%d", f.Atlas.Columns, f.Atlas.Rows))
	}
	for name, o := range f.Blocks {
		if o.Mesh != "" {
			if _, err := world.ParseMeshType(o.Mesh); err != nil {
				errs = append(errs, fmt.Errorf("block %s: %w", name, err))
			}
		}
		if o.Transparency != "" {
			if _, err := world.ParseTransparency(o.Transparency); err != nil {
				errs = append(errs, fmt.Errorf("block %s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Apply pushes the file's values into the global settings.
func (f File) Apply() {
	SetSeed(f.World.Seed)
	SetProfile(f.World.Profile)
	SetChunkSize(f.World.ChunkSize)
	SetSeaLevel(f.World.SeaLevel)
	SetSandLevel(f.World.SandLevel)
	SetRenderDistance(f.Render.Distance)
	SetVerticalChunks(f.Render.VerticalChunks)
}
