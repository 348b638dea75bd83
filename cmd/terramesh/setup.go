package main

import (
	"fmt"
	"log"
	"runtime"

	"terramesh/internal/config"
	"terramesh/internal/meshing"
	"terramesh/internal/registry"
	"terramesh/internal/session"
	"terramesh/internal/world"
)

type pipeline struct {
	sampler *world.Sampler
	session *session.Session
}

func newPipeline(cfg config.File) (*pipeline, error) {
	reg := registry.Default()
	if err := reg.ApplyOverrides(cfg.Blocks); err != nil {
		return nil, fmt.Errorf("block overrides: %w", err)
	}
	table, err := reg.Table()
	if err != nil {
		return nil, fmt.Errorf("block table: %w", err)
	}

	atlas, err := meshing.NewAtlas(cfg.Atlas.Columns, cfg.Atlas.Rows)
	if err != nil {
		return nil, err
	}
	if n := len(reg.TextureNames()); n > atlas.Capacity() {
		return nil, fmt.Errorf("%d textures do not fit a %dx%d atlas", n, atlas.Columns, atlas.Rows)
	}

	terrain, err := config.TerrainConfig()
	if err != nil {
		return nil, err
	}
	sampler := world.NewSampler(terrain)
	gen := world.NewGenerator(sampler, table, config.GetChunkSize())

	meshWorkers := cfg.Workers.Mesh
	if meshWorkers <= 0 {
		meshWorkers = max(runtime.NumCPU()-1, 1)
	}
	s := session.New(gen, meshing.NewBuilder(table, atlas), session.Options{
		MeshWorkers:   meshWorkers,
		StreamWorkers: cfg.Workers.Stream,
		QueueSize:     cfg.Workers.Queue,
	})
	log.Printf("terrain v%d: profile %s, seeds %d/%d, chunk size %d, render distance %d",
		world.TerrainVersion, terrain.Profile.Name, terrain.HeightSeed, terrain.FloralSeed,
		config.GetChunkSize(), config.GetRenderDistance())

	return &pipeline{sampler: sampler, session: s}, nil
}
