package session

import (
	"log"
	"time"

	"terramesh/internal/config"
	"terramesh/internal/meshing"
	"terramesh/internal/profiling"
	"terramesh/internal/visibility"
	"terramesh/internal/world"
)

// Options sizes the session's worker pools. Zero values pick defaults.
type Options struct {
	MeshWorkers   int
	StreamWorkers int
	QueueSize     int
}

// Frame summarises one Update.
type Frame struct {
	Buffers   meshing.Buffers
	Generated int
	Evicted   int
	Loaded    int
	Visible   int
	Meshed    int
	Duration  time.Duration
	Profile   string
}

// Session owns the chunk store and runs the stream, visibility, mesh and
// aggregate steps around a moving centre.
type Session struct {
	Store    *world.ChunkStore
	Streamer *world.ChunkStreamer
	Pool     *meshing.WorkerPool
	Cache    *meshing.Cache

	// Camera, when set, adds frustum culling to the visibility pass.
	Camera *visibility.Camera

	gen     *world.Generator
	builder *meshing.Builder
}

// New starts the streaming and meshing workers.
func New(gen *world.Generator, builder *meshing.Builder, opts Options) *Session {
	store := world.NewChunkStore()
	return &Session{
		Store:    store,
		Streamer: world.NewChunkStreamer(store, gen, opts.StreamWorkers, config.GetVerticalChunks()),
		Pool:     meshing.NewWorkerPool(builder, opts.MeshWorkers, opts.QueueSize),
		Cache:    meshing.NewCache(),
		gen:      gen,
		builder:  builder,
	}
}

// Close stops every worker.
func (s *Session) Close() {
	s.Streamer.Close()
	s.Pool.Shutdown()
}

// Predicate returns the visibility test for a centre column.
func (s *Session) Predicate(cx, cz int) visibility.Predicate {
	preds := []visibility.Predicate{
		visibility.NonEmpty,
		visibility.WithinRadius(cx, cz, config.GetRenderDistance()),
	}
	if s.Camera != nil {
		preds = append(preds, visibility.InFrustum(s.Camera.Frustum()))
	}
	return visibility.All(preds...)
}

// Apply records pred's verdict on every loaded chunk.
func (s *Session) Apply(pred visibility.Predicate) int {
	return visibility.Apply(s.Store.Chunks(), pred)
}

// Update streams chunks around (x, z), evicts distant ones, remeshes dirty
// visible chunks and returns the aggregated buffers. Generation completes before
// meshing starts, so no mesh sees a half-linked neighbourhood.
func (s *Session) Update(x, z float32) Frame {
	start := time.Now()
	profiling.ResetFrame()

	var f Frame
	f.Generated = s.Streamer.StreamAroundSync(x, z, config.GetChunkLoadRadius())
	f.Evicted = s.Streamer.EvictFarChunks(x, z, config.GetChunkEvictRadius())
	if f.Evicted > 0 {
		s.Cache.Prune(s.Store.HasChunk)
	}

	chunks := s.Store.Chunks()
	f.Loaded = len(chunks)
	cx, cz := s.Streamer.CenterColumn(x, z)
	f.Visible = visibility.Apply(chunks, s.Predicate(cx, cz))

	dirty := make([]*world.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Visible() && c.IsDirty() {
			dirty = append(dirty, c)
		}
	}
	f.Meshed = s.Pool.BuildAll(dirty, s.Store, s.Cache)

	f.Buffers = meshing.Aggregate(chunks, s.Cache, nil)
	f.Duration = time.Since(start)
	f.Profile = profiling.TopN(4)

	log.Printf("session: centre (%.1f, %.1f): generated %d, evicted %d, visible %d/%d, meshed %d; %v in %v",
		x, z, f.Generated, f.Evicted, f.Visible, f.Loaded, f.Meshed, &f.Buffers, f.Duration)
	return f
}
