package world

import (
	"log"
	"math"
	"runtime"
	"sync"

	"terramesh/internal/profiling"

	"github.com/alitto/pond/v2"
)

// ChunkStreamer generates chunks around a centre, either in the background or as
// a blocking batch.
type ChunkStreamer struct {
	jobs       chan ChunkPosition
	pending    map[ChunkPosition]struct{}
	pendingMu  sync.Mutex
	maxPending int
	wg         sync.WaitGroup

	maxJobsPerCall int

	// How many chunk layers below the lowest surface layer of a column get loaded.
	depth int

	// Cached {top, bottom} surface layers per column (chunkX, chunkZ)
	heightCache   map[[2]int][2]int
	heightCacheMu sync.RWMutex

	batch pond.Pool

	// Dependencies
	store *ChunkStore
	gen   *Generator
}

// NewChunkStreamer starts workers background workers (NumCPU when <= 0).
func NewChunkStreamer(store *ChunkStore, gen *Generator, workers, depth int) *ChunkStreamer {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	if depth <= 0 {
		depth = 1
	}
	cs := &ChunkStreamer{
		jobs:           make(chan ChunkPosition, 4096),
		pending:        make(map[ChunkPosition]struct{}),
		maxJobsPerCall: 2048,
		maxPending:     16384,
		depth:          depth,
		heightCache:    make(map[[2]int][2]int),
		batch:          pond.NewPool(workers),
		store:          store,
		gen:            gen,
	}

	for i := 0; i < workers; i++ {
		cs.wg.Add(1)
		go cs.worker()
	}
	log.Printf("chunk streamer: %d workers, depth %d", workers, depth)

	return cs
}

// Close stops the background generation workers and waits for them.
func (cs *ChunkStreamer) Close() {
	close(cs.jobs)
	cs.wg.Wait()
	cs.batch.StopAndWait()
}

func (cs *ChunkStreamer) worker() {
	defer cs.wg.Done()
	for pos := range cs.jobs {
		cs.generateChunkSync(pos)
		cs.pendingMu.Lock()
		delete(cs.pending, pos)
		cs.pendingMu.Unlock()
	}
}

// generateChunkSync builds and installs a chunk if missing.
func (cs *ChunkStreamer) generateChunkSync(pos ChunkPosition) {
	if cs.store.HasChunk(pos) {
		return
	}
	cs.store.AddChunk(cs.gen.Populate(pos))
}

// CenterColumn converts a world-space XZ position into its chunk column.
func (cs *ChunkStreamer) CenterColumn(x, z float32) (int, int) {
	n := cs.gen.ChunkSize()
	return floorDiv(int(math.Floor(float64(x))), n), floorDiv(int(math.Floor(float64(z))), n)
}

// columnSpan returns the highest chunk layer of a column that can hold blocks
// and the lowest layer holding any column's surface.
func (cs *ChunkStreamer) columnSpan(chunkX, chunkZ int) (top, bottom int) {
	key := [2]int{chunkX, chunkZ}
	cs.heightCacheMu.RLock()
	cached, ok := cs.heightCache[key]
	cs.heightCacheMu.RUnlock()
	if ok {
		return cached[0], cached[1]
	}

	n := cs.gen.ChunkSize()
	lo, hi := cs.gen.Sampler().ceilingRange(chunkX*n, chunkZ*n, n)
	// The surface block sits at most two cells below the ceiling.
	top = floorDiv(int(math.Ceil(hi))-1, n)
	bottom = floorDiv(int(math.Ceil(lo))-2, n)

	cs.heightCacheMu.Lock()
	cs.heightCache[key] = [2]int{top, bottom}
	cs.heightCacheMu.Unlock()
	return top, bottom
}

// columnLayers lists the chunk layers loaded for a column, top first: every
// layer the surface crosses plus depth layers below it.
func (cs *ChunkStreamer) columnLayers(chunkX, chunkZ int) []ChunkPosition {
	top, bottom := cs.columnSpan(chunkX, chunkZ)
	out := make([]ChunkPosition, 0, top-bottom+cs.depth+1)
	for cy := top; cy >= bottom-cs.depth; cy-- {
		out = append(out, ChunkPosition{X: chunkX, Y: cy, Z: chunkZ})
	}
	return out
}

// StreamAroundSync generates every missing chunk within radius columns of the
// centre and returns once all of them are in the store.
func (cs *ChunkStreamer) StreamAroundSync(x, z float32, radius int) int {
	defer profiling.Track("world.StreamAroundSync")()
	cx, cz := cs.CenterColumn(x, z)

	var wg sync.WaitGroup
	queued := 0
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			for _, pos := range cs.columnLayers(cx+dx, cz+dz) {
				if cs.store.HasChunk(pos) {
					continue
				}
				pos := pos
				wg.Add(1)
				cs.batch.Submit(func() {
					defer wg.Done()
					cs.generateChunkSync(pos)
				})
				queued++
			}
		}
	}
	wg.Wait()
	return queued
}

// StreamAroundAsync queues chunks for background loading, nearest rings first.
func (cs *ChunkStreamer) StreamAroundAsync(x, z float32, radius int) int {
	defer profiling.Track("world.StreamAroundAsync")()
	cx, cz := cs.CenterColumn(x, z)

	jobsPushed := 0
	for r := 0; r <= radius; r++ {
		if jobsPushed >= cs.maxJobsPerCall {
			break
		}
		if r == 0 {
			jobsPushed += cs.enqueueColumn(cx, cz)
			continue
		}

		x0, x1 := cx-r, cx+r
		z0, z1 := cz-r, cz+r
		for xk := x0; xk <= x1; xk++ {
			jobsPushed += cs.enqueueColumn(xk, z0)
			jobsPushed += cs.enqueueColumn(xk, z1)
			if jobsPushed >= cs.maxJobsPerCall {
				return jobsPushed
			}
		}
		for zk := z0 + 1; zk <= z1-1; zk++ {
			jobsPushed += cs.enqueueColumn(x0, zk)
			jobsPushed += cs.enqueueColumn(x1, zk)
			if jobsPushed >= cs.maxJobsPerCall {
				return jobsPushed
			}
		}
	}
	return jobsPushed
}

// enqueueColumn enqueues all needed layers for a column.
func (cs *ChunkStreamer) enqueueColumn(chunkX, chunkZ int) int {
	enq := 0
	for _, pos := range cs.columnLayers(chunkX, chunkZ) {
		if cs.requestChunkLimited(pos) {
			enq++
		}
	}
	return enq
}

// requestChunkLimited respects pending cap and returns true if enqueued.
func (cs *ChunkStreamer) requestChunkLimited(pos ChunkPosition) bool {
	if cs.store.HasChunk(pos) {
		return false
	}

	cs.pendingMu.Lock()
	if _, ok := cs.pending[pos]; ok {
		cs.pendingMu.Unlock()
		return false
	}
	if cs.maxPending > 0 && len(cs.pending) >= cs.maxPending {
		cs.pendingMu.Unlock()
		return false
	}
	cs.pending[pos] = struct{}{}
	cs.pendingMu.Unlock()

	select {
	case cs.jobs <- pos:
		return true
	default:
		// queue full: rollback
		cs.pendingMu.Lock()
		delete(cs.pending, pos)
		cs.pendingMu.Unlock()
		return false
	}
}

// Pending returns the number of queued or running background jobs.
func (cs *ChunkStreamer) Pending() int {
	cs.pendingMu.Lock()
	defer cs.pendingMu.Unlock()
	return len(cs.pending)
}

// EvictFarChunks removes chunks outside the given radius.
func (cs *ChunkStreamer) EvictFarChunks(x, z float32, radius int) int {
	cx, cz := cs.CenterColumn(x, z)

	// Delegate physical removal to Store
	removed := cs.store.EvictFarChunks(cx, cz, radius)

	// Prune height cache entries outside radius
	cs.heightCacheMu.Lock()
	for key := range cs.heightCache {
		dx := key[0] - cx
		dz := key[1] - cz
		if dx*dx+dz*dz > radius*radius {
			delete(cs.heightCache, key)
		}
	}
	cs.heightCacheMu.Unlock()

	return removed
}
