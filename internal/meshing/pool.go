package meshing

import (
	"context"
	"log"
	"sync"

	"terramesh/internal/profiling"
	"terramesh/internal/world"
)

// MeshJob represents a meshing job request
type MeshJob struct {
	Chunk  *world.Chunk
	Lookup world.ChunkLookup
	// Result channel - will be sent the result when done
	ResultChan chan MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Pos  world.ChunkPosition
	Mesh *ChunkMesh
}

// WorkerPool manages goroutines for mesh generation
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	builder  *Builder
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(builder *Builder, workers int, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		builder:  builder,
		ctx:      ctx,
		cancel:   cancel,
	}

	// Start worker goroutines
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}
	log.Printf("mesh pool: %d workers, queue %d", workers, queueSize)

	return pool
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool) SubmitJob(job MeshJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued. Returns false
// when the pool shut down first.
func (p *WorkerPool) SubmitJobBlocking(job MeshJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// worker is the worker goroutine that processes mesh jobs
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := MeshResult{
				Pos:  job.Chunk.Pos,
				Mesh: p.builder.Build(job.Chunk, job.Lookup),
			}

			// Send result back
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// BuildAll meshes chunks and stores the results in cache. It returns once every
// submitted job has reported, or early if the pool shuts down; chunks whose mesh
// never arrived are marked dirty again.
func (p *WorkerPool) BuildAll(chunks []*world.Chunk, lookup world.ChunkLookup, cache *Cache) int {
	defer profiling.Track("meshing.BuildAll")()
	if len(chunks) == 0 {
		return 0
	}

	results := make(chan MeshResult, len(chunks))
	outstanding := make(map[world.ChunkPosition]*world.Chunk, len(chunks))
	for _, c := range chunks {
		// Cleared before building so a neighbour linked mid-build re-dirties it.
		c.SetClean()
		outstanding[c.Pos] = c
	}
	// Feed from a separate goroutine so results drain while the queue is full.
	go func() {
		for _, c := range chunks {
			if !p.SubmitJobBlocking(MeshJob{Chunk: c, Lookup: lookup, ResultChan: results}) {
				return
			}
		}
	}()

	built := 0
	for len(outstanding) > 0 {
		select {
		case r := <-results:
			cache.Put(r.Mesh)
			delete(outstanding, r.Pos)
			built++
		case <-p.ctx.Done():
			for _, c := range outstanding {
				c.MarkDirty()
			}
			return built
		}
	}
	return built
}

// Shutdown gracefully shuts down the worker pool
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	log.Printf("mesh pool: stopped")
}

// GetQueueLength returns the current number of jobs in the queue
func (p *WorkerPool) GetQueueLength() int {
	return len(p.jobQueue)
}
